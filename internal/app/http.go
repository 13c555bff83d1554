package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storyshare/internal/auth/handler"
	"storyshare/internal/auth/provider"
	"storyshare/internal/auth/provider/facebook"
	"storyshare/internal/auth/provider/google"
	"storyshare/internal/auth/provider/instagram"
	"storyshare/internal/config"
	"storyshare/internal/logger"
	"storyshare/internal/middleware"
	"storyshare/internal/post"
	"storyshare/internal/session"
	"storyshare/internal/user"
	"storyshare/internal/web"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	sessions := session.NewManager(sessionStore, cfg.SessionSecret, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	userStore := user.NewPostgresStore(infra.DB)
	postStore := post.NewPostgresStore(infra.DB)

	registry, err := buildProviders(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	authHandler := handler.NewHandler(registry, sessions, userStore)
	webHandler := web.NewHandler(userStore, postStore)
	authMiddleware := middleware.NewAuth(sessions, userStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(authMiddleware.ResolveIdentity())

	router.LoadHTMLGlob("web/templates/*.tmpl")
	router.Static("/public", "./public")

	authHandler.RegisterRoutes(router)
	webHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router, func() error {
		return infra.DB.Close()
	}, nil
}

// buildProviders registers every provider with a complete client
// id/secret/callback triple. At least one provider must be usable.
func buildProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.Google.Configured() {
		p, err := google.New(
			ctx,
			cfg.Google.ClientID,
			cfg.Google.ClientSecret,
			cfg.Google.RedirectURL,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.Facebook.Configured() {
		p, err := facebook.New(
			cfg.Facebook.ClientID,
			cfg.Facebook.ClientSecret,
			cfg.Facebook.RedirectURL,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.Instagram.Configured() {
		p, err := instagram.New(
			cfg.Instagram.ClientID,
			cfg.Instagram.ClientSecret,
			cfg.Instagram.RedirectURL,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if len(list) == 0 {
		return nil, errors.New("no oauth provider configured")
	}

	for _, p := range list {
		logger.Info("oauth provider registered", map[string]any{
			"provider": p.Name(),
		})
	}

	return provider.NewRegistry(list...), nil
}

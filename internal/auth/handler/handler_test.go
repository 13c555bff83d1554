package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyshare/internal/auth"
	"storyshare/internal/auth/provider"
	"storyshare/internal/session"
	"storyshare/internal/user"
)

type fakeProvider struct {
	name        string
	profile     *auth.Profile
	exchangeErr error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) AuthCodeURL(state, codeChallenge string) string {
	return "https://provider.example.com/auth?state=" + state
}

func (f *fakeProvider) Exchange(context.Context, string, string) (*auth.Profile, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.profile, nil
}

type fakeUserStore struct {
	byAccount map[string]*user.User
	byID      map[string]*user.User
	nextID    int
	failWith  error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byAccount: make(map[string]*user.User),
		byID:      make(map[string]*user.User),
	}
}

func accountKey(p *auth.Profile) string {
	return p.Provider + "/" + p.ProviderUserID
}

func (f *fakeUserStore) FindOrCreate(_ context.Context, p *auth.Profile) (*user.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if u, ok := f.byAccount[accountKey(p)]; ok {
		return u, nil
	}
	f.nextID++
	u := &user.User{
		ID:          fmt.Sprintf("user-%d", f.nextID),
		DisplayName: p.DisplayName,
		Email:       p.Email,
	}
	f.byAccount[accountKey(p)] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UpdateEmail(_ context.Context, id, email string) error {
	f.byID[id].Email = email
	return nil
}

func (f *fakeUserStore) UpdatePhone(_ context.Context, id, phone string) error {
	f.byID[id].Phone = phone
	return nil
}

func (f *fakeUserStore) UpdateLocation(_ context.Context, id, location string) error {
	f.byID[id].Location = location
	return nil
}

type testEnv struct {
	router   *gin.Engine
	sessions *session.Manager
	users    *fakeUserStore
	provider *fakeProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p := &fakeProvider{
		name: "fake",
		profile: &auth.Profile{
			Provider:       "fake",
			ProviderUserID: "g123",
			DisplayName:    "Ada Lovelace",
			Email:          "ada@example.com",
		},
	}

	sessions := session.NewManager(
		session.NewMemoryStore(),
		"test-secret",
		session.CookieOptions{SameSite: http.SameSiteLaxMode},
	)
	users := newFakeUserStore()

	router := gin.New()
	NewHandler(provider.NewRegistry(p), sessions, users).RegisterRoutes(router)

	return &testEnv{
		router:   router,
		sessions: sessions,
		users:    users,
		provider: p,
	}
}

// startLogin performs /auth/fake and returns the state value plus the
// cookies the browser would carry to the callback.
func (e *testEnv) startLogin(t *testing.T) (string, []*http.Cookie) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/fake", nil)
	e.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	var state string
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookieName {
			state = c.Value
		}
	}
	require.NotEmpty(t, state)

	return state, rec.Result().Cookies()
}

func (e *testEnv) completeLogin(t *testing.T) []*http.Cookie {
	t.Helper()

	state, cookies := e.startLogin(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodGet,
		"/auth/fake/callback?state="+state+"&code=test-code",
		nil,
	)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	e.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/profile", rec.Header().Get("Location"))

	return rec.Result().Cookies()
}

func TestLoginRedirectsToProvider(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/fake", nil)
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "https://provider.example.com/auth")

	names := make([]string, 0, 2)
	for _, c := range rec.Result().Cookies() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, stateCookieName)
	assert.Contains(t, names, pkceCookieName)
}

func TestLoginUnknownProvider(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/myspace", nil)
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCallbackEstablishesSession(t *testing.T) {
	env := newTestEnv(t)

	cookies := env.completeLogin(t)

	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie)

	userID, ok := env.sessions.Resolve(context.Background(), req)
	require.True(t, ok)

	u, err := env.users.FindByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.DisplayName)
}

func TestRepeatLoginReusesIdentity(t *testing.T) {
	env := newTestEnv(t)

	env.completeLogin(t)
	require.Len(t, env.users.byID, 1)

	env.completeLogin(t)
	assert.Len(t, env.users.byID, 1, "second login with same provider account must not create a new user")
}

func TestCallbackRejectsBadState(t *testing.T) {
	env := newTestEnv(t)

	_, cookies := env.startLogin(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodGet,
		"/auth/fake/callback?state=forged&code=test-code",
		nil,
	)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, env.users.byID)
}

func TestCallbackProviderError(t *testing.T) {
	env := newTestEnv(t)

	state, cookies := env.startLogin(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodGet,
		"/auth/fake/callback?state="+state+"&error=access_denied",
		nil,
	)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCallbackExchangeFailure(t *testing.T) {
	env := newTestEnv(t)
	env.provider.exchangeErr = errors.New("provider unreachable")

	state, cookies := env.startLogin(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodGet,
		"/auth/fake/callback?state="+state+"&code=test-code",
		nil,
	)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCallbackPersistenceFailure(t *testing.T) {
	env := newTestEnv(t)
	env.users.failWith = errors.New("db down")

	state, cookies := env.startLogin(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodGet,
		"/auth/fake/callback?state="+state+"&code=test-code",
		nil,
	)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogoutTerminatesSession(t *testing.T) {
	env := newTestEnv(t)

	cookies := env.completeLogin(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// old cookie no longer resolves
	replay := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		replay.AddCookie(c)
	}
	_, ok := env.sessions.Resolve(context.Background(), replay)
	assert.False(t, ok)

	// a second logout is a no-op
	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/logout", nil)
	env.router.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusFound, rec2.Code)
}

package auth

// Profile is the normalized shape of an OAuth provider's profile
// response. It carries identity facts only, no decisions.
type Profile struct {
	Provider        string // "google", "facebook", "instagram"
	ProviderUserID  string // provider-scoped unique user identifier
	DisplayName     string
	Email           string // may be empty, not every provider supplies one
	ProfileImageURL string // may be empty
}

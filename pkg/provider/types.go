package provider

import "time"

// Session is the opaque proof-of-authentication record returned by the
// identity provider. Local code only branches on its presence; token
// values are pass-throughs and are never decoded or verified here.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user,omitempty"`
}

// Expired reports whether the session's access token is past its
// provider-declared expiry. Sessions without an expiry never expire
// from the local point of view.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	if s.ExpiresAt == 0 {
		return false
	}
	return now.Unix() >= s.ExpiresAt
}

// User is the provider's identity record. ID and Email are treated as
// opaque pass-through values; Metadata carries provider-specific claims.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email,omitempty"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// UserAttributes describes a user mutation sent to the provider.
// Zero-value fields are omitted from the update.
type UserAttributes struct {
	Email    string         `json:"email,omitempty"`
	Password string         `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Profile is the application profile row associated with a user,
// loaded through the provider's table API.
type Profile struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Locale    string `json:"locale,omitempty"`
}

// Role is a named role granted to a user, with the permission names
// it carries.
type Role struct {
	Name        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

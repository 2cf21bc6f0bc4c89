package api

// Result is the outcome of a caller-invoked auth operation (sign-in,
// sign-up, password reset, profile update). Provider failures are
// translated into Error; Result never carries a Go error across the
// wire.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// OK returns a successful Result.
func OK() Result {
	return Result{Success: true}
}

// Fail returns a failed Result carrying the given message.
func Fail(message string) Result {
	return Result{Success: false, Error: message}
}

// FailErr returns a failed Result from a Go error. A nil error yields
// a successful Result.
func FailErr(err error) Result {
	if err == nil {
		return OK()
	}
	return Result{Success: false, Error: err.Error()}
}

// UserInfo is the minimal identity projection returned by the local
// check-session endpoint. The values are opaque pass-throughs from the
// identity provider.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// CheckSessionResponse is the payload of GET /api/auth/check-session.
type CheckSessionResponse struct {
	Success    bool      `json:"success"`
	HasSession bool      `json:"hasSession"`
	User       *UserInfo `json:"user,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// LogoutResponse is the payload of POST /api/auth/logout.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

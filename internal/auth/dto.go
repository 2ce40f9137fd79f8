package auth

import "github.com/chem-is-try/po-generator/internal/users"

// LoginRequest carries the credentials from the login form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the token pair plus the authenticated profile.
type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         users.Profile `json:"user"`
}

// RefreshRequest rotates a refresh token issued at login.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the replacement token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revokes the session tied to the presented access token.
type LogoutRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

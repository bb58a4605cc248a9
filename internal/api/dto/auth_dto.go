package dto

import "time"

// TokenRequest payload for POST /auth/token. The kiosk frontend posts
// an OAuth2-style form; JSON is accepted as well.
type TokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// AdminCreateRequest payload for admin registration.
type AdminCreateRequest struct {
	Login    string `json:"login" form:"login"`
	Password string `json:"password" form:"password"`
}

// AdminResponse exposes the admin identity only; password hashes never
// leave the service.
type AdminResponse struct {
	Username string `json:"username"`
}

// TokenResponse mirrors the OAuth2 password-grant response shape.
type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Admin       AdminResponse `json:"admin"`
}

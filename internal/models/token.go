package models

import "time"

// TokenResponse is returned when a service token is issued.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	TokenID     string    `json:"token_id"`
	TenantID    string    `json:"tenant_id,omitempty"`
	UserID      string    `json:"user_id"`
	IssuedAt    time.Time `json:"issued_at"`
}

// RevokeTokenRequest asks for a previously issued token to be denylisted.
type RevokeTokenRequest struct {
	TokenID string `json:"token_id"`
}

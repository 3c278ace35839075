package dto

// TokenRequest exchanges the local passphrase for an access token
type TokenRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

// TokenResponse represents an issued access token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"86400"`
}

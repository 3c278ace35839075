package services

import (
	"github.com/rs/zerolog"

	"github.com/yigit/unitrack/internal/pkg/apperrors"
	"github.com/yigit/unitrack/internal/pkg/auth"
)

// Token is an issued access token
type Token struct {
	AccessToken string
	ExpiresIn   int
}

// AuthService exchanges the owner passphrase for an access token
type AuthService struct {
	jwt    *auth.JWTService
	hash   string
	logger zerolog.Logger
}

// NewAuthService creates a new auth service. A nil JWT service disables auth.
func NewAuthService(jwt *auth.JWTService, passphraseHash string, lgr zerolog.Logger) *AuthService {
	return &AuthService{
		jwt:    jwt,
		hash:   passphraseHash,
		logger: lgr,
	}
}

// Enabled reports whether the API requires a token
func (s *AuthService) Enabled() bool {
	return s.jwt != nil && s.hash != ""
}

// IssueToken checks the passphrase and signs a token
func (s *AuthService) IssueToken(passphrase string) (Token, error) {
	if !s.Enabled() {
		return Token{}, apperrors.NewBadRequestError("authentication is disabled")
	}
	if !auth.CheckPassphrase(s.hash, passphrase) {
		s.logger.Warn().Msg("Token request with wrong passphrase")
		return Token{}, apperrors.ErrInvalidCredentials
	}
	token, expiresIn, err := s.jwt.GenerateToken()
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: token, ExpiresIn: expiresIn}, nil
}

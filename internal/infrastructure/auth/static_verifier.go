// Package auth holds credential verifiers for the login flow.
package auth

import (
	"context"
	"crypto/subtle"

	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/mrops-br/shophub-api/internal/infrastructure/config"
)

var _ domain.CredentialVerifier = (*StaticVerifier)(nil)

// StaticVerifier accepts exactly one configured username/password pair
type StaticVerifier struct {
	username string
	password string
	user     domain.User
}

func NewStaticVerifier(cfg *config.AuthConfig) *StaticVerifier {
	return &StaticVerifier{
		username: cfg.Username,
		password: cfg.Password,
		user: domain.User{
			ID:       cfg.UserID,
			Username: cfg.Username,
			Email:    cfg.Email,
		},
	}
}

func (v *StaticVerifier) Verify(_ context.Context, username, password string) (*domain.User, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	if !userOK || !passOK {
		return nil, domain.ErrInvalidCredentials
	}
	u := v.user
	return &u, nil
}

func (v *StaticVerifier) SessionUser(_ context.Context) (*domain.User, error) {
	u := v.user
	return &u, nil
}

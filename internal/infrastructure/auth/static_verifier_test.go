package auth

import (
	"context"
	"testing"

	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/mrops-br/shophub-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier(&config.AuthConfig{Username: "admin", Password: "password", UserID: 1, Email: "admin@example.com"})
	ctx := context.Background()

	u, err := v.Verify(ctx, "admin", "password")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: 1, Username: "admin", Email: "admin@example.com"}, u)

	for _, creds := range [][2]string{{"admin", "Password"}, {"Admin", "password"}, {"", ""}, {"admin", ""}} {
		_, err := v.Verify(ctx, creds[0], creds[1])
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "credentials %q", creds)
	}

	session, err := v.SessionUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
}

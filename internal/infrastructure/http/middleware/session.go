package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http/response"
)

// SessionSource reports the logged-in user
type SessionSource interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
}

type userKey struct{}

// UserFromContext returns the user attached by RequireSession
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(*domain.User)
	return u, ok
}

// RequireSession rejects requests with 401 unless a session is active
func RequireSession(sessions SessionSource, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.CurrentUser(r.Context())
			if err != nil {
				logger.WarnContext(r.Context(), "Rejected request without session",
					slog.String("url.path", r.URL.Path),
				)
				response.Error(w, http.StatusUnauthorized, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

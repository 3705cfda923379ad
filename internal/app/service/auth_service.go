package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mrops-br/shophub-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const sessionFlag = "true"

// AuthService keeps the single demo session. The authenticated flag is
// persisted under a storage key so the session survives restarts.
type AuthService struct {
	mu     sync.Mutex
	user   *domain.User
	loaded bool

	verifier domain.CredentialVerifier
	store    domain.KeyValueStore
	key      string
	tracer   trace.Tracer
	logger   *slog.Logger

	logins metric.Int64Counter
}

func NewAuthService(
	verifier domain.CredentialVerifier,
	store domain.KeyValueStore,
	key string,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *AuthService {
	logins, _ := meter.Int64Counter(
		"auth.logins",
		metric.WithDescription("Login attempts by result"),
	)

	return &AuthService{
		verifier: verifier,
		store:    store,
		key:      key,
		tracer:   tracer,
		logger:   logger,
		logins:   logins,
	}
}

// Login checks the credentials and marks the session authenticated
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	span.SetAttributes(attribute.String("auth.username", username))

	switch {
	case strings.TrimSpace(username) == "":
		span.SetStatus(codes.Error, "Validation failed")
		s.recordLogin(ctx, "invalid")
		return nil, domain.ErrUsernameRequired
	case strings.TrimSpace(password) == "":
		span.SetStatus(codes.Error, "Validation failed")
		s.recordLogin(ctx, "invalid")
		return nil, domain.ErrPasswordRequired
	}

	user, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid credentials")
		s.recordLogin(ctx, "rejected")
		s.logger.WarnContext(ctx, "Login rejected",
			slog.String("username", username),
		)
		return nil, err
	}

	s.mu.Lock()
	s.loaded = true
	s.user = user
	s.mu.Unlock()

	if err := s.store.Set(ctx, s.key, sessionFlag); err != nil {
		span.RecordError(err)
		s.logger.WarnContext(ctx, "Failed to persist session flag",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
	}

	s.recordLogin(ctx, "success")
	s.logger.InfoContext(ctx, "User logged in",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	span.SetStatus(codes.Ok, "Logged in")
	out := *user
	return &out, nil
}

// Logout ends the session. It is idempotent.
func (s *AuthService) Logout(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	s.mu.Lock()
	s.loaded = true
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, s.key); err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
		span.RecordError(err)
		s.logger.WarnContext(ctx, "Failed to clear session flag",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "User logged out")
}

// CurrentUser returns the session user, or ErrNotAuthenticated
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.CurrentUser")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.loaded = true
		s.user = s.restore(ctx)
	}

	if s.user == nil {
		return nil, domain.ErrNotAuthenticated
	}
	out := *s.user
	return &out, nil
}

// IsAuthenticated reports whether a session is active
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	_, err := s.CurrentUser(ctx)
	return err == nil
}

// restore reads the persisted flag. Anything but "true" means logged out.
func (s *AuthService) restore(ctx context.Context) *domain.User {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.logger.ErrorContext(ctx, "Failed to read session flag",
				slog.String("key", s.key),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
	if raw != sessionFlag {
		return nil
	}

	user, err := s.verifier.SessionUser(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Stored session has no user",
			slog.String("error", err.Error()),
		)
		return nil
	}

	s.logger.InfoContext(ctx, "Session restored from storage",
		slog.Int64("user_id", user.ID),
	)
	return user
}

func (s *AuthService) recordLogin(ctx context.Context, result string) {
	s.logins.Add(ctx, 1,
		metric.WithAttributes(attribute.String("result", result)),
	)
}

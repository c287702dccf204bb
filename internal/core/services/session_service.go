package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/householderhq/householder/internal/apperrors"
	"github.com/householderhq/householder/internal/core/domain"
	portsrepo "github.com/householderhq/householder/internal/core/ports/repositories"
	portssvc "github.com/householderhq/householder/internal/core/ports/services"
)

// sessionService implements the SessionSvcFacade interface. The session
// identity is a single client-trusted string; there is no authentication, only
// sanitization and a fixed fallback.
type sessionService struct {
	BaseService
	store         portsrepo.KVStore
	defaultUserID string
}

// SessionOption is a functional option for configuring the session service.
type SessionOption func(*sessionService)

// WithDefaultUser overrides the fallback session identity.
func WithDefaultUser(userID string) SessionOption {
	return func(s *sessionService) {
		if safe := domain.SanitizeUserID(userID); safe != "" {
			s.defaultUserID = safe
		}
	}
}

// NewSessionService creates a new session service.
func NewSessionService(store portsrepo.KVStore, options ...SessionOption) portssvc.SessionSvcFacade {
	svc := &sessionService{
		store:         store,
		defaultUserID: domain.DefaultUserID,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure sessionService implements the SessionSvcFacade interface.
var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

func (s *sessionService) Current(ctx context.Context) string {
	if s.store == nil {
		return s.defaultUserID
	}
	var stored string
	ok, err := s.store.Load(ctx, sessionKey(), &stored)
	if err != nil {
		s.LogWarn(ctx, "Failed to read session user, using fallback", slog.String("error", err.Error()))
		return s.defaultUserID
	}
	if !ok {
		return s.defaultUserID
	}
	if safe := domain.SanitizeUserID(stored); safe != "" {
		return safe
	}
	return s.defaultUserID
}

func (s *sessionService) HasCurrent(ctx context.Context) bool {
	if s.store == nil {
		return false
	}
	var stored string
	ok, err := s.store.Load(ctx, sessionKey(), &stored)
	if err != nil || !ok {
		return false
	}
	return domain.SanitizeUserID(stored) != ""
}

func (s *sessionService) SetCurrent(ctx context.Context, userID string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("%w: session has no persistence backend", apperrors.ErrStorageUnavailable)
	}
	safe := domain.SanitizeUserID(userID)
	if safe == "" {
		return "", fmt.Errorf("%w: user id %q is empty after sanitization", apperrors.ErrValidation, userID)
	}
	if err := s.store.Save(ctx, sessionKey(), safe); err != nil {
		return "", fmt.Errorf("failed to save session user: %w", err)
	}
	s.LogInfo(ctx, "Session user switched", slog.String("user_id", safe))
	return safe, nil
}

func (s *sessionService) Clear(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("%w: session has no persistence backend", apperrors.ErrStorageUnavailable)
	}
	if err := s.store.Delete(ctx, sessionKey()); err != nil {
		return fmt.Errorf("failed to clear session user: %w", err)
	}
	return nil
}

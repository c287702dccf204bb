package services

import (
	"context"

	"github.com/householderhq/householder/internal/core/domain"
	"github.com/householderhq/householder/internal/dto"
)

// UserSvcFacade manages the registered-user directory.
type UserSvcFacade interface {
	// RegisterUser upserts a directory entry keyed by the sanitized,
	// email-derived user id.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// ListUsers returns the directory newest-first.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// GetUserByID resolves one directory entry.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// SessionSvcFacade tracks the current session user: a client-trusted,
// sanitized identifier with a fixed fallback.
type SessionSvcFacade interface {
	Current(ctx context.Context) string
	HasCurrent(ctx context.Context) bool
	SetCurrent(ctx context.Context, userID string) (string, error)
	Clear(ctx context.Context) error
}

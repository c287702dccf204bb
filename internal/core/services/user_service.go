package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/householderhq/householder/internal/apperrors"
	"github.com/householderhq/householder/internal/core/domain"
	portsrepo "github.com/householderhq/householder/internal/core/ports/repositories"
	portssvc "github.com/householderhq/householder/internal/core/ports/services"
	"github.com/householderhq/householder/internal/dto"
)

// userService implements the UserSvcFacade interface over the shared
// registered-user directory.
type userService struct {
	BaseService
	store portsrepo.KVStore
}

// NewUserService creates a new user directory service.
func NewUserService(store portsrepo.KVStore) portssvc.UserSvcFacade {
	return &userService{store: store}
}

// Ensure userService implements the UserSvcFacade interface.
var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) requireStore() error {
	if s.store == nil {
		return fmt.Errorf("%w: user directory has no persistence backend", apperrors.ErrStorageUnavailable)
	}
	return nil
}

// readUsers loads the directory, dropping invalid rows and deduplicating by
// user id and by email, keeping the most recently updated entry.
func (s *userService) readUsers(ctx context.Context) ([]domain.User, error) {
	var raw []json.RawMessage
	if _, err := s.store.Load(ctx, usersKey(), &raw); err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(raw))
	for _, rec := range raw {
		user, err := domain.DecodeUser(rec)
		if err != nil {
			continue
		}
		users = append(users, user)
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].UpdatedAt.After(users[j].UpdatedAt)
	})

	byID := make(map[string]struct{}, len(users))
	byEmail := make(map[string]struct{}, len(users))
	out := users[:0]
	for _, user := range users {
		if _, dup := byID[user.UserID]; dup {
			continue
		}
		if user.Email != "" {
			if _, dup := byEmail[user.Email]; dup {
				continue
			}
			byEmail[user.Email] = struct{}{}
		}
		byID[user.UserID] = struct{}{}
		out = append(out, user)
	}
	return out, nil
}

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	entry, err := domain.NormalizeUser(domain.User{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return nil, err
	}

	users, err := s.readUsers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read user directory")
		return nil, fmt.Errorf("failed to read user directory: %w", err)
	}

	now := time.Now()
	entry.UpdatedAt = now
	next := make([]domain.User, 0, len(users)+1)
	for _, user := range users {
		if user.UserID == entry.UserID || user.Email == entry.Email {
			// Refresh the existing entry but keep its registration time.
			entry.CreatedAt = user.CreatedAt
			continue
		}
		next = append(next, user)
	}
	if entry.CreatedAt.IsZero() || entry.CreatedAt.After(now) {
		entry.CreatedAt = now
	}
	next = append(next, entry)

	if err := s.store.Save(ctx, usersKey(), next); err != nil {
		s.LogError(ctx, err, "Failed to persist user directory")
		return nil, fmt.Errorf("failed to save user directory: %w", err)
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", entry.UserID))
	return &entry, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	users, err := s.readUsers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read user directory")
		return nil, fmt.Errorf("failed to read user directory: %w", err)
	}
	return users, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	userID = domain.SanitizeUserID(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is empty after sanitization", apperrors.ErrValidation)
	}

	users, err := s.readUsers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read user directory")
		return nil, fmt.Errorf("failed to read user directory: %w", err)
	}
	for i := range users {
		if users[i].UserID == userID {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
}

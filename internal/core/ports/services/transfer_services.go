package services

import (
	"context"

	"github.com/householderhq/householder/internal/core/domain"
	"github.com/householderhq/householder/internal/dto"
)

// TransferSvcFacade coordinates balance movements between two accounts,
// which may live in one user partition or two.
type TransferSvcFacade interface {
	// Transfer executes the movement for the acting user and returns the
	// completed immutable record, including the outcome of the optional
	// expense cascade.
	Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.Transfer, error)

	// ReconcileTransfers sweeps write-ahead intents left behind by a
	// cross-user transfer that died between its two partition writes,
	// re-applying any missing destination credit. It returns the number of
	// intents repaired.
	ReconcileTransfers(ctx context.Context, userID string) (int, error)
}

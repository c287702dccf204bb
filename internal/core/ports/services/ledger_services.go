package services

import (
	"context"

	"github.com/householderhq/householder/internal/core/domain"
	"github.com/householderhq/householder/internal/dto"
)

// AccountReaderSvc defines read operations over a user's account partition
// and the cross-user registry.
type AccountReaderSvc interface {
	// GetAccounts loads the user's accounts, silently dropping rows that
	// fail validation.
	GetAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// GetRegisteredAccounts lists the registry rows for a user, letting a
	// sender enumerate a receiver's accounts without opening the
	// receiver's partition.
	GetRegisteredAccounts(ctx context.Context, userID string) ([]domain.RegisteredAccount, error)

	// KnownUserIDs lists every user id present in the registry.
	KnownUserIDs(ctx context.Context) ([]string, error)
}

// AccountWriterSvc defines write operations over a user's account partition.
// Every successful write re-synchronizes that user's registry rows.
type AccountWriterSvc interface {
	// SaveAccounts re-validates and persists the full account list,
	// returning what was actually written.
	SaveAccounts(ctx context.Context, userID string, accounts []domain.Account) ([]domain.Account, error)

	// AddAccount opens one new account, enforcing the per-user account
	// limit and name/balance validation.
	AddAccount(ctx context.Context, userID string, req dto.AddAccountRequest) (*domain.Account, error)

	// EnsureSeedAccounts seeds a starter account pair into an empty
	// partition and returns the resulting list.
	EnsureSeedAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}

// TransferLogSvc defines access to a user's append-only transfer log,
// ordered newest-first.
type TransferLogSvc interface {
	GetTransfers(ctx context.Context, userID string) ([]domain.Transfer, error)
	SaveTransfers(ctx context.Context, userID string, transfers []domain.Transfer) ([]domain.Transfer, error)
}

// LedgerSvcFacade combines all ledger-store interfaces for clients that need
// full access.
type LedgerSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	TransferLogSvc
}

package services

import (
	"context"

	"github.com/householderhq/householder/internal/core/domain"
	"github.com/householderhq/householder/internal/dto"
)

// TransactionReaderSvc defines read access to a user's household ledger,
// ordered ascending by (date, creation time).
type TransactionReaderSvc interface {
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// ExpenseRecorderSvc is the narrow capability the transfer coordinator needs
// to cascade an expense entry. It is injected explicitly; the coordinator
// never resolves it ambiently.
type ExpenseRecorderSvc interface {
	AddTransaction(ctx context.Context, userID string, req dto.AddTransactionRequest) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all household-ledger operations.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	ExpenseRecorderSvc

	// RemoveTransaction deletes one entry by id, reporting whether
	// anything was removed.
	RemoveTransaction(ctx context.Context, userID string, id string) (bool, error)
}

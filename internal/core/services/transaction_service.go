package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/householderhq/householder/internal/apperrors"
	"github.com/householderhq/householder/internal/core/domain"
	portsrepo "github.com/householderhq/householder/internal/core/ports/repositories"
	portssvc "github.com/householderhq/householder/internal/core/ports/services"
	"github.com/householderhq/householder/internal/dto"
)

// transactionService implements the TransactionSvcFacade interface: the
// per-user household ledger of income and expense entries.
type transactionService struct {
	BaseService
	store portsrepo.KVStore
}

// NewTransactionService creates a new household-ledger service.
func NewTransactionService(store portsrepo.KVStore) portssvc.TransactionSvcFacade {
	return &transactionService{store: store}
}

// Ensure transactionService implements the TransactionSvcFacade interface.
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) requireStore() error {
	if s.store == nil {
		return fmt.Errorf("%w: transaction ledger has no persistence backend", apperrors.ErrStorageUnavailable)
	}
	return nil
}

// readTransactions loads one ledger, counting rows dropped by validation.
func (s *transactionService) readTransactions(ctx context.Context, userID string) ([]domain.Transaction, int, error) {
	var raw []json.RawMessage
	if _, err := s.store.Load(ctx, transactionsKey(userID), &raw); err != nil {
		return nil, 0, err
	}

	transactions := make([]domain.Transaction, 0, len(raw))
	rejected := 0
	for _, rec := range raw {
		tx, err := domain.DecodeTransaction(rec)
		if err != nil {
			rejected++
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, rejected, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	userID = domain.SanitizeUserIDOrDefault(userID)

	transactions, rejected, err := s.readTransactions(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read transaction ledger", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to read transactions for %s: %w", userID, err)
	}
	if rejected > 0 {
		s.LogWarn(ctx, "Dropped invalid transaction records on read",
			slog.String("user_id", userID),
			slog.Int("rejected", rejected))
	}

	domain.SortTransactions(transactions)
	return transactions, nil
}

func (s *transactionService) AddTransaction(ctx context.Context, userID string, req dto.AddTransactionRequest) (*domain.Transaction, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	userID = domain.SanitizeUserIDOrDefault(userID)

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := domain.NormalizeTransaction(domain.Transaction{
		ID:        s.store.NewID("tx"),
		Date:      req.Date,
		Type:      domain.TransactionType(req.Type),
		Amount:    amount,
		Category:  req.Category,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	transactions, _, err := s.readTransactions(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read transaction ledger", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to read transactions for %s: %w", userID, err)
	}
	transactions = append(transactions, tx)
	domain.SortTransactions(transactions)

	if err := s.store.Save(ctx, transactionsKey(userID), transactions); err != nil {
		s.LogError(ctx, err, "Failed to persist transaction ledger", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save transactions for %s: %w", userID, err)
	}

	s.LogInfo(ctx, "Transaction added",
		slog.String("user_id", userID),
		slog.String("transaction_id", tx.ID),
		slog.String("type", string(tx.Type)),
		slog.Int64("amount", tx.Amount))
	return &tx, nil
}

func (s *transactionService) RemoveTransaction(ctx context.Context, userID string, id string) (bool, error) {
	if err := s.requireStore(); err != nil {
		return false, err
	}
	userID = domain.SanitizeUserIDOrDefault(userID)

	transactions, _, err := s.readTransactions(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read transaction ledger", slog.String("user_id", userID))
		return false, fmt.Errorf("failed to read transactions for %s: %w", userID, err)
	}

	next := transactions[:0]
	removed := false
	for _, tx := range transactions {
		if tx.ID == id {
			removed = true
			continue
		}
		next = append(next, tx)
	}
	if !removed {
		return false, nil
	}

	if err := s.store.Save(ctx, transactionsKey(userID), next); err != nil {
		s.LogError(ctx, err, "Failed to persist transaction ledger", slog.String("user_id", userID))
		return false, fmt.Errorf("failed to save transactions for %s: %w", userID, err)
	}
	return true, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/householderhq/householder/internal/apperrors"
	"github.com/householderhq/householder/internal/core/domain"
	portsrepo "github.com/householderhq/householder/internal/core/ports/repositories"
	portssvc "github.com/householderhq/householder/internal/core/ports/services"
	"github.com/householderhq/householder/internal/dto"
)

// DefaultTransferExpenseCategory labels cascaded expense entries when the
// caller supplies no category.
const DefaultTransferExpenseCategory = "account-transfer"

// transferService implements the TransferSvcFacade interface. It owns the
// two-partition write protocol for cross-user transfers and the optional
// expense cascade into the sender's household ledger.
type transferService struct {
	BaseService
	store    portsrepo.KVStore
	ledger   portssvc.LedgerSvcFacade
	expenses portssvc.ExpenseRecorderSvc
}

// TransferOption is a functional option for configuring the transfer service.
type TransferOption func(*transferService)

// WithExpenseRecorder injects the recorder used by the expense cascade.
// Without one, transfers requesting an expense entry complete with the
// cascade marked failed.
func WithExpenseRecorder(recorder portssvc.ExpenseRecorderSvc) TransferOption {
	return func(s *transferService) {
		s.expenses = recorder
	}
}

// NewTransferService creates a new transfer service. The store carries the
// write-ahead intents; partition reads and writes go through the ledger.
func NewTransferService(store portsrepo.KVStore, ledger portssvc.LedgerSvcFacade, options ...TransferOption) portssvc.TransferSvcFacade {
	svc := &transferService{
		store:  store,
		ledger: ledger,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure transferService implements the TransferSvcFacade interface.
var _ portssvc.TransferSvcFacade = (*transferService)(nil)

func (s *transferService) requireStore() error {
	if s.store == nil || s.ledger == nil {
		return fmt.Errorf("%w: transfer service has no persistence backend", apperrors.ErrStorageUnavailable)
	}
	return nil
}

func findAccount(accounts []domain.Account, id string) int {
	for i := range accounts {
		if accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *transferService) Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.Transfer, error) {
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

	toUserID := domain.SanitizeUserID(req.ToUserID)
	if toUserID == "" {
		toUserID = userID
	}
	if req.FromAccountID == req.ToAccountID && toUserID == userID {
		return nil, fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	}

	source, err := s.ledger.GetAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	fromIdx := findAccount(source, req.FromAccountID)
	if fromIdx < 0 {
		return nil, fmt.Errorf("%w: source account %s", apperrors.ErrNotFound, req.FromAccountID)
	}
	if source[fromIdx].Balance < amount {
		return nil, fmt.Errorf("%w: account %s holds %d", apperrors.ErrInsufficientFunds, req.FromAccountID, source[fromIdx].Balance)
	}

	record := domain.Transfer{
		ID:              s.store.NewID("tr"),
		FromUserID:      userID,
		ToUserID:        toUserID,
		FromAccountID:   req.FromAccountID,
		ToAccountID:     req.ToAccountID,
		Amount:          amount,
		Memo:            req.Memo,
		CreatedAt:       time.Now(),
		RecordAsExpense: req.RecordAsExpense,
	}

	if toUserID == userID {
		err = s.transferWithinPartition(ctx, userID, source, fromIdx, &record)
	} else {
		err = s.transferAcrossPartitions(ctx, userID, toUserID, source, fromIdx, &record)
	}
	if err != nil {
		return nil, err
	}

	if record.RecordAsExpense {
		s.recordExpenseCascade(ctx, userID, req.ExpenseCategory, &record)
	}

	if err := s.appendToLog(ctx, userID, record); err != nil {
		// Balances already moved; a missing log row is not worth failing
		// the transfer over.
		s.LogError(ctx, err, "Failed to append transfer record",
			slog.String("user_id", userID),
			slog.String("transfer_id", record.ID))
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("user_id", userID),
		slog.String("transfer_id", record.ID),
		slog.Int64("amount", record.Amount),
		slog.Bool("external", record.IsExternal))
	return &record, nil
}

// transferWithinPartition moves a balance between two accounts of one user
// with a single partition write.
func (s *transferService) transferWithinPartition(ctx context.Context, userID string, accounts []domain.Account, fromIdx int, record *domain.Transfer) error {
	toIdx := findAccount(accounts, record.ToAccountID)
	if toIdx < 0 {
		return fmt.Errorf("%w: destination account %s", apperrors.ErrNotFound, record.ToAccountID)
	}

	accounts[fromIdx].Balance -= record.Amount
	accounts[toIdx].Balance += record.Amount
	if _, err := s.ledger.SaveAccounts(ctx, userID, accounts); err != nil {
		return err
	}
	return nil
}

// transferAcrossPartitions moves a balance into another user's partition.
// Two writes hit two keys with nothing transactional between them, so a
// write-ahead intent brackets them: recorded before the debit, advanced after
// it, deleted after the credit. Reconciliation replays whatever an intent
// says is missing.
func (s *transferService) transferAcrossPartitions(ctx context.Context, userID, toUserID string, source []domain.Account, fromIdx int, record *domain.Transfer) error {
	registered, err := s.ledger.GetRegisteredAccounts(ctx, toUserID)
	if err != nil {
		return err
	}
	if len(registered) == 0 {
		return fmt.Errorf("%w: user %s has no registered accounts", apperrors.ErrNotFound, toUserID)
	}

	dest, err := s.ledger.GetAccounts(ctx, toUserID)
	if err != nil {
		return err
	}
	toIdx := findAccount(dest, record.ToAccountID)
	if toIdx < 0 {
		return fmt.Errorf("%w: destination account %s of user %s", apperrors.ErrNotFound, record.ToAccountID, toUserID)
	}

	record.IsExternal = true

	intent := domain.TransferIntent{
		ID:            record.ID,
		FromUserID:    userID,
		ToUserID:      toUserID,
		FromAccountID: record.FromAccountID,
		ToAccountID:   record.ToAccountID,
		Amount:        record.Amount,
		State:         domain.IntentPending,
		CreatedAt:     record.CreatedAt,
	}
	if err := s.putIntent(ctx, userID, intent); err != nil {
		return fmt.Errorf("failed to record transfer intent: %w", err)
	}

	source[fromIdx].Balance -= record.Amount
	if _, err := s.ledger.SaveAccounts(ctx, userID, source); err != nil {
		// Debit never committed; the pending intent is dropped on the next
		// reconcile sweep.
		return err
	}

	intent.State = domain.IntentDebited
	if err := s.putIntent(ctx, userID, intent); err != nil {
		s.LogError(ctx, err, "Failed to advance transfer intent",
			slog.String("user_id", userID),
			slog.String("transfer_id", record.ID))
	}

	dest[toIdx].Balance += record.Amount
	if _, err := s.ledger.SaveAccounts(ctx, toUserID, dest); err != nil {
		// Debited intent stays behind; reconciliation re-applies the credit.
		return fmt.Errorf("destination credit failed, queued for reconciliation: %w", err)
	}

	if err := s.dropIntent(ctx, userID, intent.ID); err != nil {
		s.LogError(ctx, err, "Failed to clear transfer intent",
			slog.String("user_id", userID),
			slog.String("transfer_id", record.ID))
	}
	return nil
}

// recordExpenseCascade appends the cascaded expense entry and captures the
// outcome on the record. Cascade failure never unwinds the transfer.
func (s *transferService) recordExpenseCascade(ctx context.Context, userID, category string, record *domain.Transfer) {
	if s.expenses == nil {
		record.ExpenseError = "no expense recorder configured"
		s.LogWarn(ctx, "Expense cascade skipped, no recorder configured",
			slog.String("user_id", userID),
			slog.String("transfer_id", record.ID))
		return
	}
	if category == "" {
		category = DefaultTransferExpenseCategory
	}

	tx, err := s.expenses.AddTransaction(ctx, userID, dto.AddTransactionRequest{
		Date:     record.CreatedAt.Format(domain.DateLayout),
		Type:     string(domain.Expense),
		Amount:   strconv.FormatInt(record.Amount, 10),
		Category: category,
	})
	if err != nil {
		record.ExpenseError = domain.TruncateRunes(err.Error(), domain.MaxExpenseErrorLength)
		s.LogWarn(ctx, "Expense cascade failed",
			slog.String("user_id", userID),
			slog.String("transfer_id", record.ID),
			slog.String("cascade_error", record.ExpenseError))
		return
	}
	record.ExpenseRecorded = true
	record.ExpenseTxID = tx.ID
}

// appendToLog prepends the completed record to the sender's transfer log.
func (s *transferService) appendToLog(ctx context.Context, userID string, record domain.Transfer) error {
	transfers, err := s.ledger.GetTransfers(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.ledger.SaveTransfers(ctx, userID, append([]domain.Transfer{record}, transfers...))
	return err
}

func (s *transferService) ReconcileTransfers(ctx context.Context, userID string) (int, error) {
	if err := s.requireStore(); err != nil {
		return 0, err
	}
	userID = domain.SanitizeUserIDOrDefault(userID)

	intents, err := s.loadIntents(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read transfer intents for %s: %w", userID, err)
	}
	if len(intents) == 0 {
		return 0, nil
	}

	repaired := 0
	for _, intent := range intents {
		switch intent.State {
		case domain.IntentDebited:
			if err := s.replayCredit(ctx, intent); err != nil {
				s.LogError(ctx, err, "Failed to replay destination credit",
					slog.String("user_id", userID),
					slog.String("transfer_id", intent.ID))
				continue
			}
			repaired++
		case domain.IntentPending:
			// Nothing committed before the crash; just clear it.
			s.LogWarn(ctx, "Dropping pending transfer intent",
				slog.String("user_id", userID),
				slog.String("transfer_id", intent.ID))
		}
		if err := s.dropIntent(ctx, userID, intent.ID); err != nil {
			s.LogError(ctx, err, "Failed to clear reconciled intent",
				slog.String("user_id", userID),
				slog.String("transfer_id", intent.ID))
		}
	}

	if repaired > 0 {
		s.LogInfo(ctx, "Reconciled interrupted transfers",
			slog.String("user_id", userID),
			slog.Int("repaired", repaired))
	}
	return repaired, nil
}

// replayCredit re-applies a missing destination credit recorded in a debited
// intent.
func (s *transferService) replayCredit(ctx context.Context, intent domain.TransferIntent) error {
	dest, err := s.ledger.GetAccounts(ctx, intent.ToUserID)
	if err != nil {
		return err
	}
	toIdx := findAccount(dest, intent.ToAccountID)
	if toIdx < 0 {
		return fmt.Errorf("%w: destination account %s of user %s", apperrors.ErrNotFound, intent.ToAccountID, intent.ToUserID)
	}
	dest[toIdx].Balance += intent.Amount
	_, err = s.ledger.SaveAccounts(ctx, intent.ToUserID, dest)
	return err
}

func (s *transferService) loadIntents(ctx context.Context, userID string) ([]domain.TransferIntent, error) {
	var raw []json.RawMessage
	if _, err := s.store.Load(ctx, intentsKey(userID), &raw); err != nil {
		return nil, err
	}
	intents := make([]domain.TransferIntent, 0, len(raw))
	for _, rec := range raw {
		var intent domain.TransferIntent
		if err := json.Unmarshal(rec, &intent); err != nil || intent.ID == "" {
			continue
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

// putIntent inserts or replaces one intent by id.
func (s *transferService) putIntent(ctx context.Context, userID string, intent domain.TransferIntent) error {
	intents, err := s.loadIntents(ctx, userID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range intents {
		if intents[i].ID == intent.ID {
			intents[i] = intent
			replaced = true
			break
		}
	}
	if !replaced {
		intents = append(intents, intent)
	}
	return s.store.Save(ctx, intentsKey(userID), intents)
}

func (s *transferService) dropIntent(ctx context.Context, userID, id string) error {
	intents, err := s.loadIntents(ctx, userID)
	if err != nil {
		return err
	}
	next := intents[:0]
	for _, intent := range intents {
		if intent.ID != id {
			next = append(next, intent)
		}
	}
	return s.store.Save(ctx, intentsKey(userID), next)
}

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

// DefaultMaxAccountsPerUser bounds how many accounts one partition may hold.
const DefaultMaxAccountsPerUser = 5

// seedAccounts is the starter pair written into an empty partition.
var seedAccounts = []struct {
	name    string
	balance int64
}{
	{"Everyday Checking", 1_250_000},
	{"Rainy Day Savings", 300_000},
}

// ledgerService implements the LedgerSvcFacade interface: per-user account
// and transfer-log persistence with per-record validation, plus maintenance
// of the cross-user account registry.
type ledgerService struct {
	BaseService
	store       portsrepo.KVStore
	maxAccounts int
}

// LedgerOption is a functional option for configuring the ledger service.
type LedgerOption func(*ledgerService)

// WithMaxAccounts overrides the per-user account limit.
func WithMaxAccounts(n int) LedgerOption {
	return func(s *ledgerService) {
		if n > 0 {
			s.maxAccounts = n
		}
	}
}

// NewLedgerService creates a new ledger service backed by the given store.
func NewLedgerService(store portsrepo.KVStore, options ...LedgerOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		store:       store,
		maxAccounts: DefaultMaxAccountsPerUser,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface.
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) requireStore() error {
	if s.store == nil {
		return fmt.Errorf("%w: ledger store has no persistence backend", apperrors.ErrStorageUnavailable)
	}
	return nil
}

// readAccounts loads and decodes one partition, counting rows dropped by
// validation instead of failing the read.
func (s *ledgerService) readAccounts(ctx context.Context, userID string) ([]domain.Account, int, error) {
	var raw []json.RawMessage
	if _, err := s.store.Load(ctx, accountsKey(userID), &raw); err != nil {
		return nil, 0, err
	}

	accounts := make([]domain.Account, 0, len(raw))
	rejected := 0
	for _, rec := range raw {
		account, err := domain.DecodeAccount(rec)
		if err != nil {
			rejected++
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, rejected, nil
}

func (s *ledgerService) GetAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	userID = domain.SanitizeUserIDOrDefault(userID)

	accounts, rejected, err := s.readAccounts(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read account partition", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to read accounts for %s: %w", userID, err)
	}
	if rejected > 0 {
		s.LogWarn(ctx, "Dropped invalid account records on read",
			slog.String("user_id", userID),
			slog.Int("rejected", rejected))
	}
	return accounts, nil
}

func (s *ledgerService) SaveAccounts(ctx context.Context, userID string, accounts []domain.Account) ([]domain.Account, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	userID = domain.SanitizeUserIDOrDefault(userID)

	out := make([]domain.Account, 0, len(accounts))
	for _, account := range accounts {
		normalized, err := domain.NormalizeAccount(account)
		if err != nil {
			continue
		}
		out = append(out, normalized)
	}

	if err := s.store.Save(ctx, accountsKey(userID), out); err != nil {
		s.LogError(ctx, err, "Failed to persist account partition", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save accounts for %s: %w", userID, err)
	}
	if err := s.syncRegistry(ctx, userID, out); err != nil {
		// The partition write already committed; a stale registry row only
		// degrades receiver lookups, so log and continue.
		s.LogError(ctx, err, "Failed to refresh account registry", slog.String("user_id", userID))
	}
	return out, nil
}

func (s *ledgerService) AddAccount(ctx context.Context, userID string, req dto.AddAccountRequest) (*domain.Account, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	userID = domain.SanitizeUserIDOrDefault(userID)

	balance, err := domain.ParseInitialBalance(req.Balance)
	if err != nil {
		return nil, err
	}

	accounts, err := s.GetAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(accounts) >= s.maxAccounts {
		return nil, fmt.Errorf("%w: a user may hold at most %d accounts", apperrors.ErrValidation, s.maxAccounts)
	}

	account, err := domain.NormalizeAccount(domain.Account{
		ID:       s.store.NewID("acc"),
		Name:     req.Name,
		Balance:  balance,
		Currency: req.Currency,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.SaveAccounts(ctx, userID, append(accounts, account)); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Account added",
		slog.String("user_id", userID),
		slog.String("account_id", account.ID))
	return &account, nil
}

func (s *ledgerService) EnsureSeedAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	userID = domain.SanitizeUserIDOrDefault(userID)

	accounts, err := s.GetAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(accounts) > 0 {
		return accounts, nil
	}

	seeded := make([]domain.Account, 0, len(seedAccounts))
	for _, seed := range seedAccounts {
		seeded = append(seeded, domain.Account{
			ID:       s.store.NewID("acc"),
			Name:     seed.name,
			Balance:  seed.balance,
			Currency: domain.DefaultCurrency,
		})
	}

	s.LogInfo(ctx, "Seeding starter accounts", slog.String("user_id", userID))
	return s.SaveAccounts(ctx, userID, seeded)
}

// readRegistry loads the shared account registry, dropping invalid rows.
func (s *ledgerService) readRegistry(ctx context.Context) ([]domain.RegisteredAccount, error) {
	var raw []json.RawMessage
	if _, err := s.store.Load(ctx, registryKey(), &raw); err != nil {
		return nil, err
	}

	rows := make([]domain.RegisteredAccount, 0, len(raw))
	for _, rec := range raw {
		row, err := domain.DecodeRegisteredAccount(rec)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// syncRegistry replaces every registry row of one user with rows derived
// from the account list just written, deduplicated by (userID, accountID).
func (s *ledgerService) syncRegistry(ctx context.Context, userID string, accounts []domain.Account) error {
	rows, err := s.readRegistry(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	next := make([]domain.RegisteredAccount, 0, len(rows)+len(accounts))
	seen := make(map[string]struct{}, len(rows)+len(accounts))

	keep := func(row domain.RegisteredAccount) {
		key := row.UserID + "\x00" + row.AccountID
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		next = append(next, row)
	}

	for _, row := range rows {
		if row.UserID == userID {
			continue
		}
		keep(row)
	}
	for _, account := range accounts {
		keep(domain.RegisteredAccount{
			AccountID: account.ID,
			Name:      account.Name,
			Currency:  account.Currency,
			UserID:    userID,
			UpdatedAt: now,
		})
	}

	return s.store.Save(ctx, registryKey(), next)
}

func (s *ledgerService) GetRegisteredAccounts(ctx context.Context, userID string) ([]domain.RegisteredAccount, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	userID = domain.SanitizeUserID(userID)
	if userID == "" {
		return []domain.RegisteredAccount{}, nil
	}

	rows, err := s.readRegistry(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read account registry", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to read account registry: %w", err)
	}

	out := make([]domain.RegisteredAccount, 0, len(rows))
	for _, row := range rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *ledgerService) KnownUserIDs(ctx context.Context) ([]string, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	rows, err := s.readRegistry(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read account registry")
		return nil, fmt.Errorf("failed to read account registry: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.UserID]; dup {
			continue
		}
		seen[row.UserID] = struct{}{}
		out = append(out, row.UserID)
	}
	return out, nil
}

func (s *ledgerService) GetTransfers(ctx context.Context, userID string) ([]domain.Transfer, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	userID = domain.SanitizeUserIDOrDefault(userID)

	var raw []json.RawMessage
	if _, err := s.store.Load(ctx, transfersKey(userID), &raw); err != nil {
		s.LogError(ctx, err, "Failed to read transfer log", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to read transfers for %s: %w", userID, err)
	}

	transfers := make([]domain.Transfer, 0, len(raw))
	rejected := 0
	for _, rec := range raw {
		transfer, err := domain.DecodeTransfer(rec, userID)
		if err != nil {
			rejected++
			continue
		}
		transfers = append(transfers, transfer)
	}
	if rejected > 0 {
		s.LogWarn(ctx, "Dropped invalid transfer records on read",
			slog.String("user_id", userID),
			slog.Int("rejected", rejected))
	}

	domain.SortTransfers(transfers)
	return transfers, nil
}

func (s *ledgerService) SaveTransfers(ctx context.Context, userID string, transfers []domain.Transfer) ([]domain.Transfer, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	userID = domain.SanitizeUserIDOrDefault(userID)

	out := make([]domain.Transfer, 0, len(transfers))
	for _, transfer := range transfers {
		normalized, err := domain.NormalizeTransfer(transfer, userID)
		if err != nil {
			continue
		}
		out = append(out, normalized)
	}
	domain.SortTransfers(out)

	if err := s.store.Save(ctx, transfersKey(userID), out); err != nil {
		s.LogError(ctx, err, "Failed to persist transfer log", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save transfers for %s: %w", userID, err)
	}
	return out, nil
}

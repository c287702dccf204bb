package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/householderhq/householder/internal/apperrors"
	"github.com/householderhq/householder/internal/core/domain"
	portssvc "github.com/householderhq/householder/internal/core/ports/services"
	"github.com/householderhq/householder/internal/core/services"
	"github.com/householderhq/householder/internal/dto"
	"github.com/householderhq/householder/internal/repositories/storage"
)

// --- Mock ExpenseRecorder ---
type MockExpenseRecorder struct {
	mock.Mock
}

func (m *MockExpenseRecorder) AddTransaction(ctx context.Context, userID string, req dto.AddTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// --- Test Suite ---
type TransferServiceTestSuite struct {
	suite.Suite
	store        *storage.MemoryStore
	ledger       portssvc.LedgerSvcFacade
	mockRecorder *MockExpenseRecorder
	service      portssvc.TransferSvcFacade
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.store = storage.NewMemoryStore()
	suite.ledger = services.NewLedgerService(suite.store)
	suite.mockRecorder = new(MockExpenseRecorder)
	suite.service = services.NewTransferService(suite.store, suite.ledger,
		services.WithExpenseRecorder(suite.mockRecorder))
}

func (suite *TransferServiceTestSuite) seedAccounts(userID string, accounts ...domain.Account) {
	_, err := suite.ledger.SaveAccounts(context.Background(), userID, accounts)
	suite.Require().NoError(err)
}

func (suite *TransferServiceTestSuite) balances(userID string) map[string]int64 {
	accounts, err := suite.ledger.GetAccounts(context.Background(), userID)
	suite.Require().NoError(err)
	out := make(map[string]int64, len(accounts))
	for _, account := range accounts {
		out[account.ID] = account.Balance
	}
	return out
}

func (suite *TransferServiceTestSuite) TestTransfer_SameUser_Success() {
	ctx := context.Background()
	suite.seedAccounts("demo",
		domain.Account{ID: "a1", Name: "Checking", Balance: 1000},
		domain.Account{ID: "a2", Name: "Savings", Balance: 0},
	)

	record, err := suite.service.Transfer(ctx, "demo", dto.TransferRequest{
		FromAccountID: "a1",
		ToAccountID:   "a2",
		Amount:        "300",
		Memo:          "monthly savings",
	})
	suite.Require().NoError(err)
	suite.False(record.IsExternal)
	suite.Equal(int64(300), record.Amount)

	suite.Equal(map[string]int64{"a1": 700, "a2": 300}, suite.balances("demo"))

	transfers, err := suite.ledger.GetTransfers(ctx, "demo")
	suite.Require().NoError(err)
	suite.Require().Len(transfers, 1)
	suite.Equal(record.ID, transfers[0].ID)
}

func (suite *TransferServiceTestSuite) TestTransfer_SameAccountRejected() {
	suite.seedAccounts("demo", domain.Account{ID: "a1", Name: "Checking", Balance: 1000})

	_, err := suite.service.Transfer(context.Background(), "demo", dto.TransferRequest{
		FromAccountID: "a1",
		ToAccountID:   "a1",
		Amount:        "100",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(map[string]int64{"a1": 1000}, suite.balances("demo"))
}

func (suite *TransferServiceTestSuite) TestTransfer_InsufficientFunds() {
	suite.seedAccounts("demo",
		domain.Account{ID: "a1", Name: "Checking", Balance: 200},
		domain.Account{ID: "a2", Name: "Savings", Balance: 0},
	)

	_, err := suite.service.Transfer(context.Background(), "demo", dto.TransferRequest{
		FromAccountID: "a1",
		ToAccountID:   "a2",
		Amount:        "300",
	})
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Equal(map[string]int64{"a1": 200, "a2": 0}, suite.balances("demo"))
}

func (suite *TransferServiceTestSuite) TestTransfer_SourceNotFound() {
	suite.seedAccounts("demo", domain.Account{ID: "a1", Name: "Checking", Balance: 1000})

	_, err := suite.service.Transfer(context.Background(), "demo", dto.TransferRequest{
		FromAccountID: "missing",
		ToAccountID:   "a1",
		Amount:        "100",
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransferServiceTestSuite) TestTransfer_CrossUser_Success() {
	ctx := context.Background()
	suite.seedAccounts("alice", domain.Account{ID: "a1", Name: "Checking", Balance: 1000})
	suite.seedAccounts("bob", domain.Account{ID: "b1", Name: "Wallet", Balance: 0})

	record, err := suite.service.Transfer(ctx, "alice", dto.TransferRequest{
		FromAccountID: "a1",
		ToUserID:      "bob",
		ToAccountID:   "b1",
		Amount:        "400",
	})
	suite.Require().NoError(err)
	suite.True(record.IsExternal)
	suite.Equal("bob", record.ToUserID)

	suite.Equal(map[string]int64{"a1": 600}, suite.balances("alice"))
	suite.Equal(map[string]int64{"b1": 400}, suite.balances("bob"))

	// The completed transfer leaves no intent behind.
	repaired, err := suite.service.ReconcileTransfers(ctx, "alice")
	suite.Require().NoError(err)
	suite.Zero(repaired)
	suite.Equal(map[string]int64{"b1": 400}, suite.balances("bob"))
}

func (suite *TransferServiceTestSuite) TestTransfer_CrossUser_UnknownUser() {
	suite.seedAccounts("alice", domain.Account{ID: "a1", Name: "Checking", Balance: 1000})

	_, err := suite.service.Transfer(context.Background(), "alice", dto.TransferRequest{
		FromAccountID: "a1",
		ToUserID:      "nobody",
		ToAccountID:   "x1",
		Amount:        "100",
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(map[string]int64{"a1": 1000}, suite.balances("alice"))
}

func (suite *TransferServiceTestSuite) TestTransfer_CrossUser_DestAccountMissing() {
	suite.seedAccounts("alice", domain.Account{ID: "a1", Name: "Checking", Balance: 1000})
	suite.seedAccounts("bob", domain.Account{ID: "b1", Name: "Wallet", Balance: 50})

	_, err := suite.service.Transfer(context.Background(), "alice", dto.TransferRequest{
		FromAccountID: "a1",
		ToUserID:      "bob",
		ToAccountID:   "b9",
		Amount:        "100",
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	// Neither partition moved.
	suite.Equal(map[string]int64{"a1": 1000}, suite.balances("alice"))
	suite.Equal(map[string]int64{"b1": 50}, suite.balances("bob"))
}

func (suite *TransferServiceTestSuite) TestTransfer_ExpenseCascade_Success() {
	ctx := context.Background()
	suite.seedAccounts("demo",
		domain.Account{ID: "a1", Name: "Checking", Balance: 1000},
		domain.Account{ID: "a2", Name: "Savings", Balance: 0},
	)

	recorded := &domain.Transaction{ID: "tx_42", Type: domain.Expense, Amount: 300}
	suite.mockRecorder.On("AddTransaction", ctx, "demo", mock.MatchedBy(func(req dto.AddTransactionRequest) bool {
		return req.Type == string(domain.Expense) &&
			req.Amount == "300" &&
			req.Category == services.DefaultTransferExpenseCategory
	})).Return(recorded, nil).Once()

	record, err := suite.service.Transfer(ctx, "demo", dto.TransferRequest{
		FromAccountID:   "a1",
		ToAccountID:     "a2",
		Amount:          "300",
		RecordAsExpense: true,
	})
	suite.Require().NoError(err)
	suite.True(record.ExpenseRecorded)
	suite.Equal("tx_42", record.ExpenseTxID)
	suite.Empty(record.ExpenseError)

	suite.mockRecorder.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransfer_ExpenseCascade_FailureIsIsolated() {
	ctx := context.Background()
	suite.seedAccounts("demo",
		domain.Account{ID: "a1", Name: "Checking", Balance: 1000},
		domain.Account{ID: "a2", Name: "Savings", Balance: 0},
	)

	suite.mockRecorder.On("AddTransaction", ctx, "demo", mock.Anything).
		Return(nil, errors.New("ledger write refused")).Once()

	record, err := suite.service.Transfer(ctx, "demo", dto.TransferRequest{
		FromAccountID:   "a1",
		ToAccountID:     "a2",
		Amount:          "300",
		RecordAsExpense: true,
	})
	suite.Require().NoError(err)
	suite.False(record.ExpenseRecorded)
	suite.Contains(record.ExpenseError, "ledger write refused")

	// The transfer itself committed.
	suite.Equal(map[string]int64{"a1": 700, "a2": 300}, suite.balances("demo"))

	transfers, err := suite.ledger.GetTransfers(ctx, "demo")
	suite.Require().NoError(err)
	suite.Require().Len(transfers, 1)
	suite.False(transfers[0].ExpenseRecorded)
	suite.Contains(transfers[0].ExpenseError, "ledger write refused")
}

func (suite *TransferServiceTestSuite) TestTransfer_ExpenseCascade_NoRecorderConfigured() {
	service := services.NewTransferService(suite.store, suite.ledger)
	suite.seedAccounts("demo",
		domain.Account{ID: "a1", Name: "Checking", Balance: 1000},
		domain.Account{ID: "a2", Name: "Savings", Balance: 0},
	)

	record, err := service.Transfer(context.Background(), "demo", dto.TransferRequest{
		FromAccountID:   "a1",
		ToAccountID:     "a2",
		Amount:          "100",
		RecordAsExpense: true,
	})
	suite.Require().NoError(err)
	suite.False(record.ExpenseRecorded)
	suite.NotEmpty(record.ExpenseError)
}

func (suite *TransferServiceTestSuite) TestReconcile_ReplaysMissingCredit() {
	ctx := context.Background()
	suite.seedAccounts("alice", domain.Account{ID: "a1", Name: "Checking", Balance: 600})
	suite.seedAccounts("bob", domain.Account{ID: "b1", Name: "Wallet", Balance: 0})

	// A debited intent means the source write committed but the credit
	// never landed.
	intent := domain.TransferIntent{
		ID:            "tr_crashed",
		FromUserID:    "alice",
		ToUserID:      "bob",
		FromAccountID: "a1",
		ToAccountID:   "b1",
		Amount:        400,
		State:         domain.IntentDebited,
		CreatedAt:     time.Now(),
	}
	suite.Require().NoError(suite.store.Save(ctx, "householder.alice.transferIntents.v1", []domain.TransferIntent{intent}))

	repaired, err := suite.service.ReconcileTransfers(ctx, "alice")
	suite.Require().NoError(err)
	suite.Equal(1, repaired)
	suite.Equal(map[string]int64{"b1": 400}, suite.balances("bob"))

	// The sweep is idempotent once the intent is cleared.
	repaired, err = suite.service.ReconcileTransfers(ctx, "alice")
	suite.Require().NoError(err)
	suite.Zero(repaired)
	suite.Equal(map[string]int64{"b1": 400}, suite.balances("bob"))
}

func (suite *TransferServiceTestSuite) TestReconcile_DropsPendingIntent() {
	ctx := context.Background()
	suite.seedAccounts("alice", domain.Account{ID: "a1", Name: "Checking", Balance: 1000})
	suite.seedAccounts("bob", domain.Account{ID: "b1", Name: "Wallet", Balance: 0})

	intent := domain.TransferIntent{
		ID:            "tr_never_started",
		FromUserID:    "alice",
		ToUserID:      "bob",
		FromAccountID: "a1",
		ToAccountID:   "b1",
		Amount:        400,
		State:         domain.IntentPending,
		CreatedAt:     time.Now(),
	}
	suite.Require().NoError(suite.store.Save(ctx, "householder.alice.transferIntents.v1", []domain.TransferIntent{intent}))

	repaired, err := suite.service.ReconcileTransfers(ctx, "alice")
	suite.Require().NoError(err)
	suite.Zero(repaired)

	// Nothing moved in either partition.
	suite.Equal(map[string]int64{"a1": 1000}, suite.balances("alice"))
	suite.Equal(map[string]int64{"b1": 0}, suite.balances("bob"))
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}

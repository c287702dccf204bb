package dto

// TransferRequest defines the data needed to move a balance between two
// accounts. ToUserID defaults to the acting user when blank; Amount is the
// raw form input, coerced by the ledger's amount parser. When RecordAsExpense
// is set the transfer also appends an expense entry to the acting user's
// household ledger, categorized as ExpenseCategory (or a fixed fallback).
type TransferRequest struct {
	FromAccountID   string `json:"fromAccountId" validate:"required"`
	ToUserID        string `json:"toUserId"`
	ToAccountID     string `json:"toAccountId" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
	Memo            string `json:"memo"`
	RecordAsExpense bool   `json:"recordAsExpense"`
	ExpenseCategory string `json:"expenseCategory"`
}

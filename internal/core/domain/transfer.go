package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/householderhq/householder/internal/apperrors"
)

const (
	// MaxMemoLength bounds the free-text memo attached to a transfer.
	MaxMemoLength = 30

	// MaxExpenseErrorLength bounds the captured expense-cascade failure text.
	MaxExpenseErrorLength = 100
)

// Transfer is an immutable record of one balance movement, appended to the
// sender's transfer log newest-first. IsExternal is derived and always equals
// FromUserID != ToUserID. The expense fields describe the outcome of the
// optional ledger cascade; a cascade failure never invalidates the transfer.
type Transfer struct {
	ID              string    `json:"id"`
	FromUserID      string    `json:"fromUserId"`
	ToUserID        string    `json:"toUserId"`
	FromAccountID   string    `json:"fromAccountId"`
	ToAccountID     string    `json:"toAccountId"`
	Amount          int64     `json:"amount"`
	Memo            string    `json:"memo"`
	CreatedAt       time.Time `json:"createdAt"`
	IsExternal      bool      `json:"isExternal"`
	RecordAsExpense bool      `json:"recordAsExpense"`
	ExpenseRecorded bool      `json:"expenseRecorded"`
	ExpenseTxID     string    `json:"expenseTxId,omitempty"`
	ExpenseError    string    `json:"expenseError,omitempty"`
}

// NormalizeTransfer validates and canonicalizes a transfer record. The owner
// id fills user fields that older records left blank; IsExternal is always
// re-derived rather than trusted.
func NormalizeTransfer(transfer Transfer, ownerUserID string) (Transfer, error) {
	out := transfer
	out.ID = strings.TrimSpace(out.ID)
	out.FromAccountID = strings.TrimSpace(out.FromAccountID)
	out.ToAccountID = strings.TrimSpace(out.ToAccountID)
	out.Memo = TruncateRunes(strings.TrimSpace(out.Memo), MaxMemoLength)
	out.ExpenseError = TruncateRunes(strings.TrimSpace(out.ExpenseError), MaxExpenseErrorLength)

	out.FromUserID = SanitizeUserID(out.FromUserID)
	if out.FromUserID == "" {
		out.FromUserID = ownerUserID
	}
	out.ToUserID = SanitizeUserID(out.ToUserID)
	if out.ToUserID == "" {
		out.ToUserID = ownerUserID
	}
	out.IsExternal = out.FromUserID != out.ToUserID

	if out.ID == "" || out.FromAccountID == "" || out.ToAccountID == "" {
		return Transfer{}, fmt.Errorf("%w: transfer requires id and both account ids", apperrors.ErrValidation)
	}
	if out.Amount <= 0 {
		return Transfer{}, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if out.CreatedAt.IsZero() {
		return Transfer{}, fmt.Errorf("%w: transfer requires a creation time", apperrors.ErrValidation)
	}
	return out, nil
}

// DecodeTransfer turns one persisted raw record into a normalized Transfer.
func DecodeTransfer(raw json.RawMessage, ownerUserID string) (Transfer, error) {
	var rec Transfer
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Transfer{}, fmt.Errorf("%w: unreadable transfer record", apperrors.ErrValidation)
	}
	return NormalizeTransfer(rec, ownerUserID)
}

// SortTransfers orders a transfer log newest-first by creation time.
func SortTransfers(transfers []Transfer) {
	sort.SliceStable(transfers, func(i, j int) bool {
		return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
	})
}

// TruncateRunes clips s to at most n runes.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

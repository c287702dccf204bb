package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/householderhq/householder/internal/apperrors"
)

// TransactionType classifies a ledger entry as money in or money out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	// MaxCategoryLength bounds the category label of a ledger entry.
	MaxCategoryLength = 30

	// DefaultCategory is assigned when no category is supplied.
	DefaultCategory = "etc"

	// DateLayout is the calendar-day format used by ledger entries.
	DateLayout = "2006-01-02"
)

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Transaction is one income/expense entry in a user's household ledger.
// Entries are immutable once created; the only permitted mutation is removal
// by id.
type Transaction struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Type      TransactionType `json:"type"`
	Amount    int64           `json:"amount"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NormalizeTransaction validates and canonicalizes a ledger entry.
func NormalizeTransaction(tx Transaction) (Transaction, error) {
	out := tx
	out.ID = strings.TrimSpace(out.ID)
	out.Date = strings.TrimSpace(out.Date)
	out.Category = TruncateRunes(strings.TrimSpace(out.Category), MaxCategoryLength)
	if out.Category == "" {
		out.Category = DefaultCategory
	}

	if out.ID == "" {
		return Transaction{}, fmt.Errorf("%w: transaction requires an id", apperrors.ErrValidation)
	}
	if !dayPattern.MatchString(out.Date) {
		return Transaction{}, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", apperrors.ErrValidation)
	}
	if out.Type != Income && out.Type != Expense {
		return Transaction{}, fmt.Errorf("%w: type must be income or expense", apperrors.ErrValidation)
	}
	if out.Amount <= 0 {
		return Transaction{}, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now()
	}
	return out, nil
}

// DecodeTransaction turns one persisted raw record into a normalized entry.
func DecodeTransaction(raw json.RawMessage) (Transaction, error) {
	var rec Transaction
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Transaction{}, fmt.Errorf("%w: unreadable transaction record", apperrors.ErrValidation)
	}
	return NormalizeTransaction(rec)
}

// SortTransactions orders ledger entries ascending by calendar day, breaking
// ties with creation time.
func SortTransactions(transactions []Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if transactions[i].Date == transactions[j].Date {
			return transactions[i].CreatedAt.Before(transactions[j].CreatedAt)
		}
		return transactions[i].Date < transactions[j].Date
	})
}

package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/householderhq/householder/internal/apperrors"
)

const (
	// MaxAccountNameLength bounds the display name of an account.
	MaxAccountNameLength = 30

	// DefaultCurrency is assumed when a persisted account carries no currency.
	DefaultCurrency = "KRW"
)

// Account represents a single balance-holding account owned by one user
// partition. Identity is ID, unique within the partition; Balance is the only
// field mutated after creation.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// NormalizeAccount validates and canonicalizes an account. Records missing an
// id or name are rejected; a malformed or negative balance is coerced to 0 so
// a partially corrupt record never poisons the whole list. Normalization is
// idempotent: feeding the output back in yields an identical account.
func NormalizeAccount(account Account) (Account, error) {
	id := strings.TrimSpace(account.ID)
	name := TruncateRunes(strings.TrimSpace(account.Name), MaxAccountNameLength)
	currency := strings.TrimSpace(account.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	if id == "" || name == "" {
		return Account{}, fmt.Errorf("%w: account requires id and name", apperrors.ErrValidation)
	}

	balance := account.Balance
	if balance < 0 {
		balance = 0
	}

	return Account{ID: id, Name: name, Balance: balance, Currency: currency}, nil
}

// DecodeAccount turns one persisted raw record into a normalized Account.
// The balance field is decoded loosely (number, numeric string, or garbage)
// because the stored lists may predate strict write-side validation.
func DecodeAccount(raw json.RawMessage) (Account, error) {
	var rec struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Balance  any    `json:"balance"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Account{}, fmt.Errorf("%w: unreadable account record", apperrors.ErrValidation)
	}

	return NormalizeAccount(Account{
		ID:       rec.ID,
		Name:     rec.Name,
		Balance:  coerceNonNegativeInt(rec.Balance),
		Currency: rec.Currency,
	})
}

// coerceNonNegativeInt converts an arbitrary decoded JSON value to a
// non-negative whole number, truncating fractions and mapping anything
// unparseable or negative to 0.
func coerceNonNegativeInt(value any) int64 {
	var d decimal.Decimal
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		d = decimal.NewFromFloat(v)
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return 0
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		d = parsed
	default:
		return 0
	}

	if d.IsNegative() {
		return 0
	}
	return d.IntPart()
}

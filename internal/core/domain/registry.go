package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/householderhq/householder/internal/apperrors"
)

// RegisteredAccount is one row of the cross-user account registry: a
// denormalized index of which accounts exist under which user, refreshed
// whenever that user's account list is written. It lets a sender enumerate a
// receiver's accounts without loading the receiver's partition.
type RegisteredAccount struct {
	AccountID string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	UserID    string    `json:"userId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeRegisteredAccount validates and canonicalizes one registry row.
func NormalizeRegisteredAccount(row RegisteredAccount) (RegisteredAccount, error) {
	out := row
	out.AccountID = strings.TrimSpace(out.AccountID)
	out.Name = strings.TrimSpace(out.Name)
	out.Currency = strings.TrimSpace(out.Currency)
	if out.Currency == "" {
		out.Currency = DefaultCurrency
	}
	out.UserID = SanitizeUserID(out.UserID)

	if out.AccountID == "" || out.Name == "" || out.UserID == "" {
		return RegisteredAccount{}, fmt.Errorf("%w: registry row requires account id, name and user id", apperrors.ErrValidation)
	}
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = time.Now()
	}
	return out, nil
}

// DecodeRegisteredAccount turns one persisted raw record into a normalized row.
func DecodeRegisteredAccount(raw json.RawMessage) (RegisteredAccount, error) {
	var rec RegisteredAccount
	if err := json.Unmarshal(raw, &rec); err != nil {
		return RegisteredAccount{}, fmt.Errorf("%w: unreadable registry row", apperrors.ErrValidation)
	}
	return NormalizeRegisteredAccount(rec)
}

package domain

import "time"

// IntentState tracks how far a cross-user transfer has progressed through its
// two partition writes.
type IntentState string

const (
	// IntentPending means the intent was recorded but the source partition
	// has not been written yet.
	IntentPending IntentState = "pending"

	// IntentDebited means the source partition write committed but the
	// destination credit may not have.
	IntentDebited IntentState = "debited"
)

// TransferIntent is the write-ahead record guarding a cross-user transfer.
// It is created before the first partition write and cleared after the
// second; an intent still present at startup marks a transfer that died
// between writes and needs reconciliation.
type TransferIntent struct {
	ID            string      `json:"id"`
	FromUserID    string      `json:"fromUserId"`
	ToUserID      string      `json:"toUserId"`
	FromAccountID string      `json:"fromAccountId"`
	ToAccountID   string      `json:"toAccountId"`
	Amount        int64       `json:"amount"`
	State         IntentState `json:"state"`
	CreatedAt     time.Time   `json:"createdAt"`
}

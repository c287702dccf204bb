package domain

// DayTotals aggregates one calendar day of a user's ledger.
type DayTotals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Net     int64 `json:"net"`
}

// CategoryTotal pairs an expense category with its accumulated amount.
type CategoryTotal struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// MonthSummary aggregates one calendar month of a user's ledger, including
// the spend delta against the previous month and the heaviest expense
// category (nil when the month has no expenses).
type MonthSummary struct {
	Year         int            `json:"year"`
	Month        int            `json:"month"`
	Income       int64          `json:"income"`
	Expense      int64          `json:"expense"`
	ExpenseDelta int64          `json:"expenseDelta"`
	TopExpense   *CategoryTotal `json:"topExpense,omitempty"`
}

package services

import (
	"context"
	"time"

	"github.com/householderhq/householder/internal/core/domain"
)

// CalendarSvcFacade aggregates a user's household ledger into the monthly
// and daily views the calendar screens render.
type CalendarSvcFacade interface {
	// MonthSummary totals one month's income and expenses, the spend
	// delta against the previous month, and the top expense category.
	MonthSummary(ctx context.Context, userID string, year int, month time.Month) (*domain.MonthSummary, error)

	// DailySummary maps day-of-month to that day's totals for one month.
	DailySummary(ctx context.Context, userID string, year int, month time.Month) (map[int]domain.DayTotals, error)

	// DayTransactions lists the ledger entries of one calendar day.
	DayTransactions(ctx context.Context, userID string, date string) ([]domain.Transaction, error)
}

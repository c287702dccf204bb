package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/householderhq/householder/internal/apperrors"
	"github.com/householderhq/householder/internal/core/domain"
	portssvc "github.com/householderhq/householder/internal/core/ports/services"
)

// calendarService implements the CalendarSvcFacade interface. It is a pure
// read-side aggregation over the transaction ledger.
type calendarService struct {
	BaseService
	transactions portssvc.TransactionReaderSvc
}

// NewCalendarService creates a new calendar aggregation service.
func NewCalendarService(transactions portssvc.TransactionReaderSvc) portssvc.CalendarSvcFacade {
	return &calendarService{transactions: transactions}
}

// Ensure calendarService implements the CalendarSvcFacade interface.
var _ portssvc.CalendarSvcFacade = (*calendarService)(nil)

func monthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

func (s *calendarService) MonthSummary(ctx context.Context, userID string, year int, month time.Month) (*domain.MonthSummary, error) {
	if s.transactions == nil {
		return nil, fmt.Errorf("%w: calendar has no transaction reader", apperrors.ErrStorageUnavailable)
	}

	all, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.MonthSummary{Year: year, Month: int(month)}
	prefix := monthPrefix(year, month)
	prevPrefix := monthPrefix(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0).Year(),
		time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0).Month())

	var prevExpense int64
	byCategory := make(map[string]int64)
	for _, tx := range all {
		if strings.HasPrefix(tx.Date, prevPrefix) && tx.Type == domain.Expense {
			prevExpense += tx.Amount
		}
		if !strings.HasPrefix(tx.Date, prefix) {
			continue
		}
		switch tx.Type {
		case domain.Income:
			summary.Income += tx.Amount
		case domain.Expense:
			summary.Expense += tx.Amount
			byCategory[tx.Category] += tx.Amount
		}
	}
	summary.ExpenseDelta = summary.Expense - prevExpense

	for category, amount := range byCategory {
		if summary.TopExpense == nil || amount > summary.TopExpense.Amount {
			summary.TopExpense = &domain.CategoryTotal{Category: category, Amount: amount}
		}
	}
	return summary, nil
}

func (s *calendarService) DailySummary(ctx context.Context, userID string, year int, month time.Month) (map[int]domain.DayTotals, error) {
	if s.transactions == nil {
		return nil, fmt.Errorf("%w: calendar has no transaction reader", apperrors.ErrStorageUnavailable)
	}

	all, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefix := monthPrefix(year, month)
	out := make(map[int]domain.DayTotals)
	for _, tx := range all {
		if !strings.HasPrefix(tx.Date, prefix) {
			continue
		}
		day, err := time.Parse(domain.DateLayout, tx.Date)
		if err != nil {
			continue
		}
		totals := out[day.Day()]
		switch tx.Type {
		case domain.Income:
			totals.Income += tx.Amount
		case domain.Expense:
			totals.Expense += tx.Amount
		}
		totals.Net = totals.Income - totals.Expense
		out[day.Day()] = totals
	}
	return out, nil
}

func (s *calendarService) DayTransactions(ctx context.Context, userID string, date string) ([]domain.Transaction, error) {
	if s.transactions == nil {
		return nil, fmt.Errorf("%w: calendar has no transaction reader", apperrors.ErrStorageUnavailable)
	}
	if _, err := time.Parse(domain.DateLayout, strings.TrimSpace(date)); err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", apperrors.ErrValidation)
	}
	date = strings.TrimSpace(date)

	all, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Transaction, 0)
	for _, tx := range all {
		if tx.Date == date {
			out = append(out, tx)
		}
	}
	return out, nil
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/householderhq/householder/internal/apperrors"
	"github.com/householderhq/householder/internal/core/domain"
	portssvc "github.com/householderhq/householder/internal/core/ports/services"
	"github.com/householderhq/householder/internal/core/services"
	"github.com/householderhq/householder/internal/dto"
	"github.com/householderhq/householder/internal/repositories/storage"
)

type CalendarServiceTestSuite struct {
	suite.Suite
	transactions portssvc.TransactionSvcFacade
	service      portssvc.CalendarSvcFacade
}

func (suite *CalendarServiceTestSuite) SetupTest() {
	store := storage.NewMemoryStore()
	suite.transactions = services.NewTransactionService(store)
	suite.service = services.NewCalendarService(suite.transactions)
}

func (suite *CalendarServiceTestSuite) add(date, txType, amount, category string) {
	_, err := suite.transactions.AddTransaction(context.Background(), "demo", dto.AddTransactionRequest{
		Date: date, Type: txType, Amount: amount, Category: category,
	})
	suite.Require().NoError(err)
}

func (suite *CalendarServiceTestSuite) TestMonthSummary() {
	// July: 1000 spent. August: 3000 income, 1800 spent across two
	// categories.
	suite.add("2026-07-20", "expense", "1000", "food")
	suite.add("2026-08-01", "income", "3000", "salary")
	suite.add("2026-08-10", "expense", "1200", "rent")
	suite.add("2026-08-15", "expense", "600", "food")

	summary, err := suite.service.MonthSummary(context.Background(), "demo", 2026, time.August)
	suite.Require().NoError(err)
	suite.Equal(int64(3000), summary.Income)
	suite.Equal(int64(1800), summary.Expense)
	suite.Equal(int64(800), summary.ExpenseDelta)
	suite.Require().NotNil(summary.TopExpense)
	suite.Equal("rent", summary.TopExpense.Category)
	suite.Equal(int64(1200), summary.TopExpense.Amount)
}

func (suite *CalendarServiceTestSuite) TestMonthSummary_JanuaryLooksAtPriorDecember() {
	suite.add("2025-12-05", "expense", "500", "")
	suite.add("2026-01-10", "expense", "300", "")

	summary, err := suite.service.MonthSummary(context.Background(), "demo", 2026, time.January)
	suite.Require().NoError(err)
	suite.Equal(int64(300), summary.Expense)
	suite.Equal(int64(-200), summary.ExpenseDelta)
}

func (suite *CalendarServiceTestSuite) TestMonthSummary_EmptyMonth() {
	summary, err := suite.service.MonthSummary(context.Background(), "demo", 2026, time.August)
	suite.Require().NoError(err)
	suite.Zero(summary.Income)
	suite.Zero(summary.Expense)
	suite.Nil(summary.TopExpense)
}

func (suite *CalendarServiceTestSuite) TestDailySummary() {
	suite.add("2026-08-01", "income", "3000", "")
	suite.add("2026-08-01", "expense", "500", "")
	suite.add("2026-08-15", "expense", "200", "")
	suite.add("2026-07-31", "expense", "999", "")

	daily, err := suite.service.DailySummary(context.Background(), "demo", 2026, time.August)
	suite.Require().NoError(err)
	suite.Len(daily, 2)
	suite.Equal(domain.DayTotals{Income: 3000, Expense: 500, Net: 2500}, daily[1])
	suite.Equal(domain.DayTotals{Expense: 200, Net: -200}, daily[15])
}

func (suite *CalendarServiceTestSuite) TestDayTransactions() {
	suite.add("2026-08-01", "income", "3000", "salary")
	suite.add("2026-08-01", "expense", "500", "food")
	suite.add("2026-08-02", "expense", "200", "food")

	transactions, err := suite.service.DayTransactions(context.Background(), "demo", "2026-08-01")
	suite.Require().NoError(err)
	suite.Len(transactions, 2)

	_, err = suite.service.DayTransactions(context.Background(), "demo", "08/01/2026")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestCalendarServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CalendarServiceTestSuite))
}

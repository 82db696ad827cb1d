package render

import (
	"bytes"
	"testing"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/adiwn/duit/duit-cli/internal/page"
	"github.com/adiwn/duit/duit-cli/internal/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverview(t *testing.T) {
	st := page.OverviewState{
		Period:  util.Period{Year: 2025, Month: 5},
		Profile: &domain.Profile{ID: 1, Name: "Adi"},
		Accounts: []domain.Account{
			{ID: 1, Name: "Cash", Balance: decimal.NewFromInt(150000)},
			{ID: 2, Name: "Bank", Balance: decimal.NewFromInt(2500000)},
		},
		Summary: &domain.MonthSummary{
			Groups: []domain.DayGroup{
				{
					Date: "2025-05-01",
					Transactions: []domain.Transaction{
						{
							ID:     1,
							Notes:  "weekly groceries",
							Amount: decimal.NewFromInt(50000),
							Type:   domain.TransactionTypeExpense,
							Account: domain.AccountRef{
								ID: 1, Name: "Cash",
							},
							SubCategory: &domain.SubCategoryRef{
								ID: 7, Name: "Groceries",
								Category: domain.CategoryRef{ID: 1, Name: "Food & Drink"},
							},
						},
					},
					Expense: decimal.NewFromInt(50000),
				},
			},
			Totals: domain.MonthlyTotals{
				Income:  decimal.Zero,
				Expense: decimal.NewFromInt(50000),
			},
			BadDates: []domain.DataError{
				{TransactionID: 9, Value: "last tuesday", Reason: "unparseable transaction date"},
			},
		},
		Breakdown: []domain.CategorySlice{
			{Name: "Food & Drink", Amount: decimal.NewFromInt(50000)},
		},
		Loaded: true,
	}

	var buf bytes.Buffer
	require.NoError(t, Overview(&buf, st))

	out := buf.String()
	assert.Contains(t, out, "Hi, Adi")
	assert.Contains(t, out, "Overview 2025-05")
	assert.Contains(t, out, "2650000")
	assert.Contains(t, out, "2025-05-01")
	assert.Contains(t, out, "weekly groceries")
	assert.Contains(t, out, "Food & Drink")
	assert.Contains(t, out, "Month totals: income 0, expense 50000")
	assert.Contains(t, out, `transaction 9 skipped, bad date "last tuesday"`)
}

func TestOverviewEmptyMonth(t *testing.T) {
	st := page.OverviewState{
		Period:  util.Period{Year: 2025, Month: 6},
		Summary: &domain.MonthSummary{},
	}

	var buf bytes.Buffer
	require.NoError(t, Overview(&buf, st))
	assert.Contains(t, buf.String(), "No transactions this month.")
}

func TestBudgets(t *testing.T) {
	rows := []domain.BudgetRow{
		{
			CategoryID:   1,
			CategoryName: "Food & Drink",
			Budgeted:     decimal.NewFromInt(100000),
			Spent:        decimal.NewFromInt(50000),
			Remaining:    decimal.NewFromInt(50000),
			Progress:     50,
		},
		{
			CategoryID:   2,
			CategoryName: "Transport",
			Suggested:    decimal.NewFromInt(75000),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Budgets(&buf, util.Period{Year: 2025, Month: 5}, rows))

	out := buf.String()
	assert.Contains(t, out, "Budgets 2025-05")
	assert.Contains(t, out, "Food & Drink")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "(suggested: 75000)")
}

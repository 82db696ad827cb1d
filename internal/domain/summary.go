package domain

import "github.com/shopspring/decimal"

// DayGroup holds the transactions of one calendar date with their daily
// income/expense subtotals. Date is a normalized YYYY-MM-DD key.
type DayGroup struct {
	Date         string          `json:"date"`
	Transactions []Transaction   `json:"transactions"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
}

// MonthlyTotals is the month-wide income/expense pair.
type MonthlyTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// DataError records a transaction that could not be aggregated, typically a
// malformed date. It is reported alongside the summary so the caller decides
// whether to drop or surface it.
type DataError struct {
	TransactionID int32  `json:"transactionId"`
	Value         string `json:"value"`
	Reason        string `json:"reason"`
}

// MonthSummary is the aggregated view of one month's transactions: day
// buckets in first-seen order plus the monthly totals.
type MonthSummary struct {
	Groups   []DayGroup    `json:"groups"`
	Totals   MonthlyTotals `json:"totals"`
	BadDates []DataError   `json:"badDates,omitempty"`
}

// CategorySlice is one wedge of the expense-by-category breakdown.
type CategorySlice struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// BudgetRow is the per-category reconciliation of budgeted versus spent for
// one period. Recomputed on every refresh, never persisted.
type BudgetRow struct {
	CategoryID   int32           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Budgeted     decimal.Decimal `json:"budgeted"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Progress     float64         `json:"progress"`
	Suggested    decimal.Decimal `json:"suggested"`
}

// SuggestionOffered reports whether the use-suggestion affordance applies:
// only when no budget is set yet and the server suggested a positive amount.
func (r BudgetRow) SuggestionOffered() bool {
	return r.Budgeted.IsZero() && r.Suggested.IsPositive()
}

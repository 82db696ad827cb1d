package service

import (
	"time"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/adiwn/duit/duit-cli/internal/util"
	"github.com/shopspring/decimal"
)

// AggregationService derives the per-day and per-month view of a transaction
// list. It is pure over its inputs and recomputed on every refresh.
type AggregationService struct{}

// NewAggregationService creates a new AggregationService
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// dateLayouts are the wire formats the API has been observed to emit for
// transaction dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// GroupByDay buckets transactions by calendar date and accumulates daily and
// monthly income/expense totals in a single scan. Buckets appear in the order
// their date is first seen in the input; that ordering is part of the
// contract, not an accident. Transfers are listed under their date but
// contribute to no totals. A transaction whose date cannot be parsed is
// reported in BadDates and skipped; it never aborts the rest of the scan.
func (s *AggregationService) GroupByDay(transactions []domain.Transaction) *domain.MonthSummary {
	summary := &domain.MonthSummary{
		Totals: domain.MonthlyTotals{Income: decimal.Zero, Expense: decimal.Zero},
	}

	indexByDate := make(map[string]int)
	for _, tx := range transactions {
		date, err := parseDay(tx.TransactionDate)
		if err != nil {
			summary.BadDates = append(summary.BadDates, domain.DataError{
				TransactionID: tx.ID,
				Value:         tx.TransactionDate,
				Reason:        "unparseable transaction date",
			})
			continue
		}

		idx, ok := indexByDate[date]
		if !ok {
			idx = len(summary.Groups)
			indexByDate[date] = idx
			summary.Groups = append(summary.Groups, domain.DayGroup{
				Date:    date,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			})
		}

		group := &summary.Groups[idx]
		group.Transactions = append(group.Transactions, tx)

		switch tx.Type {
		case domain.TransactionTypeIncome:
			group.Income = group.Income.Add(tx.Amount)
			summary.Totals.Income = summary.Totals.Income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			group.Expense = group.Expense.Add(tx.Amount)
			summary.Totals.Expense = summary.Totals.Expense.Add(tx.Amount)
		}
	}

	return summary
}

// ExpenseByCategory sums expense transactions per parent category name, in
// the order each category is first seen. Transactions without a sub-category
// (transfers, dirty data) are excluded.
func (s *AggregationService) ExpenseByCategory(transactions []domain.Transaction) []domain.CategorySlice {
	var slices []domain.CategorySlice
	indexByName := make(map[string]int)

	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeExpense || tx.SubCategory == nil {
			continue
		}
		name := tx.SubCategory.Category.Name

		idx, ok := indexByName[name]
		if !ok {
			idx = len(slices)
			indexByName[name] = idx
			slices = append(slices, domain.CategorySlice{Name: name, Amount: decimal.Zero})
		}
		slices[idx].Amount = slices[idx].Amount.Add(tx.Amount)
	}

	return slices
}

// parseDay normalizes a wire date to its UTC calendar date so day boundaries
// do not shift with the viewer's timezone.
func parseDay(raw string) (string, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return util.DayKey(t), nil
		}
		lastErr = err
	}
	return "", lastErr
}

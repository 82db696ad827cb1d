package service

import (
	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/shopspring/decimal"
)

// BudgetService reconciles expense categories against a period's budgets,
// transactions, and server suggestions into one row per category.
type BudgetService struct{}

// NewBudgetService creates a new BudgetService
func NewBudgetService() *BudgetService {
	return &BudgetService{}
}

// BuildRows produces a BudgetRow per input category, preserving category
// order. budgeted falls back to 0 when no budget exists for the period;
// spent sums expense transactions whose sub-category belongs to the
// category; progress is 0 (never NaN) for a zero budget.
func (s *BudgetService) BuildRows(
	categories []domain.Category,
	budgets []domain.Budget,
	transactions []domain.Transaction,
	suggestions []domain.BudgetSuggestion,
) []domain.BudgetRow {
	budgetByCategory := make(map[int32]domain.Budget, len(budgets))
	for _, b := range budgets {
		budgetByCategory[b.CategoryID] = b
	}
	suggestionByCategory := make(map[int32]domain.BudgetSuggestion, len(suggestions))
	for _, sg := range suggestions {
		suggestionByCategory[sg.CategoryID] = sg
	}

	spentByCategory := make(map[int32]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeExpense || tx.SubCategory == nil {
			continue
		}
		id := tx.SubCategory.Category.ID
		spentByCategory[id] = spentByCategory[id].Add(tx.Amount)
	}

	rows := make([]domain.BudgetRow, 0, len(categories))
	for _, category := range categories {
		budgeted := decimal.Zero
		if b, ok := budgetByCategory[category.ID]; ok {
			budgeted = b.Amount
		}

		spent := decimal.Zero
		if amount, ok := spentByCategory[category.ID]; ok {
			spent = amount
		}

		progress := 0.0
		if budgeted.IsPositive() {
			progress, _ = spent.Div(budgeted).Mul(decimal.NewFromInt(100)).Float64()
		}

		suggested := decimal.Zero
		if sg, ok := suggestionByCategory[category.ID]; ok {
			suggested = sg.SuggestedAmount
		}

		rows = append(rows, domain.BudgetRow{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Budgeted:     budgeted,
			Spent:        spent,
			Remaining:    budgeted.Sub(spent),
			Progress:     progress,
			Suggested:    suggested,
		})
	}

	return rows
}

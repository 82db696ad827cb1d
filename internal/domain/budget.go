package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Budget is a per-category monthly spending cap. The server guarantees at
// most one budget per (period, category).
type Budget struct {
	ID         int32           `json:"ID"`
	CategoryID int32           `json:"CategoryID"`
	Amount     decimal.Decimal `json:"Amount"`
}

// BudgetSuggestion is a server-computed recommended amount for a category
// and period. Read-only to the client.
type BudgetSuggestion struct {
	CategoryID      int32           `json:"category_id"`
	SuggestedAmount decimal.Decimal `json:"suggested_amount"`
}

// BudgetUpsert is one row of the batch save payload.
type BudgetUpsert struct {
	CategoryID int32           `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
}

type BudgetGateway interface {
	ListBudgets(ctx context.Context, year, month int) ([]Budget, error)
	SaveBudgets(ctx context.Context, upserts []BudgetUpsert) error
	ListBudgetSuggestions(ctx context.Context, year, month int) ([]BudgetSuggestion, error)
}

package form

import (
	"sort"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/adiwn/duit/duit-cli/internal/util"
	"github.com/shopspring/decimal"
)

// BudgetEditor holds the editable budget amounts for one period, keyed by
// category ID and kept as raw text the way an input field would. Nothing
// here touches the API; Payload feeds an explicit save action.
type BudgetEditor struct {
	inputs map[int32]string
}

// NewBudgetEditor seeds the editor with the period's saved budget amounts.
func NewBudgetEditor(budgets []domain.Budget) *BudgetEditor {
	e := &BudgetEditor{inputs: make(map[int32]string)}
	for _, b := range budgets {
		e.inputs[b.CategoryID] = b.Amount.String()
	}
	return e
}

// Set records the raw text typed for a category.
func (e *BudgetEditor) Set(categoryID int32, raw string) {
	e.inputs[categoryID] = raw
}

// Get returns the raw text for a category, empty when untouched.
func (e *BudgetEditor) Get(categoryID int32) string {
	return e.inputs[categoryID]
}

// UseSuggestion copies a row's suggested amount into the editable field. It
// is a pure copy; the budget is only written on the explicit save action.
func (e *BudgetEditor) UseSuggestion(row domain.BudgetRow) {
	e.Set(row.CategoryID, row.Suggested.String())
}

// ParseAmount applies the deliberate permissive contract of the save action:
// empty or unparseable text coerces to zero instead of failing the batch.
func ParseAmount(raw string) decimal.Decimal {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// Payload produces one upsert per category present in the editor, in stable
// category-ID order. Garbage input becomes a zero budget; no entry is ever
// dropped or turned into an error.
func (e *BudgetEditor) Payload(period util.Period) []domain.BudgetUpsert {
	ids := make([]int32, 0, len(e.inputs))
	for id := range e.inputs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	upserts := make([]domain.BudgetUpsert, 0, len(ids))
	for _, id := range ids {
		upserts = append(upserts, domain.BudgetUpsert{
			CategoryID: id,
			Amount:     ParseAmount(e.inputs[id]),
			Year:       period.Year,
			Month:      period.Month,
		})
	}
	return upserts
}

package form

import (
	"testing"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/adiwn/duit/duit-cli/internal/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBudgetEditor_SeedsFromSavedBudgets(t *testing.T) {
	editor := NewBudgetEditor([]domain.Budget{
		{ID: 1, CategoryID: 1, Amount: decimal.NewFromInt(50000)},
		{ID: 2, CategoryID: 3, Amount: decimal.NewFromInt(125000)},
	})

	assert.Equal(t, "50000", editor.Get(1))
	assert.Equal(t, "125000", editor.Get(3))
	assert.Equal(t, "", editor.Get(2))
}

func TestPayload_PermissiveParse(t *testing.T) {
	editor := NewBudgetEditor(nil)
	editor.Set(1, "50000")
	editor.Set(2, "")
	editor.Set(3, "abc")

	upserts := editor.Payload(util.Period{Year: 2024, Month: 5})

	// Garbage and empty input become zero budgets; every category present
	// in the editor is submitted.
	require.Len(t, upserts, 3)
	byCategory := make(map[int32]domain.BudgetUpsert)
	for _, u := range upserts {
		byCategory[u.CategoryID] = u
	}
	assert.Equal(t, "50000", byCategory[1].Amount.String())
	assert.Equal(t, "0", byCategory[2].Amount.String())
	assert.Equal(t, "0", byCategory[3].Amount.String())

	for _, u := range upserts {
		assert.Equal(t, 2024, u.Year)
		assert.Equal(t, 5, u.Month)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"50000", "50000"},
		{"1234.56", "1234.56"},
		{"", "0"},
		{"abc", "0"},
		{"12,5", "0"},
		{"-7000", "-7000"},
	}

	for _, tt := range tests {
		got := ParseAmount(tt.raw)
		if got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestUseSuggestion_CopiesAmountWithoutSaving(t *testing.T) {
	editor := NewBudgetEditor(nil)
	row := domain.BudgetRow{
		CategoryID: 7,
		Suggested:  decimal.NewFromInt(75000),
	}

	editor.UseSuggestion(row)
	assert.Equal(t, "75000", editor.Get(7))

	// The editor only mutates its map; persisting is the save action's job.
	upserts := editor.Payload(util.Period{Year: 2024, Month: 5})
	require.Len(t, upserts, 1)
	assert.Equal(t, int32(7), upserts[0].CategoryID)
	assert.Equal(t, "75000", upserts[0].Amount.String())
}

package page

import (
	"context"
	"errors"
	"testing"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/adiwn/duit/duit-cli/internal/service"
	"github.com/adiwn/duit/duit-cli/internal/testutil"
	"github.com/adiwn/duit/duit-cli/internal/util"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type budgetingFixture struct {
	categories   *testutil.MockCategoryGateway
	transactions *testutil.MockTransactionGateway
	budgets      *testutil.MockBudgetGateway
	session      *testutil.MockSession
	page         *BudgetingPage
}

func newBudgetingFixture() *budgetingFixture {
	f := &budgetingFixture{
		categories:   testutil.NewMockCategoryGateway(),
		transactions: testutil.NewMockTransactionGateway(),
		budgets:      testutil.NewMockBudgetGateway(),
		session:      &testutil.MockSession{},
	}

	f.categories.AddCategory(domain.Category{ID: 1, Name: "Food & Drink", Type: domain.CategoryTypeExpense})
	f.categories.AddCategory(domain.Category{ID: 2, Name: "Transport", Type: domain.CategoryTypeExpense})
	f.transactions.AddTransaction(domain.Transaction{
		ID:              1,
		Amount:          decimal.NewFromInt(50000),
		Type:            domain.TransactionTypeExpense,
		TransactionDate: "2025-05-01T09:00:00Z",
		Account:         domain.AccountRef{ID: 1, Name: "Cash"},
		SubCategory: &domain.SubCategoryRef{
			ID: 7, Name: "Groceries",
			Category: domain.CategoryRef{ID: 1, Name: "Food & Drink"},
		},
	})
	f.budgets.AddBudget(domain.Budget{ID: 10, CategoryID: 1, Amount: decimal.NewFromInt(100000)})
	f.budgets.AddSuggestion(domain.BudgetSuggestion{CategoryID: 2, SuggestedAmount: decimal.NewFromInt(75000)})

	f.page = NewBudgetingPage(
		f.categories, f.transactions, f.budgets,
		f.session, service.NewBudgetService(), zerolog.Nop(),
	)
	return f
}

func TestBudgetingPage_Load(t *testing.T) {
	f := newBudgetingFixture()

	err := f.page.Load(context.Background(), mayPeriod())
	require.NoError(t, err)

	// Only expense categories feed the budget rows.
	require.NotNil(t, f.categories.LastFilter)
	assert.Equal(t, domain.CategoryTypeExpense, *f.categories.LastFilter)

	rows := f.page.Rows()
	require.Len(t, rows, 2)

	food := rows[0]
	assert.Equal(t, int32(1), food.CategoryID)
	assert.True(t, food.Budgeted.Equal(decimal.NewFromInt(100000)))
	assert.True(t, food.Spent.Equal(decimal.NewFromInt(50000)))
	assert.True(t, food.Remaining.Equal(decimal.NewFromInt(50000)))
	assert.InDelta(t, 50.0, food.Progress, 0.001)
	assert.False(t, food.SuggestionOffered())

	transport := rows[1]
	assert.True(t, transport.Budgeted.IsZero())
	assert.Equal(t, 0.0, transport.Progress)
	assert.True(t, transport.SuggestionOffered())

	state := f.page.Snapshot()
	assert.True(t, state.Loaded)
	require.NotNil(t, state.Editor)
	assert.Equal(t, "100000", state.Editor.Get(1))
	assert.Equal(t, "", state.Editor.Get(2))
}

func TestBudgetingPage_LoadFailureKeepsPriorState(t *testing.T) {
	f := newBudgetingFixture()
	require.NoError(t, f.page.Load(context.Background(), mayPeriod()))

	f.budgets.SuggestionsErr = errors.New("gateway timeout")
	err := f.page.NextMonth(context.Background())
	require.Error(t, err)

	state := f.page.Snapshot()
	assert.Equal(t, mayPeriod(), state.Period)
	assert.True(t, state.Loaded)
	assert.Len(t, state.Rows, 2)
	assert.Equal(t, 0, f.session.Cleared)
}

func TestBudgetingPage_LoadDeadSession(t *testing.T) {
	f := newBudgetingFixture()
	f.budgets.ListErr = domain.ErrUnauthorized

	err := f.page.Load(context.Background(), mayPeriod())
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 1, f.session.Cleared)
	assert.False(t, f.page.Snapshot().Loaded)
}

func TestBudgetingPage_StaleBatchDiscarded(t *testing.T) {
	f := newBudgetingFixture()

	entered := make(chan struct{})
	release := make(chan struct{})
	f.transactions.ListFn = func(ctx context.Context, year, month int) ([]domain.Transaction, error) {
		if month == 5 {
			close(entered)
			<-release
		}
		return nil, nil
	}

	firstErr := make(chan error, 1)
	go func() {
		firstErr <- f.page.Load(context.Background(), mayPeriod())
	}()

	<-entered
	require.NoError(t, f.page.Load(context.Background(), util.Period{Year: 2025, Month: 6}))
	close(release)

	assert.ErrorIs(t, <-firstErr, domain.ErrStaleResponse)
	assert.Equal(t, util.Period{Year: 2025, Month: 6}, f.page.Snapshot().Period)
}

func TestBudgetingPage_SetAmountBeforeLoad(t *testing.T) {
	f := newBudgetingFixture()

	err := f.page.SetAmount(1, "200000")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBudgetingPage_UseSuggestion(t *testing.T) {
	cases := []struct {
		name       string
		categoryID int32
		wantErr    error
		wantValue  string
	}{
		{name: "offered suggestion is copied", categoryID: 2, wantValue: "75000"},
		{name: "budgeted category rejects it", categoryID: 1, wantErr: domain.ErrInvalidInput},
		{name: "unknown category", categoryID: 9, wantErr: domain.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newBudgetingFixture()
			require.NoError(t, f.page.Load(context.Background(), mayPeriod()))

			err := f.page.UseSuggestion(tc.categoryID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantValue, f.page.Snapshot().Editor.Get(tc.categoryID))
		})
	}
}

func TestBudgetingPage_SaveBudgets(t *testing.T) {
	f := newBudgetingFixture()
	require.NoError(t, f.page.Load(context.Background(), mayPeriod()))

	require.NoError(t, f.page.SetAmount(1, "200000"))
	require.NoError(t, f.page.SetAmount(2, "not a number"))

	require.NoError(t, f.page.SaveBudgets(context.Background()))

	// Garbage input saves as zero instead of failing the batch.
	require.Len(t, f.budgets.SavedUpserts, 2)
	assert.Equal(t, int32(1), f.budgets.SavedUpserts[0].CategoryID)
	assert.True(t, f.budgets.SavedUpserts[0].Amount.Equal(decimal.NewFromInt(200000)))
	assert.Equal(t, 2025, f.budgets.SavedUpserts[0].Year)
	assert.Equal(t, 5, f.budgets.SavedUpserts[0].Month)
	assert.Equal(t, int32(2), f.budgets.SavedUpserts[1].CategoryID)
	assert.True(t, f.budgets.SavedUpserts[1].Amount.IsZero())

	// The save re-fetches the whole batch.
	assert.Equal(t, 2, f.budgets.ListCalls)
}

func TestBudgetingPage_SaveBudgetsBeforeLoad(t *testing.T) {
	f := newBudgetingFixture()

	err := f.page.SaveBudgets(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.budgets.SaveCalls)
}

func TestBudgetingPage_SaveBudgetsFailure(t *testing.T) {
	f := newBudgetingFixture()
	require.NoError(t, f.page.Load(context.Background(), mayPeriod()))

	f.budgets.SaveErr = errors.New("backend down")
	err := f.page.SaveBudgets(context.Background())
	require.Error(t, err)
	// No refresh after a failed save.
	assert.Equal(t, 1, f.budgets.ListCalls)
}

func TestBudgetingPage_SaveLatch(t *testing.T) {
	f := newBudgetingFixture()
	require.NoError(t, f.page.Load(context.Background(), mayPeriod()))

	entered := make(chan struct{})
	release := make(chan struct{})
	f.budgets.SaveFn = func(ctx context.Context, upserts []domain.BudgetUpsert) error {
		close(entered)
		<-release
		return nil
	}

	firstErr := make(chan error, 1)
	go func() {
		firstErr <- f.page.SaveBudgets(context.Background())
	}()

	<-entered
	err := f.page.SaveBudgets(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-firstErr)
}

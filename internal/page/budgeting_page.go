package page

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/adiwn/duit/duit-cli/internal/form"
	"github.com/adiwn/duit/duit-cli/internal/service"
	"github.com/adiwn/duit/duit-cli/internal/util"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// BudgetingState is the budgeting screen's data for one period plus its
// derived rows and the editable amounts.
type BudgetingState struct {
	Period       util.Period
	Categories   []domain.Category
	Transactions []domain.Transaction
	Budgets      []domain.Budget
	Suggestions  []domain.BudgetSuggestion
	Rows         []domain.BudgetRow
	Editor       *form.BudgetEditor
	Loaded       bool
}

// BudgetingPage handles the per-category monthly budget screen.
type BudgetingPage struct {
	categories   domain.CategoryGateway
	transactions domain.TransactionGateway
	budgets      domain.BudgetGateway
	session      Session
	budgetSvc    *service.BudgetService
	logger       zerolog.Logger

	epoch    atomic.Uint64
	saveBusy atomic.Bool

	mu    sync.RWMutex
	state BudgetingState
}

// NewBudgetingPage creates a new BudgetingPage
func NewBudgetingPage(
	categories domain.CategoryGateway,
	transactions domain.TransactionGateway,
	budgets domain.BudgetGateway,
	sess Session,
	budgetSvc *service.BudgetService,
	logger zerolog.Logger,
) *BudgetingPage {
	return &BudgetingPage{
		categories:   categories,
		transactions: transactions,
		budgets:      budgets,
		session:      sess,
		budgetSvc:    budgetSvc,
		logger:       logger,
	}
}

// Load fetches the budgeting batch for a period: expense categories, the
// period's transactions, saved budgets, and suggestions, concurrently and
// all-or-nothing. The same epoch fence as the overview applies, and the
// editor is re-seeded from the saved budgets on every successful load.
func (p *BudgetingPage) Load(ctx context.Context, period util.Period) error {
	if !period.Valid() {
		return fmt.Errorf("%w: month out of range", domain.ErrInvalidInput)
	}
	id := p.epoch.Add(1)

	var (
		categories   []domain.Category
		transactions []domain.Transaction
		budgets      []domain.Budget
		suggestions  []domain.BudgetSuggestion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		expense := domain.CategoryTypeExpense
		var err error
		categories, err = p.categories.ListCategories(gctx, &expense)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = p.transactions.ListTransactions(gctx, period.Year, period.Month)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = p.budgets.ListBudgets(gctx, period.Year, period.Month)
		return err
	})
	g.Go(func() error {
		var err error
		suggestions, err = p.budgets.ListBudgetSuggestions(gctx, period.Year, period.Month)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			p.logger.Warn().Err(err).Msg("Budgeting load failed with dead session")
			if clearErr := p.session.Clear(); clearErr != nil {
				p.logger.Error().Err(clearErr).Msg("Failed to clear session")
			}
			return fmt.Errorf("%w: %v", domain.ErrSessionExpired, err)
		}
		p.logger.Error().Err(err).Str("period", period.String()).Msg("Budgeting load failed")
		return err
	}

	rows := p.budgetSvc.BuildRows(categories, budgets, transactions, suggestions)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch.Load() != id {
		p.logger.Debug().Str("period", period.String()).Msg("Discarding stale budgeting batch")
		return domain.ErrStaleResponse
	}
	p.state = BudgetingState{
		Period:       period,
		Categories:   categories,
		Transactions: transactions,
		Budgets:      budgets,
		Suggestions:  suggestions,
		Rows:         rows,
		Editor:       form.NewBudgetEditor(budgets),
		Loaded:       true,
	}
	return nil
}

// Refresh re-runs the batch for the current period.
func (p *BudgetingPage) Refresh(ctx context.Context) error {
	p.mu.RLock()
	period := p.state.Period
	p.mu.RUnlock()
	return p.Load(ctx, period)
}

// NextMonth navigates forward one month.
func (p *BudgetingPage) NextMonth(ctx context.Context) error {
	p.mu.RLock()
	period := p.state.Period
	p.mu.RUnlock()
	return p.Load(ctx, period.Next())
}

// PrevMonth navigates back one month.
func (p *BudgetingPage) PrevMonth(ctx context.Context) error {
	p.mu.RLock()
	period := p.state.Period
	p.mu.RUnlock()
	return p.Load(ctx, period.Prev())
}

// Rows returns the derived budget rows.
func (p *BudgetingPage) Rows() []domain.BudgetRow {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.BudgetRow(nil), p.state.Rows...)
}

// Snapshot returns a copy of the current state. The editor is shared: it is
// the live input state of the screen.
func (p *BudgetingPage) Snapshot() BudgetingState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state := p.state
	state.Categories = append([]domain.Category(nil), p.state.Categories...)
	state.Transactions = append([]domain.Transaction(nil), p.state.Transactions...)
	state.Budgets = append([]domain.Budget(nil), p.state.Budgets...)
	state.Suggestions = append([]domain.BudgetSuggestion(nil), p.state.Suggestions...)
	state.Rows = append([]domain.BudgetRow(nil), p.state.Rows...)
	return state
}

// SetAmount records raw text for a category's budget input.
func (p *BudgetingPage) SetAmount(categoryID int32, raw string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Editor == nil {
		return fmt.Errorf("%w: page not loaded", domain.ErrInvalidInput)
	}
	p.state.Editor.Set(categoryID, raw)
	return nil
}

// UseSuggestion copies the suggested amount into a category's editable
// field. Only rows where the affordance is offered (no budget yet, positive
// suggestion) accept it.
func (p *BudgetingPage) UseSuggestion(categoryID int32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Editor == nil {
		return fmt.Errorf("%w: page not loaded", domain.ErrInvalidInput)
	}
	for _, row := range p.state.Rows {
		if row.CategoryID != categoryID {
			continue
		}
		if !row.SuggestionOffered() {
			return fmt.Errorf("%w: no suggestion offered for category %d", domain.ErrInvalidInput, categoryID)
		}
		p.state.Editor.UseSuggestion(row)
		return nil
	}
	return fmt.Errorf("%w: category %d", domain.ErrNotFound, categoryID)
}

// SaveBudgets submits one upsert per edited category and then re-fetches
// the batch. Garbage amounts have already been coerced to zero by the
// editor; the save never fails on input. Concurrent saves are rejected.
func (p *BudgetingPage) SaveBudgets(ctx context.Context) error {
	if !p.saveBusy.CompareAndSwap(false, true) {
		return domain.ErrSubmitInFlight
	}
	defer p.saveBusy.Store(false)

	p.mu.RLock()
	if p.state.Editor == nil {
		p.mu.RUnlock()
		return fmt.Errorf("%w: page not loaded", domain.ErrInvalidInput)
	}
	upserts := p.state.Editor.Payload(p.state.Period)
	p.mu.RUnlock()

	if err := p.budgets.SaveBudgets(ctx, upserts); err != nil {
		p.logger.Error().Err(err).Msg("Failed to save budgets")
		return err
	}

	return p.Refresh(ctx)
}

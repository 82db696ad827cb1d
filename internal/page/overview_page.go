// Package page holds the controllers behind each screen. A page owns its
// copies of the remote data for one period, refreshes them as a single
// all-or-nothing batch, and recomputes derived rows after every refresh.
// The remote API stays the single writer of truth: mutations round-trip and
// then re-fetch instead of patching local state.
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
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Confirmer gates destructive actions behind an explicit confirmation step.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Session is the slice of the session store a page needs: forgetting the
// token when the bootstrap load proves it dead.
type Session interface {
	Clear() error
}

// OverviewState is the overview screen's data for one period, plus the rows
// derived from it. Snapshot returns a copy; pages never hand out their
// internal slices for mutation.
type OverviewState struct {
	Period       util.Period
	Profile      *domain.Profile
	Accounts     []domain.Account
	Categories   []domain.Category
	Transactions []domain.Transaction
	Summary      *domain.MonthSummary
	Breakdown    []domain.CategorySlice
	Loaded       bool
}

// OverviewPage handles the account/transaction overview screen.
type OverviewPage struct {
	profiles     domain.ProfileGateway
	accounts     domain.AccountGateway
	transactions domain.TransactionGateway
	categories   domain.CategoryGateway
	session      Session
	aggregation  *service.AggregationService
	logger       zerolog.Logger

	// epoch fences stale batches: only the most recently issued load may
	// apply its results.
	epoch      atomic.Uint64
	submitBusy atomic.Bool

	mu    sync.RWMutex
	state OverviewState
}

// NewOverviewPage creates a new OverviewPage
func NewOverviewPage(
	profiles domain.ProfileGateway,
	accounts domain.AccountGateway,
	transactions domain.TransactionGateway,
	categories domain.CategoryGateway,
	sess Session,
	aggregation *service.AggregationService,
	logger zerolog.Logger,
) *OverviewPage {
	return &OverviewPage{
		profiles:     profiles,
		accounts:     accounts,
		transactions: transactions,
		categories:   categories,
		session:      sess,
		aggregation:  aggregation,
		logger:       logger,
	}
}

// Load fetches the full overview batch for a period and applies it
// atomically. The four reads run concurrently and all must succeed before
// anything becomes visible; a failed batch leaves the previous state
// untouched. A batch that finishes after a newer Load was issued is
// discarded with ErrStaleResponse. A dead session (profile failure) clears
// the token and reports ErrSessionExpired so the caller can route to login.
func (p *OverviewPage) Load(ctx context.Context, period util.Period) error {
	if !period.Valid() {
		return fmt.Errorf("%w: month out of range", domain.ErrInvalidInput)
	}
	id := p.epoch.Add(1)

	var (
		profile      *domain.Profile
		accounts     []domain.Account
		categories   []domain.Category
		transactions []domain.Transaction
	)

	var profileErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, profileErr = p.profiles.GetProfile(gctx)
		return profileErr
	})
	g.Go(func() error {
		var err error
		accounts, err = p.accounts.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = p.categories.ListCategories(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = p.transactions.ListTransactions(gctx, period.Year, period.Month)
		return err
	})

	if err := g.Wait(); err != nil {
		// The bootstrap path is fatal to the session: a profile that cannot
		// be fetched means the token is dead. Any 401 elsewhere means the
		// same thing. A profile call cancelled because a sibling failed
		// first does not count.
		profileFailed := profileErr != nil && !errors.Is(profileErr, context.Canceled)
		if profileFailed || errors.Is(err, domain.ErrUnauthorized) {
			p.logger.Warn().Err(err).Msg("Bootstrap load failed, clearing session")
			if clearErr := p.session.Clear(); clearErr != nil {
				p.logger.Error().Err(clearErr).Msg("Failed to clear session")
			}
			return fmt.Errorf("%w: %v", domain.ErrSessionExpired, err)
		}
		p.logger.Error().Err(err).Str("period", period.String()).Msg("Overview load failed")
		return err
	}

	summary := p.aggregation.GroupByDay(transactions)
	breakdown := p.aggregation.ExpenseByCategory(transactions)
	for _, bad := range summary.BadDates {
		p.logger.Warn().
			Int32("transactionId", bad.TransactionID).
			Str("value", bad.Value).
			Msg("Skipped transaction with malformed date")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch.Load() != id {
		p.logger.Debug().Str("period", period.String()).Msg("Discarding stale overview batch")
		return domain.ErrStaleResponse
	}
	p.state = OverviewState{
		Period:       period,
		Profile:      profile,
		Accounts:     accounts,
		Categories:   categories,
		Transactions: transactions,
		Summary:      summary,
		Breakdown:    breakdown,
		Loaded:       true,
	}
	return nil
}

// Refresh re-runs the full batch for the current period. Every write path
// funnels through it so no call site can forget the refetch contract.
func (p *OverviewPage) Refresh(ctx context.Context) error {
	p.mu.RLock()
	period := p.state.Period
	p.mu.RUnlock()
	return p.Load(ctx, period)
}

// NextMonth navigates forward one month.
func (p *OverviewPage) NextMonth(ctx context.Context) error {
	p.mu.RLock()
	period := p.state.Period
	p.mu.RUnlock()
	return p.Load(ctx, period.Next())
}

// PrevMonth navigates back one month.
func (p *OverviewPage) PrevMonth(ctx context.Context) error {
	p.mu.RLock()
	period := p.state.Period
	p.mu.RUnlock()
	return p.Load(ctx, period.Prev())
}

// Snapshot returns a copy of the current state.
func (p *OverviewPage) Snapshot() OverviewState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state := p.state
	state.Accounts = append([]domain.Account(nil), p.state.Accounts...)
	state.Categories = append([]domain.Category(nil), p.state.Categories...)
	state.Transactions = append([]domain.Transaction(nil), p.state.Transactions...)
	return state
}

// TotalBalance sums the balances of the loaded accounts.
func (p *OverviewPage) TotalBalance() decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return domain.TotalBalance(p.state.Accounts)
}

// AddTransaction validates and submits an add-mode form, then re-fetches
// the account list because balances changed server-side. The created
// transaction joins the current list and derived rows are recomputed.
// A second submit while one is outstanding is rejected.
func (p *OverviewPage) AddTransaction(ctx context.Context, f *form.TransactionForm) (*domain.Transaction, error) {
	if !p.submitBusy.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmitInFlight
	}
	defer p.submitBusy.Store(false)

	input, err := f.Payload()
	if err != nil {
		return nil, err
	}

	created, err := p.transactions.CreateTransaction(ctx, input)
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to create transaction")
		return nil, err
	}

	accounts, err := p.accounts.ListAccounts(ctx)
	if err != nil {
		// The write landed; surface the refresh failure but keep prior
		// account balances on screen.
		p.logger.Error().Err(err).Msg("Failed to refresh accounts after create")
		return created, err
	}

	p.mu.Lock()
	p.state.Accounts = accounts
	p.state.Transactions = append(p.state.Transactions, *created)
	p.state.Summary = p.aggregation.GroupByDay(p.state.Transactions)
	p.state.Breakdown = p.aggregation.ExpenseByCategory(p.state.Transactions)
	p.mu.Unlock()

	return created, nil
}

// EditTransaction submits an edit-mode form and then re-fetches the whole
// page: an edit can shift balances and aggregates across dates and
// categories, so local patching is not good enough.
func (p *OverviewPage) EditTransaction(ctx context.Context, f *form.TransactionForm) error {
	if !p.submitBusy.CompareAndSwap(false, true) {
		return domain.ErrSubmitInFlight
	}
	defer p.submitBusy.Store(false)

	input, err := f.Payload()
	if err != nil {
		return err
	}

	if _, err := p.transactions.UpdateTransaction(ctx, f.EditID(), input); err != nil {
		p.logger.Error().Err(err).Int32("id", f.EditID()).Msg("Failed to update transaction")
		return err
	}

	return p.Refresh(ctx)
}

// DeleteTransaction asks for confirmation, issues the delete, and on
// success re-fetches everything. No local list is touched before the API
// confirms: the server also reverses the balance effect of the deleted
// transaction.
func (p *OverviewPage) DeleteTransaction(ctx context.Context, id int32, confirm Confirmer) error {
	if !confirm.Confirm(fmt.Sprintf("Delete transaction %d? This cannot be undone.", id)) {
		return domain.ErrDeleteDeclined
	}

	if err := p.transactions.DeleteTransaction(ctx, id); err != nil {
		p.logger.Error().Err(err).Int32("id", id).Msg("Failed to delete transaction")
		return err
	}

	return p.Refresh(ctx)
}

// AddAccount validates and submits the add-account form, appending the
// created account to the loaded list.
func (p *OverviewPage) AddAccount(ctx context.Context, f *form.AccountForm) (*domain.Account, error) {
	input, err := f.Payload()
	if err != nil {
		return nil, err
	}

	created, err := p.accounts.CreateAccount(ctx, input)
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to create account")
		return nil, err
	}

	p.mu.Lock()
	p.state.Accounts = append(p.state.Accounts, *created)
	p.mu.Unlock()

	return created, nil
}

// Package testutil provides hand-written gateway fakes shared by tests.
// Each fake serves scripted data, counts calls, and lets a test override a
// single operation with a Fn hook to inject failures or observe ordering.
package testutil

import (
	"context"
	"sync"

	"github.com/adiwn/duit/duit-cli/internal/domain"
)

// MockProfileGateway is a fake implementation of domain.ProfileGateway
type MockProfileGateway struct {
	mu           sync.Mutex
	Profile      *domain.Profile
	Err          error
	GetProfileFn func(ctx context.Context) (*domain.Profile, error)
	Calls        int
}

func NewMockProfileGateway() *MockProfileGateway {
	return &MockProfileGateway{
		Profile: &domain.Profile{ID: 1, Name: "Tester", Email: "tester@example.com"},
	}
}

func (m *MockProfileGateway) GetProfile(ctx context.Context) (*domain.Profile, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Profile, nil
}

// MockAccountGateway is a fake implementation of domain.AccountGateway
type MockAccountGateway struct {
	mu          sync.Mutex
	Accounts    []domain.Account
	ListErr     error
	CreateErr   error
	ListFn      func(ctx context.Context) ([]domain.Account, error)
	ListCalls   int
	CreateCalls int
	nextID      int32
}

func NewMockAccountGateway() *MockAccountGateway {
	return &MockAccountGateway{nextID: 1}
}

func (m *MockAccountGateway) AddAccount(account domain.Account) {
	m.Accounts = append(m.Accounts, account)
	if account.ID >= m.nextID {
		m.nextID = account.ID + 1
	}
}

func (m *MockAccountGateway) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]domain.Account(nil), m.Accounts...), nil
}

func (m *MockAccountGateway) CreateAccount(ctx context.Context, input domain.CreateAccountInput) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	account := domain.Account{ID: m.nextID, Name: input.Name, Balance: input.Balance}
	m.nextID++
	m.Accounts = append(m.Accounts, account)
	return &account, nil
}

// MockCategoryGateway is a fake implementation of domain.CategoryGateway
type MockCategoryGateway struct {
	mu         sync.Mutex
	Categories []domain.Category
	Err        error
	ListCalls  int
	LastFilter *domain.CategoryType
}

func NewMockCategoryGateway() *MockCategoryGateway {
	return &MockCategoryGateway{}
}

func (m *MockCategoryGateway) AddCategory(category domain.Category) {
	m.Categories = append(m.Categories, category)
}

func (m *MockCategoryGateway) ListCategories(ctx context.Context, filter *domain.CategoryType) ([]domain.Category, error) {
	m.mu.Lock()
	m.ListCalls++
	m.LastFilter = filter
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if filter == nil {
		return append([]domain.Category(nil), m.Categories...), nil
	}
	var filtered []domain.Category
	for _, c := range m.Categories {
		if c.Type == *filter {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// MockTransactionGateway is a fake implementation of domain.TransactionGateway
type MockTransactionGateway struct {
	mu           sync.Mutex
	Transactions []domain.Transaction
	ListErr      error
	CreateErr    error
	UpdateErr    error
	DeleteErr    error
	ListFn       func(ctx context.Context, year, month int) ([]domain.Transaction, error)
	CreateFn     func(ctx context.Context, input domain.TransactionInput) (*domain.Transaction, error)
	DeleteFn     func(ctx context.Context, id int32) error
	ListCalls    int
	CreateCalls  int
	UpdateCalls  int
	DeleteCalls  int
	DeletedIDs   []int32
	LastInput    domain.TransactionInput
	nextID       int32
}

func NewMockTransactionGateway() *MockTransactionGateway {
	return &MockTransactionGateway{nextID: 1}
}

func (m *MockTransactionGateway) AddTransaction(tx domain.Transaction) {
	m.Transactions = append(m.Transactions, tx)
	if tx.ID >= m.nextID {
		m.nextID = tx.ID + 1
	}
}

func (m *MockTransactionGateway) ListTransactions(ctx context.Context, year, month int) ([]domain.Transaction, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()
	if m.ListFn != nil {
		return m.ListFn(ctx, year, month)
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]domain.Transaction(nil), m.Transactions...), nil
}

func (m *MockTransactionGateway) CreateTransaction(ctx context.Context, input domain.TransactionInput) (*domain.Transaction, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.LastInput = input
	fn := m.CreateFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, input)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	tx := domain.Transaction{
		ID:              m.nextID,
		Notes:           input.Notes,
		Amount:          input.Amount,
		Type:            input.Type,
		TransactionDate: input.TransactionDate,
		Account:         domain.AccountRef{ID: input.AccountID},
	}
	m.nextID++
	m.Transactions = append(m.Transactions, tx)
	return &tx, nil
}

func (m *MockTransactionGateway) UpdateTransaction(ctx context.Context, id int32, input domain.TransactionInput) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	m.LastInput = input
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	for i := range m.Transactions {
		if m.Transactions[i].ID == id {
			m.Transactions[i].Notes = input.Notes
			m.Transactions[i].Amount = input.Amount
			m.Transactions[i].Type = input.Type
			m.Transactions[i].TransactionDate = input.TransactionDate
			return &m.Transactions[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockTransactionGateway) DeleteTransaction(ctx context.Context, id int32) error {
	m.mu.Lock()
	m.DeleteCalls++
	fn := m.DeleteFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i := range m.Transactions {
		if m.Transactions[i].ID == id {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			m.DeletedIDs = append(m.DeletedIDs, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

// MockBudgetGateway is a fake implementation of domain.BudgetGateway
type MockBudgetGateway struct {
	mu              sync.Mutex
	Budgets         []domain.Budget
	Suggestions     []domain.BudgetSuggestion
	ListErr         error
	SaveErr         error
	SuggestionsErr  error
	SaveFn          func(ctx context.Context, upserts []domain.BudgetUpsert) error
	ListCalls       int
	SaveCalls       int
	SuggestionCalls int
	SavedUpserts    []domain.BudgetUpsert
}

func NewMockBudgetGateway() *MockBudgetGateway {
	return &MockBudgetGateway{}
}

func (m *MockBudgetGateway) AddBudget(budget domain.Budget) {
	m.Budgets = append(m.Budgets, budget)
}

func (m *MockBudgetGateway) AddSuggestion(suggestion domain.BudgetSuggestion) {
	m.Suggestions = append(m.Suggestions, suggestion)
}

func (m *MockBudgetGateway) ListBudgets(ctx context.Context, year, month int) ([]domain.Budget, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]domain.Budget(nil), m.Budgets...), nil
}

func (m *MockBudgetGateway) SaveBudgets(ctx context.Context, upserts []domain.BudgetUpsert) error {
	m.mu.Lock()
	m.SaveCalls++
	fn := m.SaveFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, upserts)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SavedUpserts = append([]domain.BudgetUpsert(nil), upserts...)
	return nil
}

func (m *MockBudgetGateway) ListBudgetSuggestions(ctx context.Context, year, month int) ([]domain.BudgetSuggestion, error) {
	m.mu.Lock()
	m.SuggestionCalls++
	m.mu.Unlock()
	if m.SuggestionsErr != nil {
		return nil, m.SuggestionsErr
	}
	return append([]domain.BudgetSuggestion(nil), m.Suggestions...), nil
}

// MockSession is a fake session for page tests.
type MockSession struct {
	Cleared int
}

func (m *MockSession) Clear() error {
	m.Cleared++
	return nil
}

// MockConfirmer scripts the answer to a destructive-action prompt.
type MockConfirmer struct {
	Answer  bool
	Asked   int
	Prompts []string
}

func (m *MockConfirmer) Confirm(prompt string) bool {
	m.Asked++
	m.Prompts = append(m.Prompts, prompt)
	return m.Answer
}

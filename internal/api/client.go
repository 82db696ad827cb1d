// Package api provides the typed HTTP client for the duit finance API. All
// business logic lives behind that API; this client only moves requests and
// responses and maps failures onto domain errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute bounds how fast the client is allowed to hit the
// remote API.
const DefaultRequestsPerMinute = 120

// TokenSource supplies the current bearer token. Satisfied by
// *session.Store.
type TokenSource interface {
	Token() string
}

// Client communicates with the duit finance API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRequestsPerMinute adjusts the client-side throttle.
func WithRequestsPerMinute(n int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), burstFor(n))
	}
}

// WithLogger attaches a logger for request-level events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new duit API client.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(float64(DefaultRequestsPerMinute)/60.0), burstFor(DefaultRequestsPerMinute)),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func burstFor(requestsPerMinute int) int {
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return burst
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &profile); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &profile, nil
}

// ListAccounts fetches all accounts with their server-computed balances.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := c.do(ctx, http.MethodGet, "/api/accounts", nil, &accounts); err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}
	return accounts, nil
}

// CreateAccount creates an account and returns the created record.
func (c *Client) CreateAccount(ctx context.Context, input domain.CreateAccountInput) (*domain.Account, error) {
	var account domain.Account
	if err := c.do(ctx, http.MethodPost, "/api/accounts", input, &account); err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}
	return &account, nil
}

// ListCategories fetches categories with their sub-categories, optionally
// filtered by type.
func (c *Client) ListCategories(ctx context.Context, filter *domain.CategoryType) ([]domain.Category, error) {
	path := "/api/categories"
	if filter != nil {
		path += "?type=" + string(*filter)
	}
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, path, nil, &categories); err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	return categories, nil
}

// ListTransactions fetches the transactions of one (year, month) window.
func (c *Client) ListTransactions(ctx context.Context, year, month int) ([]domain.Transaction, error) {
	path := fmt.Sprintf("/api/transactions?year=%d&month=%d", year, month)
	var transactions []domain.Transaction
	if err := c.do(ctx, http.MethodGet, path, nil, &transactions); err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}
	return transactions, nil
}

// CreateTransaction records a new transaction. Account balances change
// server-side as a consequence.
func (c *Client) CreateTransaction(ctx context.Context, input domain.TransactionInput) (*domain.Transaction, error) {
	var transaction domain.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions", input, &transaction); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces a transaction by ID.
func (c *Client) UpdateTransaction(ctx context.Context, id int32, input domain.TransactionInput) (*domain.Transaction, error) {
	var transaction domain.Transaction
	path := fmt.Sprintf("/api/transactions/%d", id)
	if err := c.do(ctx, http.MethodPut, path, input, &transaction); err != nil {
		return nil, fmt.Errorf("updating transaction %d: %w", id, err)
	}
	return &transaction, nil
}

// DeleteTransaction deletes a transaction by ID.
func (c *Client) DeleteTransaction(ctx context.Context, id int32) error {
	path := fmt.Sprintf("/api/transactions/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	return nil
}

// ListBudgets fetches the budgets of one period.
func (c *Client) ListBudgets(ctx context.Context, year, month int) ([]domain.Budget, error) {
	path := fmt.Sprintf("/api/budgets?year=%d&month=%d", year, month)
	var budgets []domain.Budget
	if err := c.do(ctx, http.MethodGet, path, nil, &budgets); err != nil {
		return nil, fmt.Errorf("fetching budgets: %w", err)
	}
	return budgets, nil
}

// SaveBudgets submits the batch budget upsert for a period.
func (c *Client) SaveBudgets(ctx context.Context, upserts []domain.BudgetUpsert) error {
	if err := c.do(ctx, http.MethodPost, "/api/budgets", upserts, nil); err != nil {
		return fmt.Errorf("saving budgets: %w", err)
	}
	return nil
}

// ListBudgetSuggestions fetches the server-computed suggestions for a period.
func (c *Client) ListBudgetSuggestions(ctx context.Context, year, month int) ([]domain.BudgetSuggestion, error) {
	path := fmt.Sprintf("/api/budgets/suggestions?year=%d&month=%d", year, month)
	var suggestions []domain.BudgetSuggestion
	if err := c.do(ctx, http.MethodGet, path, nil, &suggestions); err != nil {
		return nil, fmt.Errorf("fetching budget suggestions: %w", err)
	}
	return suggestions, nil
}

// problemDetails is the RFC 7807 error body the API returns on failures.
type problemDetails struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("Request failed")
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("API request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// statusError maps a non-2xx response onto the domain error taxonomy,
// carrying the server's problem detail when one is present.
func (c *Client) statusError(resp *http.Response) error {
	var problem problemDetails
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&problem)

	detail := problem.Detail
	if detail == "" {
		detail = problem.Title
	}

	var base error
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		base = domain.ErrUnauthorized
	case http.StatusNotFound:
		base = domain.ErrNotFound
	case http.StatusBadRequest:
		base = domain.ErrInvalidInput
	default:
		base = domain.ErrInternalError
	}

	if detail != "" {
		return fmt.Errorf("%w: %s (status %d)", base, detail, resp.StatusCode)
	}
	return fmt.Errorf("%w: unexpected status %d", base, resp.StatusCode)
}

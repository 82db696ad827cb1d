package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Account is a money store owned by the user. The balance is maintained
// server-side; the client never recomputes it from transactions.
type Account struct {
	ID      int32           `json:"ID"`
	Name    string          `json:"Name"`
	Balance decimal.Decimal `json:"Balance"`
}

// CreateAccountInput is the payload for creating an account.
type CreateAccountInput struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type AccountGateway interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	CreateAccount(ctx context.Context, input CreateAccountInput) (*Account, error)
}

// TotalBalance sums the balances of all accounts.
func TotalBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// AccountRef is the account relation preloaded on a transaction response.
type AccountRef struct {
	ID   int32  `json:"ID"`
	Name string `json:"Name"`
}

// CategoryRef is the parent category preloaded on a sub-category relation.
type CategoryRef struct {
	ID   int32  `json:"ID"`
	Name string `json:"Name"`
}

// SubCategoryRef is the sub-category relation preloaded on a transaction
// response, including its parent category.
type SubCategoryRef struct {
	ID       int32       `json:"ID"`
	Name     string      `json:"Name"`
	Category CategoryRef `json:"Category"`
}

// Transaction is one income, expense, or transfer movement. The amount is a
// non-negative magnitude; the type carries the sign. TransactionDate is kept
// in its wire form so one malformed date cannot poison a whole response;
// aggregation parses it per entry.
type Transaction struct {
	ID                   int32           `json:"ID"`
	Notes                string          `json:"Notes"`
	Amount               decimal.Decimal `json:"Amount"`
	Type                 TransactionType `json:"Type"`
	TransactionDate      string          `json:"TransactionDate"`
	Account              AccountRef      `json:"Account"`
	SubCategory          *SubCategoryRef `json:"SubCategory,omitempty"`
	DestinationAccountID *int32          `json:"DestinationAccountID,omitempty"`
}

// TransactionInput is the payload for creating or updating a transaction.
// SubCategoryID is required for income/expense, DestinationAccountID for
// transfer; the unused one is null on the wire.
type TransactionInput struct {
	Type                 TransactionType `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	AccountID            int32           `json:"account_id"`
	SubCategoryID        *int32          `json:"sub_category_id"`
	DestinationAccountID *int32          `json:"destination_account_id"`
	TransactionDate      string          `json:"transaction_date"`
	Notes                string          `json:"notes,omitempty"`
}

type TransactionGateway interface {
	ListTransactions(ctx context.Context, year, month int) ([]Transaction, error)
	CreateTransaction(ctx context.Context, input TransactionInput) (*Transaction, error)
	UpdateTransaction(ctx context.Context, id int32, input TransactionInput) (*Transaction, error)
	DeleteTransaction(ctx context.Context, id int32) error
}

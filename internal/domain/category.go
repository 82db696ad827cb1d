package domain

import "context"

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

type SubCategory struct {
	ID   int32  `json:"ID"`
	Name string `json:"Name"`
}

// Category is a two-level classification: a transaction links to a
// SubCategory, which belongs to exactly one Category.
type Category struct {
	ID            int32         `json:"ID"`
	Name          string        `json:"Name"`
	Type          CategoryType  `json:"Type"`
	SubCategories []SubCategory `json:"SubCategories"`
}

type CategoryGateway interface {
	// ListCategories returns all categories, or only those of the given
	// type when filter is non-nil.
	ListCategories(ctx context.Context, filter *CategoryType) ([]Category, error)
}

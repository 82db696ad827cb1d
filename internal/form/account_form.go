package form

import (
	"strings"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountForm backs the add-account dialog.
type AccountForm struct {
	Name    string
	Balance decimal.Decimal
}

// Validate checks the account fields: a name is required and the opening
// balance may not be negative.
func (f *AccountForm) Validate() domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "account name must not be empty"})
	}
	if f.Balance.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "balance", Message: "opening balance may not be negative"})
	}

	return errs
}

// Payload converts the validated values into the create request shape.
func (f *AccountForm) Payload() (domain.CreateAccountInput, error) {
	if errs := f.Validate(); errs != nil {
		return domain.CreateAccountInput{}, errs
	}
	return domain.CreateAccountInput{
		Name:    strings.TrimSpace(f.Name),
		Balance: f.Balance,
	}, nil
}

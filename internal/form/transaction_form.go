// Package form drives the dialog state for user input: default values per
// mode, field validation before any network call, and the permissive budget
// amount parse.
package form

import (
	"errors"
	"strconv"
	"time"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// TransactionValues are the editable fields of the transaction dialog.
// Selected identifiers are string-encoded, mirroring how select inputs hold
// them; Payload converts them back.
type TransactionValues struct {
	Type                 domain.TransactionType `validate:"required,oneof=income expense transfer"`
	Amount               decimal.Decimal
	AccountID            string `validate:"required"`
	SubCategoryID        string `validate:"required_unless=Type transfer"`
	DestinationAccountID string `validate:"required_if=Type transfer"`
	TransactionDate      time.Time
	Notes                string
}

// Rules holds the configurable validation policy.
type Rules struct {
	// RequireDistinctTransferAccounts rejects transfers whose destination
	// equals the source account. Off by default; the backend accepts them.
	RequireDistinctTransferAccounts bool
}

// TransactionForm is one dialog instance. A single definition serves both
// add and edit mode.
type TransactionForm struct {
	mode   Mode
	editID int32
	Values TransactionValues
	Rules  Rules
}

// NewTransactionForm returns an add-mode form with the standard defaults:
// expense type, today's date, everything else empty.
func NewTransactionForm(now time.Time) *TransactionForm {
	return &TransactionForm{
		mode: ModeAdd,
		Values: TransactionValues{
			Type:            domain.TransactionTypeExpense,
			Amount:          decimal.Zero,
			TransactionDate: now,
		},
	}
}

// NewEditTransactionForm returns an edit-mode form initialized from the
// transaction being edited, converting its relations to string-encoded
// identifier fields.
func NewEditTransactionForm(tx domain.Transaction) (*TransactionForm, error) {
	date, err := time.Parse(time.RFC3339, tx.TransactionDate)
	if err != nil {
		return nil, errors.New("transaction has an unparseable date")
	}

	values := TransactionValues{
		Type:            tx.Type,
		Amount:          tx.Amount,
		AccountID:       strconv.Itoa(int(tx.Account.ID)),
		TransactionDate: date,
		Notes:           tx.Notes,
	}
	if tx.SubCategory != nil {
		values.SubCategoryID = strconv.Itoa(int(tx.SubCategory.ID))
	}
	if tx.DestinationAccountID != nil {
		values.DestinationAccountID = strconv.Itoa(int(*tx.DestinationAccountID))
	}

	return &TransactionForm{mode: ModeEdit, editID: tx.ID, Values: values}, nil
}

func (f *TransactionForm) Mode() Mode    { return f.mode }
func (f *TransactionForm) EditID() int32 { return f.editID }

// SetType switches the transaction type. Any previously chosen sub-category
// is cleared so a category from the old type cannot leak into the new one.
func (f *TransactionForm) SetType(t domain.TransactionType) {
	if f.Values.Type == t {
		return
	}
	f.Values.Type = t
	f.Values.SubCategoryID = ""
}

// Validate checks every rule for the current values and returns the full
// list of field errors, nil when the form may be submitted.
func (f *TransactionForm) Validate() domain.ValidationErrors {
	var errs domain.ValidationErrors

	if err := validate.Struct(f.Values); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, fieldErrorFor(fe))
			}
		} else {
			errs = append(errs, domain.FieldError{Field: "form", Message: err.Error()})
		}
	}

	if !f.Values.Amount.IsPositive() {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "amount must be greater than 0"})
	}
	if f.Values.TransactionDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "transaction_date", Message: "date is required"})
	}
	if f.Rules.RequireDistinctTransferAccounts &&
		f.Values.Type == domain.TransactionTypeTransfer &&
		f.Values.DestinationAccountID != "" &&
		f.Values.DestinationAccountID == f.Values.AccountID {
		errs = append(errs, domain.FieldError{Field: "destination_account_id", Message: "destination must differ from the source account"})
	}

	return errs
}

// Payload converts the validated values into the create/update request
// shape. The optional field not applicable to the type stays null on the
// wire.
func (f *TransactionForm) Payload() (domain.TransactionInput, error) {
	if errs := f.Validate(); errs != nil {
		return domain.TransactionInput{}, errs
	}

	accountID, err := parseID(f.Values.AccountID)
	if err != nil {
		return domain.TransactionInput{}, domain.ValidationErrors{{Field: "account_id", Message: "invalid account"}}
	}

	input := domain.TransactionInput{
		Type:            f.Values.Type,
		Amount:          f.Values.Amount,
		AccountID:       accountID,
		TransactionDate: f.Values.TransactionDate.UTC().Format(time.RFC3339),
		Notes:           f.Values.Notes,
	}

	if f.Values.Type == domain.TransactionTypeTransfer {
		destID, err := parseID(f.Values.DestinationAccountID)
		if err != nil {
			return domain.TransactionInput{}, domain.ValidationErrors{{Field: "destination_account_id", Message: "invalid destination account"}}
		}
		input.DestinationAccountID = &destID
	} else {
		subID, err := parseID(f.Values.SubCategoryID)
		if err != nil {
			return domain.TransactionInput{}, domain.ValidationErrors{{Field: "sub_category_id", Message: "invalid category"}}
		}
		input.SubCategoryID = &subID
	}

	return input, nil
}

func parseID(raw string) (int32, error) {
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}

func fieldErrorFor(fe validator.FieldError) domain.FieldError {
	switch fe.StructField() {
	case "Type":
		return domain.FieldError{Field: "type", Message: "transaction type must be income, expense, or transfer"}
	case "AccountID":
		return domain.FieldError{Field: "account_id", Message: "account must be selected"}
	case "SubCategoryID":
		return domain.FieldError{Field: "sub_category_id", Message: "category must be selected"}
	case "DestinationAccountID":
		return domain.FieldError{Field: "destination_account_id", Message: "destination account must be selected for a transfer"}
	default:
		return domain.FieldError{Field: fe.StructField(), Message: "invalid value"}
	}
}

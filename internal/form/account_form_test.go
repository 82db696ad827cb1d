package form

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		form      AccountForm
		wantField string
	}{
		{
			name:      "empty name",
			form:      AccountForm{Name: "  ", Balance: decimal.Zero},
			wantField: "name",
		},
		{
			name:      "negative balance",
			form:      AccountForm{Name: "BCA", Balance: decimal.NewFromInt(-1)},
			wantField: "balance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.form.Validate()
			require.NotNil(t, errs)
			assert.NotEmpty(t, errs.FieldFor(tt.wantField))
		})
	}
}

func TestAccountForm_PayloadTrimsName(t *testing.T) {
	f := AccountForm{Name: "  Dompet  ", Balance: decimal.NewFromInt(100000)}

	input, err := f.Payload()
	require.NoError(t, err)
	assert.Equal(t, "Dompet", input.Name)
	assert.Equal(t, "100000", input.Balance.String())
}

func TestAccountForm_ZeroBalanceAllowed(t *testing.T) {
	f := AccountForm{Name: "Cash", Balance: decimal.Zero}
	assert.Nil(t, f.Validate())
}

package money

import (
	"testing"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   any
		name    string
		want    string
		wantErr bool
	}{
		{name: "float cell", input: 1234.5, want: "1234.5"},
		{name: "int cell", input: 42, want: "42"},
		{name: "plain text", input: "1234.5", want: "1234.5"},
		{name: "brazilian thousands", input: "1.234,56", want: "1234.56"},
		{name: "currency prefix", input: "R$ 1.234,56", want: "1234.56"},
		{name: "currency prefix thousands only", input: "R$ 1.234", want: "1234"},
		{name: "budget typed as text", input: "R$ 5.000", want: "5000"},
		{name: "grouped thousands without prefix", input: "5.000", want: "5000"},
		{name: "negative grouped thousands", input: "-12.500", want: "-12500"},
		{name: "rate with three decimals", input: "0.065", want: "0.065"},
		{name: "currency prefix with cents", input: "R$ 12.50", want: "12.5"},
		{name: "non breaking space", input: "R$\u00a0900,00", want: "900"},
		{name: "comma decimal", input: "0,05", want: "0.05"},
		{name: "us thousands", input: "1,234.56", want: "1234.56"},
		{name: "dotted thousands only", input: "1.234.567", want: "1234567"},
		{name: "percentage", input: "5%", want: "0.05"},
		{name: "percentage with comma", input: "0,65%", want: "0.0065"},
		{name: "negative", input: "-150,00", want: "-150"},
		{name: "empty", input: "", wantErr: true},
		{name: "nil", input: nil, wantErr: true},
		{name: "text", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount("Valor", tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidNumericInput)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

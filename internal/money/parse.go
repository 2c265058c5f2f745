package money

import (
	"strings"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/shopspring/decimal"
)

// ParseAmount reads a money or rate cell. It accepts raw numbers, "1234.5",
// "1.234,56", "R$ 1.234,56", "R$ 5.000" and percentages such as "5%".
func ParseAmount(field string, v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), nil
	case float32:
		return decimal.NewFromFloat32(val), nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	case decimal.Decimal:
		return val, nil
	}

	raw := model.CellString(v)
	s := strings.NewReplacer("R$", "", " ", "", "\u00a0", "").Replace(raw)
	if s == "" {
		return decimal.Zero, &common.InvalidNumericInputError{Field: field, Value: raw}
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1, groupedThousands(s, lastDot):
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &common.InvalidNumericInputError{Field: field, Value: raw}
	}
	if percent {
		d = d.Div(decimal.NewFromInt(100))
	}
	return d, nil
}

// groupedThousands reports whether a lone dot separates pt-BR digit groups, as
// in "5.000" or "-12.500": one to three leading digits not starting with zero
// and exactly three digits after the dot. "0.065" and "1234.5" stay decimals.
func groupedThousands(s string, dot int) bool {
	if dot < 0 {
		return false
	}
	head := strings.TrimPrefix(s[:dot], "-")
	tail := s[dot+1:]
	if len(head) == 0 || len(head) > 3 || head[0] == '0' || len(tail) != 3 {
		return false
	}
	return allDigits(head) && allDigits(tail)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

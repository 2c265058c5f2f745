package sheets

import (
	"fmt"
	"strings"
)

// ColumnLetter converts a 1-based column index into its A1 letters (1 → A, 27 → AA).
func ColumnLetter(n int) string {
	if n <= 0 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append(b, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// QuoteSheet quotes a tab name for use in an A1 range.
func QuoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// RowRange addresses columns A..N of a single 1-based row, e.g. 'Tab'!A3:F3.
func RowRange(sheet string, row, columns int) string {
	if columns < 1 {
		columns = 1
	}
	return fmt.Sprintf("%s!A%d:%s%d", QuoteSheet(sheet), row, ColumnLetter(columns), row)
}

package sheets

import (
	"fmt"
	"time"

	"github.com/opyta/sistema-financeiro/internal/model"
)

// serialEpoch is day zero of spreadsheet serial dates.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
	"2/1/2006",
}

// ParseDate reads a date cell as a calendar date in UTC, dropping time of day.
func ParseDate(field string, v any) (time.Time, error) {
	if serial, ok := v.(float64); ok {
		return serialEpoch.AddDate(0, 0, int(serial)), nil
	}

	raw := model.CellString(v)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date in %s: %q", field, raw)
}

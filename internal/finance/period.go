package finance

import (
	"strings"
	"time"

	"github.com/opyta/sistema-financeiro/internal/common"
)

// PeriodKind selects a date window relative to today.
type PeriodKind string

// Period kinds offered by the period selector.
const (
	PeriodThisMonth PeriodKind = "This Month"
	PeriodLastMonth PeriodKind = "Last Month"
	PeriodThisYear  PeriodKind = "This Year"
	PeriodLastYear  PeriodKind = "Last Year"
	PeriodCustom    PeriodKind = "Custom"
)

// DefaultPeriod is selected when no period is given, the first selector option.
const DefaultPeriod = PeriodThisMonth

// Periods lists the selector options in display order.
var Periods = []PeriodKind{PeriodThisMonth, PeriodLastMonth, PeriodThisYear, PeriodLastYear, PeriodCustom}

var periodAliases = map[string]PeriodKind{
	"this month":    PeriodThisMonth,
	"this_month":    PeriodThisMonth,
	"este mês":      PeriodThisMonth,
	"last month":    PeriodLastMonth,
	"last_month":    PeriodLastMonth,
	"último mês":    PeriodLastMonth,
	"this year":     PeriodThisYear,
	"this_year":     PeriodThisYear,
	"este ano":      PeriodThisYear,
	"last year":     PeriodLastYear,
	"last_year":     PeriodLastYear,
	"último ano":    PeriodLastYear,
	"custom":        PeriodCustom,
	"personalizado": PeriodCustom,
}

// ParsePeriod maps a selector label onto a period kind. English and Portuguese
// labels are accepted in any case; anything else is returned as is and later
// passes rows through unfiltered.
func ParsePeriod(s string) PeriodKind {
	if kind, ok := periodAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return kind
	}
	return PeriodKind(s)
}

// Known reports whether the kind selects a window.
func (k PeriodKind) Known() bool {
	for _, p := range Periods {
		if p == k {
			return true
		}
	}
	return false
}

// Window is an inclusive range of calendar dates.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls on a day inside the window.
func (w Window) Contains(t time.Time) bool {
	d := civilDate(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// PeriodWindow computes the window of kind relative to today. The boolean is
// false for unknown kinds.
func PeriodWindow(kind PeriodKind, start, end *time.Time, today time.Time) (Window, bool, error) {
	now := civilDate(today)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch kind {
	case PeriodThisMonth:
		return Window{Start: firstOfMonth, End: now}, true, nil
	case PeriodLastMonth:
		last := firstOfMonth.AddDate(0, 0, -1)
		return Window{Start: time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC), End: last}, true, nil
	case PeriodThisYear:
		return Window{Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), End: now}, true, nil
	case PeriodLastYear:
		year := now.Year() - 1
		return Window{
			Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		}, true, nil
	case PeriodCustom:
		if start == nil || end == nil {
			return Window{}, false, &common.InvalidRangeError{Start: start, End: end, Reason: "custom period needs both a start and an end date"}
		}
		w := Window{Start: civilDate(*start), End: civilDate(*end)}
		if w.End.Before(w.Start) {
			return Window{}, false, &common.InvalidRangeError{Start: start, End: end, Reason: "end date is before start date"}
		}
		return w, true, nil
	default:
		return Window{}, false, nil
	}
}

// civilDate drops the time of day, keeping the calendar date of t in its own location.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package finance

import (
	"testing"
	"time"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func revenueRow(project string, amount int64, date time.Time) model.RevenueRecord {
	return model.RevenueRecord{Project: project, Amount: decimal.NewFromInt(amount), Date: date}
}

var testProjects = []model.Project{
	{Code: "P1", Client: "Acme"},
	{Code: "P2", Client: "Globex"},
	{Code: "P3", Client: "Acme"},
}

func TestFilterProject(t *testing.T) {
	rows := []model.RevenueRecord{
		revenueRow("P1", 100, day(2024, 3, 1)),
		revenueRow("P2", 200, day(2024, 3, 2)),
		revenueRow("P1", 300, day(2024, 3, 3)),
	}

	tests := []struct {
		name string
		code string
		want int
	}{
		{name: "all", code: model.AllSelector, want: 3},
		{name: "portuguese wildcard", code: "Todos", want: 3},
		{name: "empty selector", code: "", want: 3},
		{name: "single project", code: "P1", want: 2},
		{name: "unknown project", code: "P9", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterProject(rows, tt.code)
			assert.Len(t, got, tt.want)
			for _, r := range got {
				if tt.want < 3 {
					assert.Equal(t, tt.code, r.Project)
				}
			}
		})
	}
}

func TestFilterProject_DoesNotAliasInput(t *testing.T) {
	rows := []model.RevenueRecord{revenueRow("P1", 100, day(2024, 3, 1))}

	got := FilterProject(rows, model.AllSelector)
	got[0].Project = "changed"

	assert.Equal(t, "P1", rows[0].Project)
}

func TestFilterClient(t *testing.T) {
	rows := []model.ExpenseRecord{
		{Project: "P1", Amount: decimal.NewFromInt(1)},
		{Project: "P2", Amount: decimal.NewFromInt(2)},
		{Project: "P3", Amount: decimal.NewFromInt(3)},
		{Project: "orphan", Amount: decimal.NewFromInt(4)},
	}

	assert.Len(t, FilterClient(rows, testProjects, model.AllSelector), 4)

	acme := FilterClient(rows, testProjects, "Acme")
	require.Len(t, acme, 2)
	assert.Equal(t, "P1", acme[0].Project)
	assert.Equal(t, "P3", acme[1].Project)

	assert.Empty(t, FilterClient(rows, testProjects, "Initech"))
}

func TestPeriodWindow(t *testing.T) {
	today := day(2024, 3, 15)

	tests := []struct {
		start, end *time.Time
		name       string
		kind       PeriodKind
		want       Window
		wantOK     bool
		wantErr    bool
	}{
		{name: "this month", kind: PeriodThisMonth, want: Window{day(2024, 3, 1), today}, wantOK: true},
		{name: "last month", kind: PeriodLastMonth, want: Window{day(2024, 2, 1), day(2024, 2, 29)}, wantOK: true},
		{name: "this year", kind: PeriodThisYear, want: Window{day(2024, 1, 1), today}, wantOK: true},
		{name: "last year", kind: PeriodLastYear, want: Window{day(2023, 1, 1), day(2023, 12, 31)}, wantOK: true},
		{
			name: "custom", kind: PeriodCustom,
			start: ptr(day(2023, 6, 1)), end: ptr(day(2023, 6, 30)),
			want: Window{day(2023, 6, 1), day(2023, 6, 30)}, wantOK: true,
		},
		{name: "custom missing end", kind: PeriodCustom, start: ptr(day(2023, 6, 1)), wantErr: true},
		{name: "custom missing both", kind: PeriodCustom, wantErr: true},
		{
			name: "custom reversed", kind: PeriodCustom,
			start: ptr(day(2023, 6, 30)), end: ptr(day(2023, 6, 1)), wantErr: true,
		},
		{name: "unknown", kind: "Next Decade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := PeriodWindow(tt.kind, tt.start, tt.end, today)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodWindow_LastMonthInJanuary(t *testing.T) {
	got, ok, err := PeriodWindow(PeriodLastMonth, nil, nil, day(2024, 1, 10))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Window{day(2023, 12, 1), day(2023, 12, 31)}, got)
}

func TestFilterPeriod(t *testing.T) {
	today := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	rows := []model.RevenueRecord{
		revenueRow("P1", 1, day(2024, 2, 1)),
		revenueRow("P1", 2, day(2024, 2, 29)),
		revenueRow("P1", 3, day(2024, 3, 1)),
		revenueRow("P1", 4, time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)),
		revenueRow("P1", 5, day(2024, 3, 16)),
		revenueRow("P1", 6, day(2023, 7, 1)),
	}

	got, err := FilterPeriod(rows, PeriodThisMonth, nil, nil, revenueDate, today)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, amounts(got))

	got, err = FilterPeriod(rows, PeriodLastMonth, nil, nil, revenueDate, today)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, amounts(got))

	got, err = FilterPeriod(rows, "whatever", nil, nil, revenueDate, today)
	require.NoError(t, err)
	assert.Len(t, got, len(rows))

	_, err = FilterPeriod(rows, PeriodCustom, nil, nil, revenueDate, today)
	assert.ErrorIs(t, err, common.ErrInvalidRange)
}

func TestFilterPeriod_CustomEndBeforeStart(t *testing.T) {
	rows := []model.RevenueRecord{revenueRow("P1", 1, day(2024, 2, 1))}

	got, err := FilterPeriod(rows, PeriodCustom, ptr(day(2024, 3, 1)), ptr(day(2024, 2, 1)), revenueDate, day(2024, 3, 15))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidRange)
	assert.Contains(t, err.Error(), "end date is before start date")
	assert.Nil(t, got)

	var rangeErr *common.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, day(2024, 3, 1), *rangeErr.Start)
	assert.Equal(t, day(2024, 2, 1), *rangeErr.End)

	got, err = FilterPeriod(rows, PeriodCustom, ptr(day(2024, 2, 1)), ptr(day(2024, 2, 1)), revenueDate, day(2024, 3, 15))
	require.NoError(t, err, "a single-day range is valid")
	assert.Len(t, got, 1)
}

func TestFilterPeriod_ThisMonthOnLastMonthRows(t *testing.T) {
	today := day(2024, 3, 15)
	rows := []model.RevenueRecord{
		revenueRow("P1", 1, day(2024, 2, 3)),
		revenueRow("P2", 2, day(2024, 2, 28)),
	}

	got, err := FilterPeriod(rows, PeriodThisMonth, nil, nil, revenueDate, today)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApply(t *testing.T) {
	src := model.Sources{
		Projects: testProjects,
		Revenue: []model.RevenueRecord{
			revenueRow("P1", 100, day(2024, 3, 1)),
			revenueRow("P2", 200, day(2024, 3, 2)),
			revenueRow("P3", 300, day(2023, 3, 3)),
		},
		Expenses: []model.ExpenseRecord{
			{Project: "P1", Amount: decimal.NewFromInt(10), Date: day(2024, 3, 5)},
			{Project: "P3", Amount: decimal.NewFromInt(30), Date: day(2024, 2, 5)},
		},
	}

	got, err := Apply(Filter{Client: "Acme", Project: model.AllSelector, Period: PeriodThisYear}, src, day(2024, 3, 15))
	require.NoError(t, err)

	assert.Equal(t, []int64{100}, amounts(got.Revenue))
	assert.Len(t, got.Expenses, 2)
	require.NotNil(t, got.Window)
	assert.Equal(t, day(2024, 1, 1), got.Window.Start)

	got, err = Apply(Filter{Client: "Acme", Project: "P2", Period: "none"}, src, day(2024, 3, 15))
	require.NoError(t, err)
	assert.Empty(t, got.Revenue)
	assert.Nil(t, got.Window)

	_, err = Apply(Filter{Period: PeriodCustom}, src, day(2024, 3, 15))
	assert.ErrorIs(t, err, common.ErrInvalidRange)
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, PeriodThisMonth, ParsePeriod("Este Mês"))
	assert.Equal(t, PeriodLastMonth, ParsePeriod("último mês"))
	assert.Equal(t, PeriodThisYear, ParsePeriod("this_year"))
	assert.Equal(t, PeriodLastYear, ParsePeriod("Last Year"))
	assert.Equal(t, PeriodCustom, ParsePeriod("Personalizado"))
	assert.Equal(t, PeriodKind("Someday"), ParsePeriod("Someday"))
	assert.False(t, ParsePeriod("Someday").Known())
	assert.True(t, ParsePeriod("custom").Known())
}

func TestSelectors(t *testing.T) {
	projects := append(append([]model.Project{}, testProjects...), model.Project{Code: "P4"})

	assert.Equal(t, []string{"Acme", "Globex"}, Clients(projects))
	assert.Equal(t, []string{"P1", "P3"}, ProjectCodes(projects, "Acme"))
	assert.Equal(t, []string{"P1", "P2", "P3", "P4"}, ProjectCodes(projects, model.AllSelector))
}

func amounts(rows []model.RevenueRecord) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Amount.IntPart())
	}
	return out
}

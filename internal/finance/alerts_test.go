package finance

import (
	"strings"
	"testing"

	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(code, target, budget string) model.Project {
	return model.Project{Code: code, Client: "Acme", RevenueTarget: ptr(target), Budget: ptr(budget)}
}

func expenseRow(project string, amount int64) model.ExpenseRecord {
	return model.ExpenseRecord{Project: project, Amount: decimal.NewFromInt(amount), Date: day(2024, 3, 1)}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		spent string
		want  AlertStatus
	}{
		{spent: "0", want: StatusOnTrack},
		{spent: "79.99", want: StatusOnTrack},
		{spent: "80", want: StatusOnTrack},
		{spent: "80.01", want: StatusNear},
		{spent: "99.99", want: StatusNear},
		{spent: "100", want: StatusNear},
		{spent: "100.01", want: StatusOver},
		{spent: "250", want: StatusOver},
	}

	for _, tt := range tests {
		t.Run(tt.spent, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(decimal.RequireFromString(tt.spent)))
		})
	}
}

func TestAlertStatus_Color(t *testing.T) {
	assert.Equal(t, "#FF4B4B", StatusOver.Color())
	assert.Equal(t, "#FFDA61", StatusNear.Color())
	assert.Equal(t, "#87A96B", StatusOnTrack.Color())
}

func TestEvaluateAlerts(t *testing.T) {
	projects := []model.Project{
		project("P1", "1000", "1000"),
		project("P2", "100", "500"),
		project("P3", "0", "0"),
		project("P4", "abc", "xyz"),
	}
	revenue := []model.RevenueRecord{
		revenueRow("P1", 1200, day(2024, 3, 1)),
		revenueRow("P2", 100, day(2024, 3, 1)),
	}
	expenses := []model.ExpenseRecord{
		expenseRow("P1", 900),
		expenseRow("P1", 100),
		expenseRow("P2", 400),
		expenseRow("P3", 50),
		expenseRow("P4", 50),
	}

	alerts, notices := EvaluateAlerts(projects, revenue, expenses)
	require.Len(t, alerts, 4)

	p1 := alerts[0]
	assert.Equal(t, StatusNear, p1.Status, "spending exactly the budget is near, not over")
	assert.True(t, decimal.NewFromInt(100).Equal(p1.SpentRatio))
	assert.Equal(t, "#FFDA61", p1.Color)
	assert.False(t, p1.BelowTarget)

	p2 := alerts[1]
	assert.Equal(t, StatusOnTrack, p2.Status, "spending exactly 80% is still on track")
	assert.True(t, decimal.NewFromInt(80).Equal(p2.SpentRatio))
	assert.False(t, p2.BelowTarget, "revenue equal to target is not below it")

	p3 := alerts[2]
	assert.True(t, p3.SpentRatio.IsZero(), "zero budget yields a zero ratio")
	assert.Equal(t, StatusOnTrack, p3.Status)

	p4 := alerts[3]
	assert.True(t, p4.SpentRatio.IsZero())
	assert.Nil(t, p4.Target)

	// P4 gets a budget notice and an invalid target notice, nothing else
	require.Len(t, notices, 2)
	for _, n := range notices {
		assert.Equal(t, "P4", n.Project)
	}
	assert.True(t, strings.Contains(notices[1].Message, "invalid revenue target"))
}

func TestEvaluateAlerts_BelowTarget(t *testing.T) {
	alerts, notices := EvaluateAlerts(
		[]model.Project{project("P1", "10000", "5000")},
		[]model.RevenueRecord{revenueRow("P1", 2500, day(2024, 3, 1))},
		nil,
	)

	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].BelowTarget)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Message, "R$ 2.500,00")
	assert.Contains(t, notices[0].Message, "R$ 10.000,00")
}

func TestEvaluateAlerts_MissingColumns(t *testing.T) {
	projects := []model.Project{
		{Code: "P1", Client: "Acme"},
		{Code: "P2", Client: "Acme", Budget: ptr("100"), RevenueTarget: ptr("  ")},
		project("P3", "0", "100"),
	}

	alerts, notices := EvaluateAlerts(projects, nil, []model.ExpenseRecord{expenseRow("P3", 10)})

	require.Len(t, alerts, 1)
	assert.Equal(t, "P3", alerts[0].Project)
	assert.True(t, decimal.NewFromInt(10).Equal(alerts[0].SpentRatio))
	require.Len(t, notices, 2)
	assert.Equal(t, "P1", notices[0].Project)
	assert.Equal(t, "P2", notices[1].Project)
}

package finance

import (
	"fmt"
	"strings"

	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/opyta/sistema-financeiro/internal/money"
	"github.com/shopspring/decimal"
)

// AlertStatus is the budget tier of a project.
type AlertStatus string

// Budget tiers.
const (
	StatusOnTrack AlertStatus = "on_track"
	StatusNear    AlertStatus = "near_budget"
	StatusOver    AlertStatus = "over_budget"
)

var (
	overThreshold = decimal.NewFromInt(100)
	nearThreshold = decimal.NewFromInt(80)
	hundred       = decimal.NewFromInt(100)
)

// Color returns the box color of the tier.
func (s AlertStatus) Color() string {
	switch s {
	case StatusOver:
		return "#FF4B4B"
	case StatusNear:
		return "#FFDA61"
	default:
		return "#87A96B"
	}
}

// StatusFor classifies a spent percentage: above 100 is over budget, above 80
// is near it. Exactly 100 is still near and exactly 80 still on track.
func StatusFor(spent decimal.Decimal) AlertStatus {
	switch {
	case spent.GreaterThan(overThreshold):
		return StatusOver
	case spent.GreaterThan(nearThreshold):
		return StatusNear
	default:
		return StatusOnTrack
	}
}

// ProjectAlert is the budget box of one project.
type ProjectAlert struct {
	Target      *decimal.Decimal `json:"target,omitempty"`
	Project     string           `json:"project"`
	Client      string           `json:"client"`
	Status      AlertStatus      `json:"status"`
	Color       string           `json:"color"`
	Revenue     decimal.Decimal  `json:"revenue"`
	Expense     decimal.Decimal  `json:"expense"`
	SpentRatio  decimal.Decimal  `json:"spent_ratio"`
	BelowTarget bool             `json:"below_target"`
}

// EvaluateAlerts computes the budget status of every project against the given
// revenue and expense rows. Per-project problems become notices and never stop
// the evaluation of the other projects.
func EvaluateAlerts(projects []model.Project, revenue []model.RevenueRecord, expenses []model.ExpenseRecord) ([]ProjectAlert, []model.Notice) {
	revenueBy := make(map[string]decimal.Decimal)
	for _, r := range revenue {
		revenueBy[r.Project] = revenueBy[r.Project].Add(r.Amount)
	}
	expenseBy := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		expenseBy[e.Project] = expenseBy[e.Project].Add(e.Amount)
	}

	alerts := make([]ProjectAlert, 0, len(projects))
	var notices []model.Notice

	for _, p := range projects {
		if blank(p.Budget) || blank(p.RevenueTarget) {
			notices = append(notices, model.Notice{
				Level:   model.NoticeWarning,
				Project: p.Code,
				Message: fmt.Sprintf("project %s has no revenue target or budget", p.Code),
			})
			continue
		}

		alert := ProjectAlert{
			Project: p.Code,
			Client:  p.Client,
			Revenue: revenueBy[p.Code],
			Expense: expenseBy[p.Code],
		}

		budget, err := money.ParseAmount("budget", *p.Budget)
		switch {
		case err != nil:
			notices = append(notices, model.Notice{
				Level:   model.NoticeWarning,
				Project: p.Code,
				Message: fmt.Sprintf("project %s budget is not a number: %v", p.Code, err),
			})
		case budget.IsPositive():
			alert.SpentRatio = alert.Expense.Div(budget).Mul(hundred)
		}
		alert.Status = StatusFor(alert.SpentRatio)
		alert.Color = alert.Status.Color()

		target, err := money.ParseAmount("revenue target", *p.RevenueTarget)
		if err != nil {
			notices = append(notices, model.Notice{
				Level:   model.NoticeWarning,
				Project: p.Code,
				Message: fmt.Sprintf("project %s has an invalid revenue target %q", p.Code, *p.RevenueTarget),
			})
		} else {
			alert.Target = &target
			if alert.Revenue.LessThan(target) {
				alert.BelowTarget = true
				notices = append(notices, model.Notice{
					Level:   model.NoticeWarning,
					Project: p.Code,
					Message: fmt.Sprintf("project %s revenue is below target (%s / %s)",
						p.Code, money.BRL(alert.Revenue), money.BRL(target)),
				})
			}
		}

		alerts = append(alerts, alert)
	}

	return alerts, notices
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

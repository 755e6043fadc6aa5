/*
calculator.go - Week and day orchestration

PURPOSE:
  The Calculator ties together rule resolution and the per-regime pipelines
  to produce weekly and daily breakdowns for a tenant. It is the single
  entry point callers should use; going straight to a rule variant skips
  the no-rule fallback for non-US tenants.

TWO OPERATIONS:
  CalculateWeek: The authoritative weekly figure, including California's
                 weekly combination reclassification.
  CalculateDay:  Daily buckets only, for display. Never includes weekly
                 reclassification; callers must not mistake it for the
                 final weekly-adjusted figure.
*/
package compliance

// Calculator produces overtime breakdowns for a tenant. Stateless; the zero
// value is ready to use.
type Calculator struct{}

func NewCalculator() *Calculator { return &Calculator{} }

// CalculateWeek classifies one workweek of daily hours under the tenant's
// regime. Raw values are clamped to non-negative before any bucketing.
// With no resolvable rule, all hours are regular.
func (c *Calculator) CalculateWeek(policy TenantPolicy, dayHoursByDate map[string]float64) WeekBreakdown {
	week := NewDailyHours(dayHoursByDate)
	total := week.Total()

	rule := Resolve(policy)
	if rule == nil {
		return WeekBreakdown{Total: total, Regular: total, Overtime15: ZeroHours(), Overtime20: ZeroHours()}
	}

	if ca, ok := rule.(CaliforniaRule); ok {
		return ca.CalculateWeek(week)
	}

	split := rule.SplitWeekHours(total)
	return WeekBreakdown{
		Total:      total,
		Regular:    split.Regular,
		Overtime15: split.Overtime,
		Overtime20: ZeroHours(),
	}
}

// CalculateDay classifies a single day's hours for display. Weekly-only
// regimes and unresolved jurisdictions report everything as regular.
func (c *Calculator) CalculateDay(policy TenantPolicy, dayHours float64) DaySplit {
	hours := NewHours(dayHours)
	rule := Resolve(policy)
	if rule == nil {
		return DaySplit{Regular: hours, Overtime15: ZeroHours(), Overtime20: ZeroHours()}
	}
	return rule.SplitDayHours(hours)
}

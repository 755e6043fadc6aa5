/*
california.go - California daily and 7th-consecutive-day overtime rules

PURPOSE:
  Implements California's layered overtime regime, the one genuinely hard
  rule set in the engine:

  1. Daily thresholds: first 8h regular, 8-12h at 1.5x, beyond 12h at 2.0x
  2. 7th consecutive day: when an employee works all seven days of the
     workweek, every hour on the seventh day is premium (first 8h at 1.5x,
     the rest at 2.0x, nothing regular)
  3. Weekly combination: after daily bucketing, straight-time hours beyond
     40 in the week move from the regular bucket into the 1.5x bucket.
     Hours the daily rules already classified as premium do not count
     toward the weekly 40, and the 2.0x bucket is never touched.

ORDER OF OPERATIONS (fixed):
  normalize -> daily bucketing -> 7th-day override -> week sums -> weekly
  reclassification. Reversing daily and weekly passes changes results and
  must not be done.

EXTENSIBILITY:
  The 7th-day qualifier and applier are strategy values on CaliforniaRule.
  The zero value uses the standard DLSE behavior; tests or future wage
  orders can swap either without touching the pipeline.

NOTE ON THE WEEKLY PASS:
  The reclassification is a pooled reallocation across the week; it does not
  trace which specific day's hours moved. This approximates DLSE guidance
  for multi-high-hour-day edge cases and is the defined behavior here.

SEE ALSO:
  - rule.go: OvertimeRule contract
  - calculator.go: Delegates the full weekly pipeline to this file
*/
package compliance

// Daily thresholds for the California regime.
const (
	caDailyRegularCap  = 8.0  // hours at straight time per day
	caDailyOvertimeCap = 12.0 // beyond this, double time
)

// =============================================================================
// 7TH-DAY STRATEGIES
// =============================================================================

// SeventhDayQualifier decides which date, if any, counts as the 7th
// consecutive working day of a normalized week.
type SeventhDayQualifier interface {
	// QualifyingDate returns the qualifying date and true, or "" and false
	// when no day qualifies.
	QualifyingDate(week DailyHours) (string, bool)
}

// SeventhDayApplier produces the pay split for a qualifying 7th day,
// replacing the normal daily split.
type SeventhDayApplier interface {
	Apply(day Hours) DaySplit
}

// StandardSeventhDayQualifier implements the DLSE qualification: a full
// seven-day window with hours on every day designates the last date in
// sorted order. Fewer than seven entries, or any zero-hour day, designates
// none.
type StandardSeventhDayQualifier struct{}

func (StandardSeventhDayQualifier) QualifyingDate(week DailyHours) (string, bool) {
	dates := week.SortedDates()
	if len(dates) < 7 {
		return "", false
	}
	for _, date := range dates {
		if !week[date].IsPositive() {
			return "", false
		}
	}
	return dates[len(dates)-1], true
}

// StandardSeventhDayApplier implements the DLSE split for a qualifying day:
// all hours are premium, the first 8 at 1.5x and the remainder at 2.0x.
type StandardSeventhDayApplier struct{}

func (StandardSeventhDayApplier) Apply(day Hours) DaySplit {
	cap8 := NewHours(caDailyRegularCap)
	return DaySplit{
		Regular:    ZeroHours(),
		Overtime15: day.Min(cap8),
		Overtime20: day.Sub(cap8),
	}
}

// =============================================================================
// CALIFORNIA RULE
// =============================================================================

// CaliforniaRule implements the California overtime regime. The zero value
// is ready to use with the standard 7th-day qualifier and applier.
type CaliforniaRule struct {
	Qualifier SeventhDayQualifier
	Applier   SeventhDayApplier
}

func (CaliforniaRule) Key() PolicyKey                  { return PolicyCalifornia }
func (CaliforniaRule) OvertimeThresholdHours() float64 { return WeeklyThresholdHours }
func (CaliforniaRule) OvertimeRateMultiplier() float64 { return OvertimeRateMultiplier }

func (CaliforniaRule) SplitWeekHours(total Hours) WeekSplit {
	return splitAtWeeklyThreshold(total)
}

// SplitDayHours applies the daily thresholds: min(8,h) regular,
// min(4, max(0,h-8)) at 1.5x, max(0,h-12) at 2.0x.
func (CaliforniaRule) SplitDayHours(day Hours) DaySplit {
	cap8 := NewHours(caDailyRegularCap)
	cap12 := NewHours(caDailyOvertimeCap)
	return DaySplit{
		Regular:    day.Min(cap8),
		Overtime15: day.Sub(cap8).Min(NewHours(caDailyOvertimeCap - caDailyRegularCap)),
		Overtime20: day.Sub(cap12),
	}
}

func (r CaliforniaRule) qualifier() SeventhDayQualifier {
	if r.Qualifier != nil {
		return r.Qualifier
	}
	return StandardSeventhDayQualifier{}
}

func (r CaliforniaRule) applier() SeventhDayApplier {
	if r.Applier != nil {
		return r.Applier
	}
	return StandardSeventhDayApplier{}
}

// CalculateWeek runs the full California weekly pipeline over normalized
// daily hours: per-day bucketing, 7th-day override, week sums, then the
// weekly combination reclassification.
func (r CaliforniaRule) CalculateWeek(week DailyHours) WeekBreakdown {
	seventhDay, hasSeventh := r.qualifier().QualifyingDate(week)

	breakdown := WeekBreakdown{
		Total:      ZeroHours(),
		Regular:    ZeroHours(),
		Overtime15: ZeroHours(),
		Overtime20: ZeroHours(),
	}

	for _, date := range week.SortedDates() {
		hours := week[date]
		var split DaySplit
		if hasSeventh && date == seventhDay {
			split = r.applier().Apply(hours)
		} else {
			split = r.SplitDayHours(hours)
		}
		breakdown.Total = breakdown.Total.Add(split.Total())
		breakdown.Regular = breakdown.Regular.Add(split.Regular)
		breakdown.Overtime15 = breakdown.Overtime15.Add(split.Overtime15)
		breakdown.Overtime20 = breakdown.Overtime20.Add(split.Overtime20)
	}

	return r.applyWeeklyCombination(breakdown)
}

// applyWeeklyCombination reclassifies straight-time hours beyond the weekly
// threshold into the 1.5x bucket. The daily rules already captured premium
// hours, so only the regular bucket counts toward the weekly 40 and only
// regular hours can move; the 2.0x bucket is never touched.
func (r CaliforniaRule) applyWeeklyCombination(b WeekBreakdown) WeekBreakdown {
	shift := b.Regular.Sub(NewHours(WeeklyThresholdHours))
	if shift.IsZero() {
		return b
	}
	b.Regular = b.Regular.Sub(shift)
	b.Overtime15 = b.Overtime15.Add(shift)
	return b
}

var _ OvertimeRule = CaliforniaRule{}

/*
rule.go - Overtime rule contract and weekly-only regimes

PURPOSE:
  Defines the OvertimeRule interface that every jurisdiction variant
  implements, plus the two weekly-only regimes (federal FLSA and New York)
  whose entire behavior is the 40-hour weekly threshold split.

REGIMES:
  FederalRule:    40h/week threshold, overtime at 1.5x. No daily rules.
  NewYorkRule:    Same arithmetic as federal; kept as a distinct variant
                  because the policy label and future divergence differ.
  CaliforniaRule: Daily thresholds, 7th-consecutive-day premium, and a
                  weekly combination pass. Defined in california.go.

  Variants are value types, not an inheritance hierarchy. Callers hold an
  OvertimeRule and never switch on the concrete type except the calculator,
  which needs to know whether the weekly pipeline applies.

SEE ALSO:
  - california.go: The daily-rule regime
  - resolver.go: Settings to variant mapping
*/
package compliance

// WeeklyThresholdHours is the FLSA weekly overtime threshold shared by all
// US regimes.
const WeeklyThresholdHours = 40.0

// OvertimeRateMultiplier is the standard overtime pay rate.
const OvertimeRateMultiplier = 1.5

// OvertimeRule classifies worked hours into pay buckets for one jurisdiction.
type OvertimeRule interface {
	// Key returns the canonical policy label for this regime.
	Key() PolicyKey

	// OvertimeThresholdHours returns the weekly overtime threshold.
	OvertimeThresholdHours() float64

	// OvertimeRateMultiplier returns the overtime pay rate.
	OvertimeRateMultiplier() float64

	// SplitWeekHours splits a weekly total at the 40-hour threshold:
	// overtime = max(0, total - 40), regular = total - overtime.
	SplitWeekHours(total Hours) WeekSplit

	// SplitDayHours classifies a single day's hours. Weekly-only regimes
	// have no daily overtime concept and return everything as regular.
	SplitDayHours(day Hours) DaySplit
}

// splitAtWeeklyThreshold implements the shared 40-hour split.
func splitAtWeeklyThreshold(total Hours) WeekSplit {
	threshold := NewHours(WeeklyThresholdHours)
	overtime := total.Sub(threshold) // Sub clamps at zero
	return WeekSplit{
		Regular:  total.Sub(overtime),
		Overtime: overtime,
		Rate:     OvertimeRateMultiplier,
	}
}

// =============================================================================
// FEDERAL (FLSA) - Weekly-only
// =============================================================================

// FederalRule implements the US federal FLSA regime: overtime is any time
// beyond 40 hours in the workweek, paid at 1.5x. No daily thresholds.
type FederalRule struct{}

func (FederalRule) Key() PolicyKey                  { return PolicyFederal }
func (FederalRule) OvertimeThresholdHours() float64 { return WeeklyThresholdHours }
func (FederalRule) OvertimeRateMultiplier() float64 { return OvertimeRateMultiplier }

func (FederalRule) SplitWeekHours(total Hours) WeekSplit {
	return splitAtWeeklyThreshold(total)
}

func (FederalRule) SplitDayHours(day Hours) DaySplit {
	return DaySplit{Regular: day, Overtime15: ZeroHours(), Overtime20: ZeroHours()}
}

// =============================================================================
// NEW YORK - Weekly-only
// =============================================================================

// NewYorkRule implements New York's weekly-only overtime regime. The
// arithmetic matches federal; the variant exists so the policy label and any
// future state-specific divergence stay isolated.
type NewYorkRule struct{}

func (NewYorkRule) Key() PolicyKey                  { return PolicyNewYork }
func (NewYorkRule) OvertimeThresholdHours() float64 { return WeeklyThresholdHours }
func (NewYorkRule) OvertimeRateMultiplier() float64 { return OvertimeRateMultiplier }

func (NewYorkRule) SplitWeekHours(total Hours) WeekSplit {
	return splitAtWeeklyThreshold(total)
}

func (NewYorkRule) SplitDayHours(day Hours) DaySplit {
	return DaySplit{Regular: day, Overtime15: ZeroHours(), Overtime20: ZeroHours()}
}

// Compile-time interface checks
var (
	_ OvertimeRule = FederalRule{}
	_ OvertimeRule = NewYorkRule{}
)

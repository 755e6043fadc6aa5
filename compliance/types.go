/*
Package compliance provides the core overtime calculation engine.

PURPOSE:
  This package contains the jurisdiction-agnostic types and algorithms for
  classifying worked hours into pay buckets. Whether a tenant operates under
  federal FLSA rules, California daily-overtime rules, or New York weekly
  rules, the same engine turns a map of date -> hours into a weekly
  regular/overtime/double-time breakdown.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: A non-negative hour quantity backed by decimal.Decimal
  - DailyHours: Mapping from ISO date to hours worked that day
  - DaySplit: One day's hours classified into pay buckets
  - WeekBreakdown: A full workweek's classified totals
  - TenantPolicy: Resolved per-tenant jurisdiction and workweek settings

DESIGN PRINCIPLES:
  1. Purity: Every calculation is a function of its inputs, no ambient state
  2. Precision: Uses decimal.Decimal to avoid floating-point drift
  3. Tolerance: Malformed hour values are clamped to zero, never rejected
  4. Freshness: TenantPolicy is recomputed per call, so setting changes take
     effect on the very next calculation

USAGE:
  policy := compliance.TenantPolicy{Region: "US", State: "CA", WeekStart: time.Monday}
  calc := compliance.NewCalculator()
  week := calc.CalculateWeek(policy, map[string]float64{
      "2025-03-03": 10, "2025-03-04": 8,
  })

SEE ALSO:
  - rule.go: OvertimeRule contract and weekly-only regimes
  - california.go: California daily and 7th-consecutive-day rules
  - resolver.go: Tenant settings to rule variant mapping
  - calculator.go: Week/day orchestration
*/
package compliance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Non-negative hour quantity
// =============================================================================

// Hours is an hour quantity. Construction clamps malformed input (negative,
// NaN, Inf) to zero: a day recorded with negative hours is treated as a
// zero-hour, non-working day.
type Hours struct {
	value decimal.Decimal
}

func NewHours(v float64) Hours {
	if v != v || v < 0 || v > 1e9 { // NaN, negative, or absurd (Inf) input
		return Hours{value: decimal.Zero}
	}
	return Hours{value: decimal.NewFromFloat(v)}
}

func HoursFromDecimal(d decimal.Decimal) Hours {
	if d.IsNegative() {
		return Hours{value: decimal.Zero}
	}
	return Hours{value: d}
}

func ZeroHours() Hours { return Hours{value: decimal.Zero} }

func (h Hours) Decimal() decimal.Decimal { return h.value }
func (h Hours) Float() float64           { f, _ := h.value.Float64(); return f }
func (h Hours) IsZero() bool             { return h.value.IsZero() }
func (h Hours) IsPositive() bool         { return h.value.IsPositive() }

func (h Hours) Add(o Hours) Hours          { return Hours{value: h.value.Add(o.value)} }
func (h Hours) Sub(o Hours) Hours          { return HoursFromDecimal(h.value.Sub(o.value)) }
func (h Hours) GreaterThan(o Hours) bool   { return h.value.GreaterThan(o.value) }
func (h Hours) LessThan(o Hours) bool      { return h.value.LessThan(o.value) }
func (h Hours) Equal(o Hours) bool         { return h.value.Equal(o.value) }
func (h Hours) Min(o Hours) Hours          { if h.LessThan(o) { return h }; return o }
func (h Hours) Max(o Hours) Hours          { if h.GreaterThan(o) { return h }; return o }
func (h Hours) String() string             { return h.value.String() }

// =============================================================================
// DAILY HOURS - Date-keyed input to the weekly pipeline
// =============================================================================

// DateFormat is the canonical ISO date layout for DailyHours keys.
const DateFormat = "2006-01-02"

// DailyHours maps an ISO date (YYYY-MM-DD) to hours worked on that day.
// Insertion order is irrelevant; the engine sorts by date internally.
type DailyHours map[string]Hours

// NewDailyHours builds a DailyHours from raw float input, clamping each value.
func NewDailyHours(raw map[string]float64) DailyHours {
	out := make(DailyHours, len(raw))
	for date, v := range raw {
		out[date] = NewHours(v)
	}
	return out
}

// SortedDates returns the map keys in ascending date order.
func (d DailyHours) SortedDates() []string {
	dates := make([]string, 0, len(d))
	for k := range d {
		dates = append(dates, k)
	}
	sort.Strings(dates)
	return dates
}

// Total sums all daily hours.
func (d DailyHours) Total() Hours {
	total := ZeroHours()
	for _, h := range d {
		total = total.Add(h)
	}
	return total
}

// =============================================================================
// PAY BUCKETS
// =============================================================================

// DaySplit classifies a single day's hours into pay buckets. Before weekly
// reclassification the buckets sum to the day's input total; afterwards the
// weekly combination rule may have moved some of the week's regular hours
// into the 1.5x bucket.
type DaySplit struct {
	Regular     Hours
	Overtime15  Hours // paid at 1.5x
	Overtime20  Hours // paid at 2.0x
}

func (s DaySplit) Total() Hours { return s.Regular.Add(s.Overtime15).Add(s.Overtime20) }

// WeekBreakdown holds classified totals for one workweek.
// Invariant: Total == Regular + Overtime15 + Overtime20.
type WeekBreakdown struct {
	Total      Hours
	Regular    Hours
	Overtime15 Hours
	Overtime20 Hours
}

// WeekSplit is the result of a weekly-only regime's 40-hour threshold split.
type WeekSplit struct {
	Regular  Hours
	Overtime Hours
	Rate     float64
}

// =============================================================================
// TENANT POLICY - Resolved jurisdiction and workweek settings
// =============================================================================

// PolicyKey is the canonical label for a tenant's overtime regime.
type PolicyKey string

const (
	PolicyCalifornia PolicyKey = "US-CA"
	PolicyNewYork    PolicyKey = "US-NY"
	PolicyFederal    PolicyKey = "US-FLSA"
	PolicyNonUS      PolicyKey = "NON-US"
)

// TenantPolicy is an immutable value object capturing a tenant's jurisdiction
// and workweek configuration at calculation time. It is recomputed from
// tenant settings on every call; nothing caches it across calls.
// Invariant: WeekEnd == WeekStart + 6 days (mod 7) unless explicitly
// overridden to another valid day.
type TenantPolicy struct {
	Region    string
	State     string
	WeekStart time.Weekday
	WeekEnd   time.Weekday
	Locale    string
}

// WeekStartIndex returns the workweek start as an index 0..6 (0 = Sunday).
func (p TenantPolicy) WeekStartIndex() int { return int(p.WeekStart) }

// WeekEndIndex returns the workweek end as an index 0..6 (0 = Sunday).
func (p TenantPolicy) WeekEndIndex() int { return int(p.WeekEnd) }

/*
week.go - Tenant workweek resolution

PURPOSE:
  Resolves which day starts and ends a tenant's workweek from raw settings.
  The workweek anchors weekly overtime calculations: grouping daily hours
  into the wrong window would shift which hours cross the 40-hour threshold.

RESOLUTION ORDER:
  1. Explicit tenant setting, if it names a valid day
  2. Locale default: Sunday start for US English, Monday otherwise
  End day is (start + 6) mod 7 unless explicitly overridden to a different
  valid day.

  There is no error path here. A tenant with garbage settings still gets a
  valid workweek via the locale fallback.

SEE ALSO:
  - factory/policy.go: Builds TenantPolicy from stored settings
  - calculator.go: Consumes the resolved workweek
*/
package compliance

import (
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// ParseWeekday parses a day name (case-insensitive, full or three-letter).
func ParseWeekday(s string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

// isUSEnglish reports whether a locale string denotes US English
// ("en-US", "en_US", bare "en" with US region implied by caller's default).
func isUSEnglish(locale string) bool {
	l := strings.ToLower(strings.TrimSpace(locale))
	l = strings.ReplaceAll(l, "_", "-")
	return l == "en-us" || l == "en"
}

// ResolveWeek resolves a tenant's workweek start and end days from raw
// settings. Always succeeds: invalid or missing settings fall back to the
// locale default (Sunday start for US English, Monday otherwise), and the
// end day defaults to start + 6.
func ResolveWeek(startSetting, endSetting, locale string) (time.Weekday, time.Weekday) {
	start, ok := ParseWeekday(startSetting)
	if !ok {
		if isUSEnglish(locale) {
			start = time.Sunday
		} else {
			start = time.Monday
		}
	}

	end := time.Weekday((int(start) + 6) % 7)
	if override, ok := ParseWeekday(endSetting); ok && override != start {
		end = override
	}
	return start, end
}

/*
Package scoring provides anomaly scorers for timesheet entries.

PURPOSE:
  Implements the timesheet.Scorer contract two ways:
  - Heuristic: a deterministic local scorer, always available
  - Remote: an HTTP client for an external scoring service

  The validation service treats scorers as optional collaborators: any
  scorer failure degrades to a validation result without an AI verdict.

SCORING MODEL:
  Scores are in [0, 1]. Entries at or above the flag threshold (0.5) are
  flagged for review. The heuristic accumulates weighted signals; the
  remote service returns its own score and feedback verbatim.

SEE ALSO:
  - timesheet/types.go: Scorer contract and AIVerdict
  - remote.go: HTTP-backed scorer
*/
package scoring

import (
	"context"
	"strings"
	"time"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/timesheet"
)

// FlagThreshold is the score at which an entry is flagged for review.
const FlagThreshold = 0.5

// Signal weights for the heuristic scorer.
const (
	weightCapBreach    = 0.35
	weightLongEntry    = 0.20
	weightOverlap      = 0.25
	weightNoDetail     = 0.15
	weightWeekend      = 0.10
	weightMissingTimes = 0.05
)

// Heuristic is a deterministic local scorer. It never fails and needs no
// network, making it the default when no remote service is configured.
type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

func (h *Heuristic) Score(ctx context.Context, snap timesheet.Snapshot) (timesheet.AIVerdict, error) {
	score := 0.0
	var feedback []string

	if snap.DailyTotal.GreaterThan(compliance.NewHours(timesheet.DefaultDailyHourCap)) {
		score += weightCapBreach
		feedback = append(feedback, "daily total exceeds the 12-hour cap")
	}
	if snap.Entry.HoursWorked >= 10 {
		score += weightLongEntry
		feedback = append(feedback, "entry is unusually long")
	}
	if snap.Overlap == timesheet.OverlapBlock {
		score += weightOverlap
		feedback = append(feedback, "entry overlaps another entry")
	}
	if len(strings.TrimSpace(snap.Entry.Description)) < 5 {
		score += weightNoDetail
		feedback = append(feedback, "description is missing or too short")
	}
	if isWeekend(snap.Entry.Date) {
		score += weightWeekend
		feedback = append(feedback, "work recorded on a weekend")
	}
	if !snap.Entry.HasInterval() {
		score += weightMissingTimes
		feedback = append(feedback, "no start/end times recorded")
	}

	if score > 1 {
		score = 1
	}
	return timesheet.AIVerdict{
		Flagged:  score >= FlagThreshold,
		Score:    score,
		Feedback: feedback,
	}, nil
}

func isWeekend(date string) bool {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

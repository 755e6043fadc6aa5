/*
validation.go - Timesheet entry validation service

PURPOSE:
  Runs every check a candidate entry must pass before acceptance, in one
  terminal pass with no retries:

  1. Daily total across the technician's entries for the date
  2. Overlap detection against siblings that carry start/end times
  3. Membership and project-activity flags (read by the caller)
  4. Warning accumulation
  5. Status determination: overlap and cap breaches are hard blocks,
     membership/activity issues are soft warnings
  6. Anomaly scoring via the optional Scorer, written back onto the entry
     only when the verdict changed

OVERLAP SEMANTICS:
  Half-open intervals with the standard rule
  new.start < existing.end AND existing.start < new.end.
  Boundary-touching intervals do not overlap. A candidate without both
  times yields an inconclusive warning, never a block.

CONCURRENCY:
  Two concurrent validations of overlapping entries can both observe a
  no-overlap state and both pass; the persistence layer owns cross-call
  atomicity. This service guarantees correct detection given a consistent
  read of the siblings.

SEE ALSO:
  - types.go: Entry, Snapshot, Result
  - scoring/: Scorer implementations
*/
package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/compliance-engine/compliance"
)

// DefaultDailyHourCap is the daily total beyond which an entry is blocked.
const DefaultDailyHourCap = 12.0

const clockFormat = "15:04"

// Validation warning messages. The controller layer surfaces these verbatim.
const (
	warnDailyCap      = "Daily total exceeds cap of 12h"
	warnOverlap       = "Entry overlaps an existing entry for this technician"
	warnOverlapUnsure = "Missing start/end time; overlap check is inconclusive"
	warnMembership    = "Technician is not a member of the project"
	warnInactive      = "Project is not active"
)

// Service validates candidate timesheet entries. Stateless between calls;
// Scorer and Writer are optional.
type Service struct {
	Scorer Scorer
	Writer AIWriter

	// DailyHourCap overrides DefaultDailyHourCap when positive.
	DailyHourCap float64
}

func NewService(scorer Scorer, writer AIWriter) *Service {
	return &Service{Scorer: scorer, Writer: writer}
}

func (s *Service) cap() compliance.Hours {
	if s.DailyHourCap > 0 {
		return compliance.NewHours(s.DailyHourCap)
	}
	return compliance.NewHours(DefaultDailyHourCap)
}

// Validate runs all checks for a candidate entry against its sibling
// entries (same technician, same date). Membership and activity are read
// by the caller; a missing project must be passed as membershipOk=false.
// Identical inputs always produce identical status and warnings.
func (s *Service) Validate(ctx context.Context, entry Entry, siblings []Entry, membershipOK, projectActive bool) Result {
	dailyTotal := s.dailyTotal(entry, siblings)
	overlap := s.detectOverlap(entry, siblings)

	snap := Snapshot{
		Entry:         entry,
		DailyTotal:    dailyTotal,
		Overlap:       overlap,
		MembershipOK:  membershipOK,
		ProjectActive: projectActive,
	}

	var warnings []string
	capBreached := dailyTotal.GreaterThan(s.cap())
	if capBreached {
		warnings = append(warnings, warnDailyCap)
	}
	switch overlap {
	case OverlapBlock:
		warnings = append(warnings, warnOverlap)
	case OverlapWarning:
		warnings = append(warnings, warnOverlapUnsure)
	}
	if !membershipOK {
		warnings = append(warnings, warnMembership)
	}
	if !projectActive {
		warnings = append(warnings, warnInactive)
	}

	status := StatusOK
	switch {
	case overlap == OverlapBlock || capBreached:
		status = StatusBlock
	case len(warnings) > 0:
		status = StatusWarning
	}

	result := Result{
		Status:   status,
		Warnings: warnings,
		Notes: map[string]string{
			"daily_total_hours": dailyTotal.String(),
			"overlap_risk":      string(overlap),
		},
		Snapshot: snap,
	}

	s.score(ctx, &result)
	return result
}

// dailyTotal sums hours across the technician's entries for the date,
// candidate included. A sibling sharing the candidate's ID is the stored
// version of an edited entry and is excluded to avoid double counting.
func (s *Service) dailyTotal(entry Entry, siblings []Entry) compliance.Hours {
	total := compliance.NewHours(entry.HoursWorked)
	for _, sib := range siblings {
		if sib.ID == entry.ID {
			continue
		}
		if sib.TechnicianID != entry.TechnicianID || sib.Date != entry.Date {
			continue
		}
		total = total.Add(compliance.NewHours(sib.HoursWorked))
	}
	return total
}

// detectOverlap checks the candidate's half-open interval against siblings
// that carry both times. Boundary-touching intervals do not overlap.
func (s *Service) detectOverlap(entry Entry, siblings []Entry) OverlapRisk {
	newStart, newEnd, ok := parseInterval(entry)
	if !ok {
		return OverlapWarning
	}

	for _, sib := range siblings {
		if sib.ID == entry.ID {
			continue
		}
		if sib.TechnicianID != entry.TechnicianID || sib.Date != entry.Date {
			continue
		}
		exStart, exEnd, ok := parseInterval(sib)
		if !ok {
			continue
		}
		if newStart < exEnd && exStart < newEnd {
			return OverlapBlock
		}
	}
	return OverlapOK
}

// parseInterval returns the entry's interval as minutes since midnight.
// Unparseable or missing times report not-ok, downgrading to a warning.
func parseInterval(e Entry) (startMin, endMin int, ok bool) {
	if !e.HasInterval() {
		return 0, 0, false
	}
	start, err := time.Parse(clockFormat, e.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, err := time.Parse(clockFormat, e.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return start.Hour()*60 + start.Minute(), end.Hour()*60 + end.Minute(), true
}

// score runs the anomaly pass. Scorer failures are swallowed: the result
// keeps its deterministic warnings and the AI field stays nil. The verdict
// is persisted only when it differs from the entry's stored one.
func (s *Service) score(ctx context.Context, result *Result) {
	if s.Scorer == nil {
		return
	}

	verdict, err := s.Scorer.Score(ctx, result.Snapshot)
	if err != nil {
		result.Notes["ai_error"] = err.Error()
		return
	}

	result.AI = &verdict
	result.Snapshot.AI = &verdict

	if s.Writer != nil && !verdict.Equal(result.Snapshot.Entry.AI) {
		if err := s.Writer.WriteAIVerdict(ctx, result.Snapshot.Entry.ID, verdict); err != nil {
			result.Notes["ai_persist_error"] = fmt.Sprintf("verdict not persisted: %v", err)
		}
	}
}

// Package timesheet implements timesheet entry validation on top of the
// compliance engine. It combines overlap detection, daily-hour caps, and
// project membership/activity checks into a single accept/warn/block
// decision, with an optional anomaly-scoring pass.
package timesheet

import (
	"context"

	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// TIMESHEET ENTRY
// =============================================================================

// Entry is a single timesheet line owned by a technician. This package
// consumes entries read-only; controllers elsewhere mutate them. Start and
// end times are "HH:MM" on the entry's date and may be empty when the
// technician recorded only a duration.
type Entry struct {
	ID           string
	TenantID     string
	TechnicianID string
	ProjectID    string
	TaskID       string
	LocationID   string
	Date         string // ISO YYYY-MM-DD
	StartTime    string // "HH:MM", optional
	EndTime      string // "HH:MM", optional
	HoursWorked  float64
	Description  string

	AI AIVerdict // last persisted anomaly verdict
}

// HasInterval reports whether the entry carries both start and end times.
func (e Entry) HasInterval() bool { return e.StartTime != "" && e.EndTime != "" }

// =============================================================================
// AI VERDICT
// =============================================================================

// AIVerdict is the anomaly-scoring collaborator's output for one entry.
type AIVerdict struct {
	Flagged  bool
	Score    float64 // in [0, 1]
	Feedback []string
}

// Equal reports whether two verdicts are identical, used for the dirty
// check before persisting.
func (v AIVerdict) Equal(o AIVerdict) bool {
	if v.Flagged != o.Flagged || v.Score != o.Score || len(v.Feedback) != len(o.Feedback) {
		return false
	}
	for i := range v.Feedback {
		if v.Feedback[i] != o.Feedback[i] {
			return false
		}
	}
	return true
}

// Scorer is the anomaly-scoring collaborator. Implementations live in the
// scoring package; the integrating layer must bound the call with a timeout.
// A Scorer failure never blocks validation.
type Scorer interface {
	Score(ctx context.Context, snap Snapshot) (AIVerdict, error)
}

// AIWriter persists a verdict back onto an entry's AI fields.
type AIWriter interface {
	WriteAIVerdict(ctx context.Context, entryID string, v AIVerdict) error
}

// =============================================================================
// VALIDATION OUTCOME
// =============================================================================

// Status is the terminal validation decision.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusBlock   Status = "block"
)

// OverlapRisk classifies the overlap check outcome. Missing times downgrade
// to warning, never block.
type OverlapRisk string

const (
	OverlapOK      OverlapRisk = "ok"
	OverlapWarning OverlapRisk = "warning"
	OverlapBlock   OverlapRisk = "block"
)

// Snapshot captures the entry's state at validation time plus the computed
// checks. Created fresh on every validation call and never mutated after
// the scoring pass completes.
type Snapshot struct {
	Entry          Entry
	DailyTotal     compliance.Hours
	Overlap        OverlapRisk
	MembershipOK   bool
	ProjectActive  bool
	AI             *AIVerdict // nil when the scorer was unavailable
}

// Result is the structured outcome of one validation call. It is not
// persisted; callers persist only the AI fields back onto the entry.
type Result struct {
	Status   Status
	Warnings []string
	Notes    map[string]string
	Snapshot Snapshot
	AI       *AIVerdict // nil when the scorer was unavailable
}

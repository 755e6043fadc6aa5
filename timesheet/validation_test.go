package timesheet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compliance-engine/timesheet"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func entry(id, start, end string, hours float64) timesheet.Entry {
	return timesheet.Entry{
		ID:           id,
		TenantID:     "tenant-1",
		TechnicianID: "tech-1",
		ProjectID:    "proj-1",
		Date:         "2025-03-10",
		StartTime:    start,
		EndTime:      end,
		HoursWorked:  hours,
		Description:  "field service call",
	}
}

// fakeScorer returns a fixed verdict or error.
type fakeScorer struct {
	verdict timesheet.AIVerdict
	err     error
	calls   int
}

func (f *fakeScorer) Score(ctx context.Context, snap timesheet.Snapshot) (timesheet.AIVerdict, error) {
	f.calls++
	return f.verdict, f.err
}

// fakeWriter records verdict writes.
type fakeWriter struct {
	writes  int
	lastID  string
	failure error
}

func (f *fakeWriter) WriteAIVerdict(ctx context.Context, entryID string, v timesheet.AIVerdict) error {
	f.writes++
	f.lastID = entryID
	return f.failure
}

// =============================================================================
// OVERLAP DETECTION
// =============================================================================

func TestValidate_BoundaryTouchingIntervals_DoNotOverlap(t *testing.T) {
	// GIVEN: An existing 09:00-10:00 entry
	// WHEN: Validating a 10:00-11:00 entry for the same technician/date
	// THEN: No overlap; equal end/start boundaries do not intersect

	svc := timesheet.NewService(nil, nil)
	siblings := []timesheet.Entry{entry("existing", "09:00", "10:00", 1)}

	result := svc.Validate(context.Background(), entry("new", "10:00", "11:00", 1), siblings, true, true)

	assert.Equal(t, timesheet.StatusOK, result.Status)
	assert.Equal(t, timesheet.OverlapOK, result.Snapshot.Overlap)
	assert.Empty(t, result.Warnings)
}

func TestValidate_OneMinuteIntersection_Blocks(t *testing.T) {
	// GIVEN: An existing 10:00-11:00 entry
	// WHEN: Validating a 09:00-10:01 entry
	// THEN: Block; the intervals share one minute

	svc := timesheet.NewService(nil, nil)
	siblings := []timesheet.Entry{entry("existing", "10:00", "11:00", 1)}

	result := svc.Validate(context.Background(), entry("new", "09:00", "10:01", 1), siblings, true, true)

	assert.Equal(t, timesheet.StatusBlock, result.Status)
	assert.Equal(t, timesheet.OverlapBlock, result.Snapshot.Overlap)
	assert.Contains(t, result.Warnings, "Entry overlaps an existing entry for this technician")
}

func TestValidate_MissingTimes_InconclusiveWarning(t *testing.T) {
	// GIVEN: A candidate without start/end times
	// WHEN: Validating against siblings that do have times
	// THEN: Warning, never block

	svc := timesheet.NewService(nil, nil)
	siblings := []timesheet.Entry{entry("existing", "09:00", "17:00", 8)}

	result := svc.Validate(context.Background(), entry("new", "", "", 2), siblings, true, true)

	assert.Equal(t, timesheet.StatusWarning, result.Status)
	assert.Equal(t, timesheet.OverlapWarning, result.Snapshot.Overlap)
}

func TestValidate_SiblingWithoutTimes_Skipped(t *testing.T) {
	svc := timesheet.NewService(nil, nil)
	siblings := []timesheet.Entry{entry("existing", "", "", 4)}

	result := svc.Validate(context.Background(), entry("new", "09:00", "11:00", 2), siblings, true, true)

	assert.Equal(t, timesheet.OverlapOK, result.Snapshot.Overlap)
	assert.Equal(t, timesheet.StatusOK, result.Status)
}

func TestValidate_OtherTechnicianOrDate_Ignored(t *testing.T) {
	svc := timesheet.NewService(nil, nil)

	otherTech := entry("a", "09:00", "17:00", 8)
	otherTech.TechnicianID = "tech-2"
	otherDate := entry("b", "09:00", "17:00", 8)
	otherDate.Date = "2025-03-11"

	result := svc.Validate(context.Background(), entry("new", "09:00", "11:00", 2),
		[]timesheet.Entry{otherTech, otherDate}, true, true)

	assert.Equal(t, timesheet.StatusOK, result.Status)
}

// =============================================================================
// DAILY CAP
// =============================================================================

func TestValidate_DailyTotalBeyondCap_Blocks(t *testing.T) {
	// GIVEN: 8 hours already recorded for the day
	// WHEN: Validating a 6-hour entry (14h total)
	// THEN: Block with the cap warning present

	svc := timesheet.NewService(nil, nil)
	siblings := []timesheet.Entry{entry("existing", "", "", 8)}

	candidate := entry("new", "", "", 6)
	result := svc.Validate(context.Background(), candidate, siblings, true, true)

	assert.Equal(t, timesheet.StatusBlock, result.Status)
	assert.Contains(t, result.Warnings, "Daily total exceeds cap of 12h")
	assert.Equal(t, "14", result.Notes["daily_total_hours"])
}

func TestValidate_DailyTotalAtCap_NoBlock(t *testing.T) {
	svc := timesheet.NewService(nil, nil)
	siblings := []timesheet.Entry{entry("existing", "", "", 8)}

	result := svc.Validate(context.Background(), entry("new", "09:00", "13:00", 4), siblings, true, true)

	// 12h exactly does not breach the cap; only the sibling's missing-time
	// entries would warn, and this candidate has times.
	assert.NotEqual(t, timesheet.StatusBlock, result.Status)
	assert.NotContains(t, result.Warnings, "Daily total exceeds cap of 12h")
}

func TestValidate_EditedEntry_NotDoubleCounted(t *testing.T) {
	// GIVEN: The candidate is an edit of an already-stored entry
	// WHEN: The stored version appears among siblings under the same ID
	// THEN: Its hours are not counted twice

	svc := timesheet.NewService(nil, nil)
	stored := entry("entry-1", "09:00", "17:00", 8)

	edited := stored
	edited.HoursWorked = 9
	edited.EndTime = "18:00"

	result := svc.Validate(context.Background(), edited, []timesheet.Entry{stored}, true, true)

	assert.Equal(t, "9", result.Notes["daily_total_hours"])
	assert.Equal(t, timesheet.StatusOK, result.Status)
}

// =============================================================================
// MEMBERSHIP AND ACTIVITY
// =============================================================================

func TestValidate_MembershipAndActivity_SoftWarningsOnly(t *testing.T) {
	svc := timesheet.NewService(nil, nil)

	result := svc.Validate(context.Background(), entry("new", "09:00", "11:00", 2), nil, false, false)

	assert.Equal(t, timesheet.StatusWarning, result.Status)
	assert.Contains(t, result.Warnings, "Technician is not a member of the project")
	assert.Contains(t, result.Warnings, "Project is not active")
	assert.False(t, result.Snapshot.MembershipOK)
	assert.False(t, result.Snapshot.ProjectActive)
}

// =============================================================================
// STATUS DETERMINATION AND IDEMPOTENCE
// =============================================================================

func TestValidate_CleanEntry_OK(t *testing.T) {
	svc := timesheet.NewService(nil, nil)

	result := svc.Validate(context.Background(), entry("new", "09:00", "17:00", 8), nil, true, true)

	assert.Equal(t, timesheet.StatusOK, result.Status)
	assert.Empty(t, result.Warnings)
}

func TestValidate_Idempotent(t *testing.T) {
	// GIVEN: Identical inputs
	// WHEN: Validating twice
	// THEN: Identical status and warnings

	svc := timesheet.NewService(nil, nil)
	siblings := []timesheet.Entry{entry("existing", "09:00", "12:00", 3)}
	candidate := entry("new", "11:00", "15:00", 4)

	first := svc.Validate(context.Background(), candidate, siblings, false, true)
	second := svc.Validate(context.Background(), candidate, siblings, false, true)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Warnings, second.Warnings)
}

// =============================================================================
// AI SCORING PASS
// =============================================================================

func TestValidate_ScorerVerdict_MergedAndPersisted(t *testing.T) {
	scorer := &fakeScorer{verdict: timesheet.AIVerdict{Flagged: true, Score: 0.8, Feedback: []string{"unusually long day"}}}
	writer := &fakeWriter{}
	svc := timesheet.NewService(scorer, writer)

	result := svc.Validate(context.Background(), entry("entry-1", "09:00", "17:00", 8), nil, true, true)

	require.NotNil(t, result.AI)
	assert.True(t, result.AI.Flagged)
	assert.Equal(t, 0.8, result.AI.Score)
	assert.Equal(t, 1, writer.writes)
	assert.Equal(t, "entry-1", writer.lastID)
}

func TestValidate_UnchangedVerdict_NotRewritten(t *testing.T) {
	// GIVEN: The entry already carries the verdict the scorer returns
	// WHEN: Validating
	// THEN: The dirty check suppresses the redundant write

	verdict := timesheet.AIVerdict{Flagged: false, Score: 0.2, Feedback: []string{"looks routine"}}
	scorer := &fakeScorer{verdict: verdict}
	writer := &fakeWriter{}
	svc := timesheet.NewService(scorer, writer)

	candidate := entry("entry-1", "09:00", "17:00", 8)
	candidate.AI = verdict

	result := svc.Validate(context.Background(), candidate, nil, true, true)

	require.NotNil(t, result.AI)
	assert.Equal(t, 0, writer.writes)
}

func TestValidate_ScorerFailure_DegradesGracefully(t *testing.T) {
	// GIVEN: An unreachable scoring collaborator
	// WHEN: Validating an otherwise clean entry
	// THEN: Deterministic result stands, AI field omitted

	scorer := &fakeScorer{err: errors.New("connection refused")}
	writer := &fakeWriter{}
	svc := timesheet.NewService(scorer, writer)

	result := svc.Validate(context.Background(), entry("new", "09:00", "17:00", 8), nil, true, true)

	assert.Equal(t, timesheet.StatusOK, result.Status)
	assert.Nil(t, result.AI)
	assert.Equal(t, 0, writer.writes)
	assert.Contains(t, result.Notes["ai_error"], "connection refused")
}

func TestValidate_WriterFailure_DoesNotBlock(t *testing.T) {
	scorer := &fakeScorer{verdict: timesheet.AIVerdict{Score: 0.9, Flagged: true}}
	writer := &fakeWriter{failure: errors.New("disk full")}
	svc := timesheet.NewService(scorer, writer)

	result := svc.Validate(context.Background(), entry("new", "09:00", "17:00", 8), nil, true, true)

	assert.Equal(t, timesheet.StatusOK, result.Status)
	require.NotNil(t, result.AI)
	assert.Contains(t, result.Notes["ai_persist_error"], "disk full")
}

/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model (decimal-backed hours, typed statuses) from the
  external API contract, which speaks plain floats and strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - compliance/types.go: Domain counterparts
*/
package api

import (
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/timesheet"
)

// =============================================================================
// TENANT POLICY
// =============================================================================

// TenantPolicyDTO describes a tenant's resolved overtime regime and workweek.
type TenantPolicyDTO struct {
	TenantID  string `json:"tenant_id"`
	PolicyKey string `json:"policy_key"`
	Region    string `json:"region"`
	State     string `json:"state,omitempty"`
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	Locale    string `json:"locale,omitempty"`
}

// UpdateSettingsRequest carries tenant settings rows to upsert.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings"`
}

// =============================================================================
// OVERTIME CALCULATION
// =============================================================================

// CalculateWeekRequest maps ISO dates to hours worked.
type CalculateWeekRequest struct {
	DayHours map[string]float64 `json:"day_hours"`
}

// CalculateDayRequest carries a single day's hours.
type CalculateDayRequest struct {
	Hours float64 `json:"hours"`
}

// WeekBreakdownDTO is a workweek's classified totals.
type WeekBreakdownDTO struct {
	PolicyKey   string  `json:"policy_key"`
	Total       float64 `json:"total_hours"`
	Regular     float64 `json:"regular_hours"`
	Overtime15  float64 `json:"overtime_hours_1_5"`
	Overtime20  float64 `json:"overtime_hours_2_0"`
}

// DaySplitDTO is a single day's classified buckets (display only; no weekly
// reclassification).
type DaySplitDTO struct {
	PolicyKey  string  `json:"policy_key"`
	Regular    float64 `json:"regular_hours"`
	Overtime15 float64 `json:"overtime_hours_1_5"`
	Overtime20 float64 `json:"overtime_hours_2_0"`
}

func toWeekDTO(key compliance.PolicyKey, b compliance.WeekBreakdown) WeekBreakdownDTO {
	return WeekBreakdownDTO{
		PolicyKey:  string(key),
		Total:      b.Total.Float(),
		Regular:    b.Regular.Float(),
		Overtime15: b.Overtime15.Float(),
		Overtime20: b.Overtime20.Float(),
	}
}

func toDayDTO(key compliance.PolicyKey, s compliance.DaySplit) DaySplitDTO {
	return DaySplitDTO{
		PolicyKey:  string(key),
		Regular:    s.Regular.Float(),
		Overtime15: s.Overtime15.Float(),
		Overtime20: s.Overtime20.Float(),
	}
}

// =============================================================================
// TIMESHEET ENTRIES AND VALIDATION
// =============================================================================

// EntryDTO represents a timesheet entry in API traffic.
type EntryDTO struct {
	ID           string   `json:"id"`
	TenantID     string   `json:"tenant_id"`
	TechnicianID string   `json:"technician_id"`
	ProjectID    string   `json:"project_id"`
	TaskID       string   `json:"task_id,omitempty"`
	LocationID   string   `json:"location_id,omitempty"`
	Date         string   `json:"date"`
	StartTime    string   `json:"start_time,omitempty"`
	EndTime      string   `json:"end_time,omitempty"`
	HoursWorked  float64  `json:"hours_worked"`
	Description  string   `json:"description,omitempty"`
	AIFlagged    bool     `json:"ai_flagged"`
	AIScore      float64  `json:"ai_score"`
	AIFeedback   []string `json:"ai_feedback,omitempty"`
}

func toEntryDTO(e timesheet.Entry) EntryDTO {
	return EntryDTO{
		ID:           e.ID,
		TenantID:     e.TenantID,
		TechnicianID: e.TechnicianID,
		ProjectID:    e.ProjectID,
		TaskID:       e.TaskID,
		LocationID:   e.LocationID,
		Date:         e.Date,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		HoursWorked:  e.HoursWorked,
		Description:  e.Description,
		AIFlagged:    e.AI.Flagged,
		AIScore:      e.AI.Score,
		AIFeedback:   e.AI.Feedback,
	}
}

func (d EntryDTO) toEntry() timesheet.Entry {
	return timesheet.Entry{
		ID:           d.ID,
		TenantID:     d.TenantID,
		TechnicianID: d.TechnicianID,
		ProjectID:    d.ProjectID,
		TaskID:       d.TaskID,
		LocationID:   d.LocationID,
		Date:         d.Date,
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		HoursWorked:  d.HoursWorked,
		Description:  d.Description,
		AI: timesheet.AIVerdict{
			Flagged:  d.AIFlagged,
			Score:    d.AIScore,
			Feedback: d.AIFeedback,
		},
	}
}

// AIVerdictDTO is the anomaly verdict merged into validation responses.
type AIVerdictDTO struct {
	Flagged  bool     `json:"flagged"`
	Score    float64  `json:"score"`
	Feedback []string `json:"feedback"`
}

// SnapshotDTO is the computed validation snapshot.
type SnapshotDTO struct {
	DailyTotalHours float64 `json:"daily_total_hours"`
	OverlapRisk     string  `json:"overlap_risk"`
	MembershipOK    bool    `json:"membership_ok"`
	ProjectActive   bool    `json:"project_active"`
}

// ValidationResultDTO is the response for a validation call.
type ValidationResultDTO struct {
	Status   string            `json:"status"`
	Warnings []string          `json:"warnings"`
	Notes    map[string]string `json:"notes,omitempty"`
	Snapshot SnapshotDTO       `json:"snapshot"`
	AI       *AIVerdictDTO     `json:"ai,omitempty"`
	Entry    *EntryDTO         `json:"entry,omitempty"`
}

func toValidationDTO(r timesheet.Result) ValidationResultDTO {
	dto := ValidationResultDTO{
		Status:   string(r.Status),
		Warnings: r.Warnings,
		Notes:    r.Notes,
		Snapshot: SnapshotDTO{
			DailyTotalHours: r.Snapshot.DailyTotal.Float(),
			OverlapRisk:     string(r.Snapshot.Overlap),
			MembershipOK:    r.Snapshot.MembershipOK,
			ProjectActive:   r.Snapshot.ProjectActive,
		},
	}
	if dto.Warnings == nil {
		dto.Warnings = []string{}
	}
	if r.AI != nil {
		dto.AI = &AIVerdictDTO{Flagged: r.AI.Flagged, Score: r.AI.Score, Feedback: r.AI.Feedback}
	}
	return dto
}

// ProjectDTO represents a project record.
type ProjectDTO struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

/*
handlers.go - HTTP API handlers for the compliance engine

PURPOSE:
  Exposes overtime calculation and timesheet validation via REST. Handles
  HTTP request/response and JSON serialization, delegating all decisions
  to the compliance and timesheet packages.

ENDPOINTS:
  Tenants:
    GET    /api/tenants/{id}/policy          Resolved policy key + workweek
    PUT    /api/tenants/{id}/settings        Upsert settings rows
    POST   /api/tenants/{id}/overtime/week   Weekly breakdown
    POST   /api/tenants/{id}/overtime/day    Daily split (display only)

  Timesheets:
    POST   /api/timesheets/validate          Validate without persisting
    POST   /api/timesheets                   Validate, then save unless blocked
    GET    /api/timesheets                   List by technician_id + date

  Projects:
    GET    /api/projects                     List by tenant_id

REQUEST FLOW:
  1. Parse HTTP request
  2. Re-read tenant settings (no policy caching; changes apply immediately)
  3. Call domain logic
  4. Serialize response

ERROR HANDLING:
  - 400: Malformed input
  - 404: Unknown entry
  - 409: Validation blocked a create
  - 502: Membership/activity reader failure (required inputs)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/store/sqlite"
	"github.com/warp/compliance-engine/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Factory    *factory.PolicyFactory
	Calculator *compliance.Calculator
	Validator  *timesheet.Service
}

// NewHandler creates a handler. The validator's scorer may be nil, in which
// case validation responses carry no AI verdict.
func NewHandler(store *sqlite.Store, validator *timesheet.Service) *Handler {
	return &Handler{
		Store:      store,
		Factory:    factory.NewPolicyFactory(),
		Calculator: compliance.NewCalculator(),
		Validator:  validator,
	}
}

// tenantPolicy re-reads settings and builds the policy. Called per request
// so setting changes take effect on the next call.
func (h *Handler) tenantPolicy(r *http.Request, tenantID string) (compliance.TenantPolicy, error) {
	settings, err := h.Store.TenantSettings(r.Context(), tenantID)
	if err != nil {
		return compliance.TenantPolicy{}, err
	}
	return h.Factory.FromMap(settings), nil
}

// =============================================================================
// TENANT HANDLERS
// =============================================================================

// GetTenantPolicy returns the tenant's resolved policy key and workweek.
func (h *Handler) GetTenantPolicy(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")

	policy, err := h.tenantPolicy(r, tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read tenant settings", err)
		return
	}

	writeJSON(w, http.StatusOK, TenantPolicyDTO{
		TenantID:  tenantID,
		PolicyKey: string(compliance.ResolvePolicyKey(policy)),
		Region:    policy.Region,
		State:     policy.State,
		WeekStart: policy.WeekStart.String(),
		WeekEnd:   policy.WeekEnd.String(),
		Locale:    policy.Locale,
	})
}

// UpdateTenantSettings upserts settings rows for a tenant.
func (h *Handler) UpdateTenantSettings(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for key, value := range req.Settings {
		if err := h.Store.SaveSetting(r.Context(), tenantID, key, value); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting", err)
			return
		}
	}
	h.GetTenantPolicy(w, r)
}

// CalculateWeek classifies a week of daily hours under the tenant's regime.
func (h *Handler) CalculateWeek(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")

	var req CalculateWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy, err := h.tenantPolicy(r, tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read tenant settings", err)
		return
	}

	breakdown := h.Calculator.CalculateWeek(policy, req.DayHours)
	writeJSON(w, http.StatusOK, toWeekDTO(compliance.ResolvePolicyKey(policy), breakdown))
}

// CalculateDay classifies a single day's hours for display.
func (h *Handler) CalculateDay(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")

	var req CalculateDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy, err := h.tenantPolicy(r, tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read tenant settings", err)
		return
	}

	split := h.Calculator.CalculateDay(policy, req.Hours)
	writeJSON(w, http.StatusOK, toDayDTO(compliance.ResolvePolicyKey(policy), split))
}

// =============================================================================
// TIMESHEET HANDLERS
// =============================================================================

// validateEntry runs the full validation flow for a candidate entry:
// sibling read, membership/activity read, then the validation service.
func (h *Handler) validateEntry(w http.ResponseWriter, r *http.Request, entry timesheet.Entry) (timesheet.Result, bool) {
	ctx := r.Context()

	siblings, err := h.Store.ListEntriesForDay(ctx, entry.TechnicianID, entry.Date)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to read sibling entries", err)
		return timesheet.Result{}, false
	}

	// Membership and activity readers are required inputs: failures
	// propagate instead of degrading to warnings.
	membershipOK, err := h.Store.IsMember(ctx, entry.ProjectID, entry.TechnicianID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to read project membership", err)
		return timesheet.Result{}, false
	}
	projectActive, err := h.Store.IsActive(ctx, entry.ProjectID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to read project status", err)
		return timesheet.Result{}, false
	}

	return h.Validator.Validate(ctx, entry, siblings, membershipOK, projectActive), true
}

// ValidateTimesheet validates a candidate entry without persisting it.
func (h *Handler) ValidateTimesheet(w http.ResponseWriter, r *http.Request) {
	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.TechnicianID == "" || dto.Date == "" {
		writeError(w, http.StatusBadRequest, "technician_id and date are required", nil)
		return
	}

	result, ok := h.validateEntry(w, r, dto.toEntry())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toValidationDTO(result))
}

// CreateTimesheet validates and, unless blocked, persists a new entry.
func (h *Handler) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" || dto.TechnicianID == "" || dto.Date == "" {
		writeError(w, http.StatusBadRequest, "id, technician_id and date are required", nil)
		return
	}

	entry := dto.toEntry()
	result, ok := h.validateEntry(w, r, entry)
	if !ok {
		return
	}

	response := toValidationDTO(result)
	if result.Status == timesheet.StatusBlock {
		writeJSON(w, http.StatusConflict, response)
		return
	}

	if result.AI != nil {
		entry.AI = *result.AI
	}
	if err := h.Store.SaveEntry(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save entry", err)
		return
	}

	saved := toEntryDTO(entry)
	response.Entry = &saved
	writeJSON(w, http.StatusCreated, response)
}

// ListTimesheets returns one technician's entries for a date.
func (h *Handler) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	technicianID := r.URL.Query().Get("technician_id")
	date := r.URL.Query().Get("date")
	if technicianID == "" || date == "" {
		writeError(w, http.StatusBadRequest, "technician_id and date query parameters are required", nil)
		return
	}

	entries, err := h.Store.ListEntriesForDay(r.Context(), technicianID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTimesheet returns one entry by ID.
func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Store.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get entry", err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Entry not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns all projects for a tenant.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id query parameter is required", nil)
		return
	}

	projects, err := h.Store.ListProjects(r.Context(), tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ProjectDTO{ID: p.ID, TenantID: p.TenantID, Name: p.Name, Status: p.Status}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

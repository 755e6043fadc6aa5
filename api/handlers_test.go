/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Tenant policy resolution over HTTP
- Weekly overtime calculation for a seeded California tenant
- Validation and create flows (block on overlap, soft membership warnings)
- Settings changes taking effect on the next request
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/warp/compliance-engine/scoring"
	"github.com/warp/compliance-engine/store/sqlite"
	"github.com/warp/compliance-engine/timesheet"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	validator := timesheet.NewService(scoring.NewHeuristic(), store)
	srv := httptest.NewServer(NewRouter(NewHandler(store, validator)))
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}

func TestGetTenantPolicy_SeededCaliforniaTenant(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/tenants/tenant-ca/policy")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	dto := decode[TenantPolicyDTO](t, resp)
	if dto.PolicyKey != "US-CA" {
		t.Errorf("expected US-CA, got %s", dto.PolicyKey)
	}
	if dto.WeekStart != "Monday" {
		t.Errorf("expected Monday start from explicit setting, got %s", dto.WeekStart)
	}
}

func TestCalculateWeek_California_SeventhDayScenario(t *testing.T) {
	// GIVEN: The seeded CA tenant and a fully-worked Mon-Sun week
	// WHEN: Requesting the weekly breakdown
	// THEN: 40 regular, 12 at 1.5x after the weekly combination pass

	srv, _ := newTestServer(t)

	week := map[string]float64{
		"2025-03-03": 8, "2025-03-04": 8, "2025-03-05": 8, "2025-03-06": 8,
		"2025-03-07": 8, "2025-03-08": 8, "2025-03-09": 4,
	}
	resp := postJSON(t, srv.URL+"/api/tenants/tenant-ca/overtime/week", CalculateWeekRequest{DayHours: week})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	dto := decode[WeekBreakdownDTO](t, resp)
	if dto.Regular != 40 || dto.Overtime15 != 12 || dto.Overtime20 != 0 {
		t.Errorf("unexpected breakdown: %+v", dto)
	}
	if dto.Total != 52 {
		t.Errorf("expected 52 total, got %v", dto.Total)
	}
}

func TestCalculateDay_Federal_AllRegular(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/tenants/tenant-tx/overtime/day", CalculateDayRequest{Hours: 13})
	dto := decode[DaySplitDTO](t, resp)

	if dto.PolicyKey != "US-FLSA" {
		t.Errorf("expected US-FLSA, got %s", dto.PolicyKey)
	}
	if dto.Regular != 13 || dto.Overtime15 != 0 {
		t.Errorf("weekly-only regime should report all regular: %+v", dto)
	}
}

func TestCreateTimesheet_OverlapBlocked(t *testing.T) {
	// GIVEN: Seeded entry-1 covers 08:00-16:00 for tech-ana on 2025-03-10
	// WHEN: Creating an overlapping entry
	// THEN: 409 with block status; nothing is persisted

	srv, store := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/timesheets/", EntryDTO{
		ID: "entry-new", TenantID: "tenant-ca", TechnicianID: "tech-ana",
		ProjectID: "proj-hvac", Date: "2025-03-10",
		StartTime: "15:00", EndTime: "17:00", HoursWorked: 2,
		Description: "filter swap",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	dto := decode[ValidationResultDTO](t, resp)
	if dto.Status != "block" {
		t.Errorf("expected block, got %s", dto.Status)
	}

	saved, err := store.GetEntry(context.Background(), "entry-new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved != nil {
		t.Error("blocked entry must not be persisted")
	}
}

func TestCreateTimesheet_BoundaryTouch_Created(t *testing.T) {
	srv, store := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/timesheets/", EntryDTO{
		ID: "entry-adjacent", TenantID: "tenant-ca", TechnicianID: "tech-ana",
		ProjectID: "proj-hvac", Date: "2025-03-10",
		StartTime: "16:00", EndTime: "18:00", HoursWorked: 2,
		Description: "evening inspection",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for boundary-touching entry, got %d", resp.StatusCode)
	}

	saved, err := store.GetEntry(context.Background(), "entry-adjacent")
	if err != nil || saved == nil {
		t.Fatalf("expected persisted entry, got %v / %v", saved, err)
	}
}

func TestValidateTimesheet_NonMember_SoftWarning(t *testing.T) {
	// GIVEN: tech-cy is not a member of proj-hvac
	// WHEN: Validating an entry against that project
	// THEN: Warning status, not a block, and the membership warning is present

	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/timesheets/validate", EntryDTO{
		ID: "entry-x", TenantID: "tenant-ca", TechnicianID: "tech-cy",
		ProjectID: "proj-hvac", Date: "2025-03-12",
		StartTime: "09:00", EndTime: "11:00", HoursWorked: 2,
		Description: "cross-team assist",
	})
	dto := decode[ValidationResultDTO](t, resp)

	if dto.Status != "warning" {
		t.Errorf("expected warning, got %s", dto.Status)
	}
	found := false
	for _, warning := range dto.Warnings {
		if warning == "Technician is not a member of the project" {
			found = true
		}
	}
	if !found {
		t.Errorf("membership warning missing: %v", dto.Warnings)
	}
	if dto.Snapshot.MembershipOK {
		t.Errorf("snapshot should record membership_ok=false: %+v", dto.Snapshot)
	}
}

func TestValidateTimesheet_UnknownProject_NotOKButNotBlocked(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/timesheets/validate", EntryDTO{
		ID: "entry-y", TenantID: "tenant-ca", TechnicianID: "tech-ana",
		ProjectID: "proj-ghost", Date: "2025-03-12",
		StartTime: "09:00", EndTime: "11:00", HoursWorked: 2,
		Description: "mystery work",
	})
	dto := decode[ValidationResultDTO](t, resp)

	if dto.Status != "warning" {
		t.Errorf("expected warning for unknown project, got %s", dto.Status)
	}
	if dto.Snapshot.MembershipOK || dto.Snapshot.ProjectActive {
		t.Errorf("unknown project should be not-ok and inactive: %+v", dto.Snapshot)
	}
}

func TestUpdateSettings_TakesEffectImmediately(t *testing.T) {
	// GIVEN: The seeded Texas (federal) tenant
	// WHEN: Switching its state to CA
	// THEN: The very next policy read resolves US-CA; no cache to invalidate

	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/tenants/tenant-tx/settings",
		bytes.NewReader([]byte(`{"settings":{"state":"CA"}}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	dto := decode[TenantPolicyDTO](t, resp)
	if dto.PolicyKey != "US-CA" {
		t.Errorf("expected US-CA after settings change, got %s", dto.PolicyKey)
	}
}

func TestCreateTimesheet_PersistsAIVerdict(t *testing.T) {
	// GIVEN: An anomalous entry (long day, no times, thin description)
	// WHEN: Creating it
	// THEN: The heuristic verdict is written onto the stored entry

	srv, store := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/timesheets/", EntryDTO{
		ID: "entry-anomalous", TenantID: "tenant-ca", TechnicianID: "tech-bo",
		ProjectID: "proj-hvac", Date: "2025-03-15", // a Saturday
		HoursWorked: 11, Description: "x",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	dto := decode[ValidationResultDTO](t, resp)
	if dto.AI == nil {
		t.Fatal("expected an AI verdict in the response")
	}

	saved, err := store.GetEntry(context.Background(), "entry-anomalous")
	if err != nil || saved == nil {
		t.Fatalf("expected persisted entry, got %v / %v", saved, err)
	}
	if saved.AI.Score != dto.AI.Score || saved.AI.Flagged != dto.AI.Flagged {
		t.Errorf("stored verdict %+v diverges from response %+v", saved.AI, *dto.AI)
	}
}

func TestListTimesheets_RequiresQueryParams(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/timesheets/")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without query params, got %d", resp.StatusCode)
	}
	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	resp.Body.Close()
	if body.Error == "" {
		t.Error("expected an error message")
	}
}

func TestGetTimesheet_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(fmt.Sprintf("%s/api/timesheets/%s", srv.URL, "nope"))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

/*
remote.go - HTTP-backed anomaly scorer

PURPOSE:
  Calls an external scoring service over HTTP. The service receives the
  validation snapshot as JSON and responds with
  {"flagged": bool, "score": float, "feedback": [string]}.

FAILURE MODEL:
  The client retries transient failures (retryablehttp) within the bounded
  timeout, then gives up and returns an error. Callers treat any error as
  "scorer unavailable" and proceed without a verdict. Scores outside [0, 1]
  are clamped rather than rejected.
*/
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/warp/compliance-engine/timesheet"
)

const defaultRemoteTimeout = 5 * time.Second

// Remote scores entries via an external HTTP service.
type Remote struct {
	url    string
	client *retryablehttp.Client
}

// NewRemote creates a remote scorer for the given endpoint. A zero timeout
// falls back to 5 seconds.
func NewRemote(url string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = timeout
	client.Logger = nil
	return &Remote{url: url, client: client}
}

// snapshotPayload is the request body sent to the scoring service.
type snapshotPayload struct {
	EntryID      string   `json:"entry_id"`
	TechnicianID string   `json:"technician_id"`
	ProjectID    string   `json:"project_id"`
	Date         string   `json:"date"`
	StartTime    string   `json:"start_time,omitempty"`
	EndTime      string   `json:"end_time,omitempty"`
	HoursWorked  float64  `json:"hours_worked"`
	Description  string   `json:"description"`
	DailyTotal   float64  `json:"daily_total_hours"`
	OverlapRisk  string   `json:"overlap_risk"`
	MembershipOK bool     `json:"membership_ok"`
	Active       bool     `json:"project_active"`
}

func (r *Remote) Score(ctx context.Context, snap timesheet.Snapshot) (timesheet.AIVerdict, error) {
	payload := snapshotPayload{
		EntryID:      snap.Entry.ID,
		TechnicianID: snap.Entry.TechnicianID,
		ProjectID:    snap.Entry.ProjectID,
		Date:         snap.Entry.Date,
		StartTime:    snap.Entry.StartTime,
		EndTime:      snap.Entry.EndTime,
		HoursWorked:  snap.Entry.HoursWorked,
		Description:  snap.Entry.Description,
		DailyTotal:   snap.DailyTotal.Float(),
		OverlapRisk:  string(snap.Overlap),
		MembershipOK: snap.MembershipOK,
		Active:       snap.ProjectActive,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return timesheet.AIVerdict{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return timesheet.AIVerdict{}, fmt.Errorf("build scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return timesheet.AIVerdict{}, fmt.Errorf("scoring service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return timesheet.AIVerdict{}, fmt.Errorf("scoring service returned %d", resp.StatusCode)
	}

	raw := new(bytes.Buffer)
	if _, err := raw.ReadFrom(resp.Body); err != nil {
		return timesheet.AIVerdict{}, fmt.Errorf("read scoring response: %w", err)
	}

	doc := raw.String()
	if !gjson.Valid(doc) {
		return timesheet.AIVerdict{}, fmt.Errorf("scoring service returned invalid JSON")
	}

	score := gjson.Get(doc, "score").Float()
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	var feedback []string
	for _, item := range gjson.Get(doc, "feedback").Array() {
		feedback = append(feedback, item.String())
	}

	return timesheet.AIVerdict{
		Flagged:  gjson.Get(doc, "flagged").Bool(),
		Score:    score,
		Feedback: feedback,
	}, nil
}

// Compile-time contract checks
var (
	_ timesheet.Scorer = (*Remote)(nil)
	_ timesheet.Scorer = (*Heuristic)(nil)
)

/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces consumed by the validation and calculation layers.

PURPOSE:
  Persists everything the engine reads or writes back:
  - Tenant settings (region, state, workweek, locale) as key/value rows
  - Projects and project membership
  - Timesheet entries, including the AI verdict fields

INTERFACES IMPLEMENTED:
  timesheet.AIWriter: Verdict write-back after validation

KEY TABLES:
  tenant_settings:   Per-tenant configuration rows, re-read on every call
                     so setting changes take effect immediately
  projects:          Project records with a lifecycle status
  project_members:   Technician-to-project links
  timesheet_entries: Entries with ai_flagged / ai_score / ai_feedback

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Overlap races between concurrent
  validations are the persistence layer's problem by design; the unique
  index on (technician_id, date, start_time) narrows the window for
  exact-duplicate intervals.

WAL MODE:
  SQLite is opened with WAL for better read concurrency and crash
  recovery.

USAGE:
  store, err := sqlite.New("./data/compliance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - timesheet/types.go: Entry and AIWriter definitions
  - factory/policy.go: Turns stored settings into TenantPolicy
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/compliance-engine/timesheet"
)

// Project is a stored project record. Entries may only be logged against
// projects in the "active" status.
type Project struct {
	ID       string
	TenantID string
	Name     string
	Status   string
}

// StatusActive is the project lifecycle state that accepts new entries.
const StatusActive = "active"

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tenant_settings (
		tenant_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (tenant_id, key)
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active'
	);
	CREATE INDEX IF NOT EXISTS idx_projects_tenant ON projects(tenant_id);

	CREATE TABLE IF NOT EXISTS project_members (
		project_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		PRIMARY KEY (project_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS timesheet_entries (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		technician_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		task_id TEXT,
		location_id TEXT,
		date TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		hours_worked REAL NOT NULL,
		description TEXT,
		ai_flagged INTEGER NOT NULL DEFAULT 0,
		ai_score REAL NOT NULL DEFAULT 0,
		ai_feedback TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_technician_date
		ON timesheet_entries(technician_id, date);
	CREATE INDEX IF NOT EXISTS idx_entries_tenant
		ON timesheet_entries(tenant_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_exact_interval
		ON timesheet_entries(technician_id, date, start_time)
		WHERE start_time IS NOT NULL AND start_time != '';
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TENANT SETTINGS
// =============================================================================

// SaveSetting upserts one settings row for a tenant.
func (s *Store) SaveSetting(ctx context.Context, tenantID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenant_settings (tenant_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(tenant_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		tenantID, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// GetSetting reads one settings value; returns "" when unset.
func (s *Store) GetSetting(ctx context.Context, tenantID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM tenant_settings WHERE tenant_id = ? AND key = ?`,
		tenantID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// TenantSettings reads all settings rows for a tenant as a map.
func (s *Store) TenantSettings(ctx context.Context, tenantID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM tenant_settings WHERE tenant_id = ?`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// =============================================================================
// PROJECTS AND MEMBERSHIP
// =============================================================================

// SaveProject upserts a project record.
func (s *Store) SaveProject(ctx context.Context, p Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, tenant_id, name, status) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, status = excluded.status`,
		p.ID, p.TenantID, p.Name, p.Status)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// ListProjects returns all projects for a tenant.
func (s *Store) ListProjects(ctx context.Context, tenantID string) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, status FROM projects WHERE tenant_id = ? ORDER BY id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Status); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// AddMember links a user to a project.
func (s *Store) AddMember(ctx context.Context, projectID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO project_members (project_id, user_id) VALUES (?, ?)`,
		projectID, userID)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// IsMember reports whether a user is linked to a project. A missing project
// reports false, not an error.
func (s *Store) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM project_members WHERE project_id = ? AND user_id = ?`,
		projectID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("membership lookup: %w", err)
	}
	return true, nil
}

// IsActive reports whether a project is in the active lifecycle state.
// A missing project reports false, not an error.
func (s *Store) IsActive(ctx context.Context, projectID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM projects WHERE id = ?`, projectID).Scan(&status)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("project lookup: %w", err)
	}
	return status == StatusActive, nil
}

// =============================================================================
// TIMESHEET ENTRIES
// =============================================================================

// SaveEntry upserts a timesheet entry. AI fields are written on insert only;
// updates leave the stored verdict to WriteAIVerdict.
func (s *Store) SaveEntry(ctx context.Context, e timesheet.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	feedback, err := json.Marshal(e.AI.Feedback)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO timesheet_entries
			(id, tenant_id, technician_id, project_id, task_id, location_id,
			 date, start_time, end_time, hours_worked, description,
			 ai_flagged, ai_score, ai_feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			task_id = excluded.task_id,
			location_id = excluded.location_id,
			date = excluded.date,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			hours_worked = excluded.hours_worked,
			description = excluded.description`,
		e.ID, e.TenantID, e.TechnicianID, e.ProjectID, e.TaskID, e.LocationID,
		e.Date, e.StartTime, e.EndTime, e.HoursWorked, e.Description,
		boolToInt(e.AI.Flagged), e.AI.Score, string(feedback),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

// GetEntry reads one entry; returns nil when absent.
func (s *Store) GetEntry(ctx context.Context, id string) (*timesheet.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, entrySelect+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &e, nil
}

// ListEntriesForDay returns all entries for one technician on one date.
// This is the sibling set the validation service checks against.
func (s *Store) ListEntriesForDay(ctx context.Context, technicianID, date string) ([]timesheet.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		entrySelect+` WHERE technician_id = ? AND date = ? ORDER BY start_time, id`,
		technicianID, date)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// WriteAIVerdict persists the anomaly verdict onto an entry's AI fields.
// A missing row is a no-op: draft entries are scored before they are saved,
// and SaveEntry carries the verdict on insert.
// Implements timesheet.AIWriter.
func (s *Store) WriteAIVerdict(ctx context.Context, entryID string, v timesheet.AIVerdict) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	feedback, err := json.Marshal(v.Feedback)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE timesheet_entries SET ai_flagged = ?, ai_score = ?, ai_feedback = ? WHERE id = ?`,
		boolToInt(v.Flagged), v.Score, string(feedback), entryID)
	if err != nil {
		return fmt.Errorf("write verdict: %w", err)
	}
	return nil
}

var _ timesheet.AIWriter = (*Store)(nil)

// =============================================================================
// ROW MAPPING
// =============================================================================

const entrySelect = `
	SELECT id, tenant_id, technician_id, project_id,
	       COALESCE(task_id, ''), COALESCE(location_id, ''),
	       date, COALESCE(start_time, ''), COALESCE(end_time, ''),
	       hours_worked, COALESCE(description, ''),
	       ai_flagged, ai_score, COALESCE(ai_feedback, '[]')
	FROM timesheet_entries`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (timesheet.Entry, error) {
	var e timesheet.Entry
	var flagged int
	var feedback string
	err := row.Scan(&e.ID, &e.TenantID, &e.TechnicianID, &e.ProjectID,
		&e.TaskID, &e.LocationID, &e.Date, &e.StartTime, &e.EndTime,
		&e.HoursWorked, &e.Description, &flagged, &e.AI.Score, &feedback)
	if err != nil {
		return timesheet.Entry{}, err
	}
	e.AI.Flagged = flagged != 0
	if feedback != "" {
		if err := json.Unmarshal([]byte(feedback), &e.AI.Feedback); err != nil {
			return timesheet.Entry{}, fmt.Errorf("unmarshal feedback: %w", err)
		}
	}
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

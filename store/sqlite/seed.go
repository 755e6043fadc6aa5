/*
seed.go - Demo data seeding

PURPOSE:
  Loads a small demo dataset: a California tenant and a Texas (federal)
  tenant, each with projects, memberships, and a few entries. Used by the
  -seed server flag and by integration-style tests that need a populated
  store.
*/
package sqlite

import (
	"context"
	"fmt"

	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/timesheet"
)

// Seed populates the store with demo tenants, projects, and entries.
// Idempotent: re-running upserts the same records.
func (s *Store) Seed(ctx context.Context) error {
	settings := map[string]map[string]string{
		"tenant-ca": {
			factory.KeyRegion: "US", factory.KeyState: "CA",
			factory.KeyWeekStart: "monday", factory.KeyLocale: "en-US",
		},
		"tenant-tx": {
			factory.KeyRegion: "US", factory.KeyState: "TX",
			factory.KeyLocale: "en-US",
		},
	}
	for tenantID, kv := range settings {
		for k, v := range kv {
			if err := s.SaveSetting(ctx, tenantID, k, v); err != nil {
				return fmt.Errorf("seed settings for %s: %w", tenantID, err)
			}
		}
	}

	projects := []Project{
		{ID: "proj-hvac", TenantID: "tenant-ca", Name: "HVAC Retrofit", Status: StatusActive},
		{ID: "proj-solar", TenantID: "tenant-ca", Name: "Solar Install", Status: "archived"},
		{ID: "proj-wiring", TenantID: "tenant-tx", Name: "Warehouse Wiring", Status: StatusActive},
	}
	for _, p := range projects {
		if err := s.SaveProject(ctx, p); err != nil {
			return fmt.Errorf("seed project %s: %w", p.ID, err)
		}
	}

	members := [][2]string{
		{"proj-hvac", "tech-ana"},
		{"proj-hvac", "tech-bo"},
		{"proj-wiring", "tech-cy"},
	}
	for _, m := range members {
		if err := s.AddMember(ctx, m[0], m[1]); err != nil {
			return fmt.Errorf("seed member %s/%s: %w", m[0], m[1], err)
		}
	}

	entries := []timesheet.Entry{
		{
			ID: "entry-1", TenantID: "tenant-ca", TechnicianID: "tech-ana",
			ProjectID: "proj-hvac", Date: "2025-03-10",
			StartTime: "08:00", EndTime: "16:00", HoursWorked: 8,
			Description: "rooftop unit replacement",
		},
		{
			ID: "entry-2", TenantID: "tenant-ca", TechnicianID: "tech-ana",
			ProjectID: "proj-hvac", Date: "2025-03-11",
			StartTime: "08:00", EndTime: "18:00", HoursWorked: 10,
			Description: "ductwork and commissioning",
		},
		{
			ID: "entry-3", TenantID: "tenant-tx", TechnicianID: "tech-cy",
			ProjectID: "proj-wiring", Date: "2025-03-10",
			HoursWorked: 9, Description: "panel upgrades",
		},
	}
	for _, e := range entries {
		if err := s.SaveEntry(ctx, e); err != nil {
			return fmt.Errorf("seed entry %s: %w", e.ID, err)
		}
	}
	return nil
}

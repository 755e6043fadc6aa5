/*
Package factory provides JSON to Go tenant-policy conversion.

PURPOSE:
  Converts stored tenant settings into compliance.TenantPolicy value
  objects. Settings live as JSON documents or key/value rows so operations
  staff can reconfigure a tenant's jurisdiction without code changes; the
  factory is the single place raw settings become a typed policy.

JSON SCHEMA:
  {
    "region": "US",
    "state": "CA",
    "week_start": "monday",
    "week_end": "",
    "locale": "en-US"
  }

KEY FEATURES:
  - Resolves the workweek via compliance.ResolveWeek (never fails; locale
    fallback)
  - Trims and passes region/state through for the resolver to normalize
  - Presets for common tenant configurations

USAGE:
  pf := factory.NewPolicyFactory()
  policy, err := pf.ParseSettings(factory.CaliforniaTenantJSON("en-US"))

  // Or from a settings key/value reader:
  policy := pf.FromMap(map[string]string{"region": "US", "state": "NY"})

SEE ALSO:
  - compliance/resolver.go: Region/state to rule mapping
  - store/sqlite: Settings persistence
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/compliance-engine/compliance"
)

// Setting keys as stored per tenant.
const (
	KeyRegion    = "region"
	KeyState     = "state"
	KeyWeekStart = "week_start"
	KeyWeekEnd   = "week_end"
	KeyLocale    = "locale"
)

// SettingsJSON is the JSON representation of a tenant's compliance settings.
type SettingsJSON struct {
	Region    string `json:"region"`
	State     string `json:"state,omitempty"`
	WeekStart string `json:"week_start,omitempty"`
	WeekEnd   string `json:"week_end,omitempty"`
	Locale    string `json:"locale,omitempty"`
}

// PolicyFactory converts raw settings into TenantPolicy values.
type PolicyFactory struct{}

func NewPolicyFactory() *PolicyFactory { return &PolicyFactory{} }

// ParseSettings builds a TenantPolicy from a JSON settings document.
func (f *PolicyFactory) ParseSettings(doc string) (compliance.TenantPolicy, error) {
	var s SettingsJSON
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return compliance.TenantPolicy{}, fmt.Errorf("parse tenant settings: %w", err)
	}
	return f.build(s), nil
}

// FromMap builds a TenantPolicy from settings key/value rows. Missing keys
// resolve through the same fallbacks as empty JSON fields.
func (f *PolicyFactory) FromMap(settings map[string]string) compliance.TenantPolicy {
	return f.build(SettingsJSON{
		Region:    settings[KeyRegion],
		State:     settings[KeyState],
		WeekStart: settings[KeyWeekStart],
		WeekEnd:   settings[KeyWeekEnd],
		Locale:    settings[KeyLocale],
	})
}

func (f *PolicyFactory) build(s SettingsJSON) compliance.TenantPolicy {
	start, end := compliance.ResolveWeek(s.WeekStart, s.WeekEnd, s.Locale)
	return compliance.TenantPolicy{
		Region:    s.Region,
		State:     s.State,
		WeekStart: start,
		WeekEnd:   end,
		Locale:    s.Locale,
	}
}

// =============================================================================
// PRESETS
// =============================================================================

func marshalPreset(s SettingsJSON) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// CaliforniaTenantJSON returns settings for a California tenant.
func CaliforniaTenantJSON(locale string) string {
	return marshalPreset(SettingsJSON{Region: "US", State: "CA", Locale: locale})
}

// NewYorkTenantJSON returns settings for a New York tenant.
func NewYorkTenantJSON(locale string) string {
	return marshalPreset(SettingsJSON{Region: "US", State: "NY", Locale: locale})
}

// FederalTenantJSON returns settings for a US tenant outside CA/NY.
func FederalTenantJSON(state, locale string) string {
	return marshalPreset(SettingsJSON{Region: "US", State: state, Locale: locale})
}

// NonUSTenantJSON returns settings for a tenant outside US jurisdiction.
func NonUSTenantJSON(region, locale string) string {
	return marshalPreset(SettingsJSON{Region: region, Locale: locale})
}

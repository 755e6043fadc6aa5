package factory_test

import (
	"testing"
	"time"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/factory"
)

func TestParseSettings_CaliforniaPreset(t *testing.T) {
	pf := factory.NewPolicyFactory()

	policy, err := pf.ParseSettings(factory.CaliforniaTenantJSON("en-US"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if key := compliance.ResolvePolicyKey(policy); key != compliance.PolicyCalifornia {
		t.Errorf("expected US-CA, got %s", key)
	}
	if policy.WeekStart != time.Sunday {
		t.Errorf("expected Sunday start for en-US, got %s", policy.WeekStart)
	}
}

func TestParseSettings_ExplicitWeek(t *testing.T) {
	pf := factory.NewPolicyFactory()

	policy, err := pf.ParseSettings(`{"region":"US","state":"TX","week_start":"monday","locale":"en-US"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if policy.WeekStart != time.Monday || policy.WeekEnd != time.Sunday {
		t.Errorf("expected Mon-Sun, got %s-%s", policy.WeekStart, policy.WeekEnd)
	}
	if key := compliance.ResolvePolicyKey(policy); key != compliance.PolicyFederal {
		t.Errorf("expected US-FLSA, got %s", key)
	}
}

func TestParseSettings_MalformedJSON(t *testing.T) {
	if _, err := factory.NewPolicyFactory().ParseSettings(`{region US`); err == nil {
		t.Error("expected error for malformed settings document")
	}
}

func TestFromMap_MissingKeysFallBack(t *testing.T) {
	// GIVEN: A tenant with no stored week or locale settings
	// WHEN: Building the policy from key/value rows
	// THEN: The workweek falls back to the non-US-English default

	policy := factory.NewPolicyFactory().FromMap(map[string]string{"region": "DE"})

	if policy.WeekStart != time.Monday {
		t.Errorf("expected Monday fallback, got %s", policy.WeekStart)
	}
	if key := compliance.ResolvePolicyKey(policy); key != compliance.PolicyNonUS {
		t.Errorf("expected NON-US, got %s", key)
	}
}

func TestWeekInvariant_EndIsStartPlusSix(t *testing.T) {
	pf := factory.NewPolicyFactory()

	for _, locale := range []string{"en-US", "fr-FR", "de-DE", ""} {
		policy := pf.FromMap(map[string]string{"locale": locale, "region": "US"})
		want := time.Weekday((int(policy.WeekStart) + 6) % 7)
		if policy.WeekEnd != want {
			t.Errorf("locale %q: week end %s, want %s", locale, policy.WeekEnd, want)
		}
	}
}

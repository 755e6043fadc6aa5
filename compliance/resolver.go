/*
resolver.go - Tenant settings to rule variant mapping

PURPOSE:
  Maps a tenant's region/state configuration to a concrete overtime rule
  and a canonical policy label. The resolver and the label must agree: any
  divergence would show one regime in the UI while calculating under another.

DECISION TABLE:
  region empty or non-US       -> no rule (all hours regular), "NON-US"
  region US, state CA          -> CaliforniaRule, "US-CA"
  region US, state NY          -> NewYorkRule,    "US-NY"
  region US, any other state   -> FederalRule,    "US-FLSA"

  Region matching accepts bare "US" and any "US-*" prefix, case-insensitive
  and trimmed. An unrecognized jurisdiction is not an error; the tenant
  simply gets no overtime rules.
*/
package compliance

import "strings"

// Resolve maps a tenant policy to its concrete overtime rule. A nil return
// means no overtime rules apply and the caller must treat all hours as
// regular.
func Resolve(p TenantPolicy) OvertimeRule {
	if !isUSRegion(p.Region) {
		return nil
	}
	switch normalizeState(p.State) {
	case "CA":
		return CaliforniaRule{}
	case "NY":
		return NewYorkRule{}
	default:
		return FederalRule{}
	}
}

// ResolvePolicyKey exposes the resolver's decision as a stable label for
// API and UI consumers. Kept consistent with Resolve by construction.
func ResolvePolicyKey(p TenantPolicy) PolicyKey {
	rule := Resolve(p)
	if rule == nil {
		return PolicyNonUS
	}
	return rule.Key()
}

func isUSRegion(region string) bool {
	r := strings.ToUpper(strings.TrimSpace(region))
	if r == "" {
		return false
	}
	return r == "US" || strings.HasPrefix(r, "US-")
}

func normalizeState(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}

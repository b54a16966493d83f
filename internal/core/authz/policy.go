// Package authz maps caller roles to capabilities. It is the only place in the
// core that knows role names.
package authz

import (
	"fmt"

	"github.com/srgjo27/event_ticket/internal/core/domain"
)

type Policy struct {
	grants map[domain.Capability]map[string]struct{}
}

// DefaultGrants is used when configuration does not override a capability.
func DefaultGrants() map[domain.Capability][]string {
	return map[domain.Capability][]string{
		domain.CapabilityScanTickets:        {domain.RoleAdmin, domain.RoleStaff},
		domain.CapabilityViewReports:        {domain.RoleAdmin, domain.RoleStaff},
		domain.CapabilityManageEvents:       {domain.RoleAdmin},
		domain.CapabilityIssueComplimentary: {domain.RoleAdmin},
	}
}

func NewPolicy(grants map[domain.Capability][]string) *Policy {
	p := &Policy{grants: make(map[domain.Capability]map[string]struct{})}

	for capability, roles := range DefaultGrants() {
		if override, ok := grants[capability]; ok {
			roles = override
		}
		p.grants[capability] = toSet(roles)
	}
	for capability, roles := range grants {
		if _, ok := p.grants[capability]; !ok {
			p.grants[capability] = toSet(roles)
		}
	}

	return p
}

func toSet(roles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (p *Policy) Allows(identity *domain.Identity, capability domain.Capability) bool {
	if identity == nil {
		return false
	}

	roles := p.grants[capability]
	for _, r := range identity.Roles {
		if _, ok := roles[r]; ok {
			return true
		}
	}
	return false
}

func (p *Policy) Authorize(identity *domain.Identity, capability domain.Capability) error {
	if identity == nil || identity.ID == "" {
		return domain.ErrUnauthenticated
	}
	if !p.Allows(identity, capability) {
		return fmt.Errorf("%w: %s requires %s", domain.ErrForbidden, identity.ID, capability)
	}
	return nil
}

package authz_test

import (
	"testing"

	"github.com/srgjo27/event_ticket/internal/core/authz"
	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestPolicy_Defaults(t *testing.T) {
	p := authz.NewPolicy(nil)

	staff := &domain.Identity{ID: "S1", Roles: []string{domain.RoleStaff}}
	admin := &domain.Identity{ID: "A1", Roles: []string{domain.RoleAdmin}}
	buyer := &domain.Identity{ID: "U1", Roles: []string{domain.RoleUser}}

	assert.NoError(t, p.Authorize(staff, domain.CapabilityScanTickets))
	assert.NoError(t, p.Authorize(admin, domain.CapabilityScanTickets))
	assert.ErrorIs(t, p.Authorize(buyer, domain.CapabilityScanTickets), domain.ErrForbidden)

	assert.ErrorIs(t, p.Authorize(staff, domain.CapabilityManageEvents), domain.ErrForbidden)
	assert.NoError(t, p.Authorize(admin, domain.CapabilityManageEvents))
}

func TestPolicy_Unauthenticated(t *testing.T) {
	p := authz.NewPolicy(nil)

	assert.ErrorIs(t, p.Authorize(nil, domain.CapabilityScanTickets), domain.ErrUnauthenticated)
	assert.ErrorIs(t, p.Authorize(&domain.Identity{Roles: []string{domain.RoleAdmin}}, domain.CapabilityScanTickets), domain.ErrUnauthenticated)
}

func TestPolicy_Override(t *testing.T) {
	p := authz.NewPolicy(map[domain.Capability][]string{
		domain.CapabilityScanTickets: {"gate"},
	})

	gate := &domain.Identity{ID: "G1", Roles: []string{"gate"}}
	staff := &domain.Identity{ID: "S1", Roles: []string{domain.RoleStaff}}

	assert.True(t, p.Allows(gate, domain.CapabilityScanTickets))
	assert.False(t, p.Allows(staff, domain.CapabilityScanTickets))
	assert.True(t, p.Allows(staff, domain.CapabilityViewReports))
}

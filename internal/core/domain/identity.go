package domain

import "slices"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

// Identity is the caller as delivered by the identity resolver. Roles is opaque to the core.
type Identity struct {
	ID    string
	Email string
	Roles []string
}

func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	return slices.Contains(i.Roles, role)
}

// Capability names a privileged operation. Roles are mapped to capabilities by the authz policy.
type Capability string

const (
	CapabilityScanTickets        Capability = "scan_tickets"
	CapabilityManageEvents       Capability = "manage_events"
	CapabilityViewReports        Capability = "view_reports"
	CapabilityIssueComplimentary Capability = "issue_complimentary"
)

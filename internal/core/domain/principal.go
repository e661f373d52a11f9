package domain

// RoleSet is a flat set of roles granting a capability. There is no hierarchy.
type RoleSet []RoleCode

var (
	// StaffRoles make a user staff-like: they see every application and audit entry.
	StaffRoles = RoleSet{RoleAdmin, RoleConsultant, RoleFinance, RoleSupport}
	// TaskReaders see every task.
	TaskReaders = RoleSet{RoleAdmin, RoleConsultant}
	// DocumentReviewers see and review every document.
	DocumentReviewers = RoleSet{RoleAdmin, RoleConsultant, RoleFinance}
	// BillingManagers issue invoices and record payments.
	BillingManagers = RoleSet{RoleAdmin, RoleFinance}
	// Administrators manage roles, catalogs and content. Checked with Holds.
	Administrators = RoleSet{RoleAdmin}
)

// Principal is the caller as resolved for a single request: the user row plus
// the roles held at that moment.
type Principal struct {
	User  *User
	Roles []RoleCode
}

// UserID returns the caller's id, or "" for an empty principal.
func (p Principal) UserID() string {
	if p.User == nil {
		return ""
	}
	return p.User.ID
}

// HasAnyRole reports whether the principal holds at least one of codes.
func (p Principal) HasAnyRole(codes ...RoleCode) bool {
	for _, held := range p.Roles {
		for _, c := range codes {
			if held == c {
				return true
			}
		}
	}
	return false
}

// IsStaffLike is true for is_staff users and holders of any staff role.
func (p Principal) IsStaffLike() bool {
	return p.CanSeeAll(StaffRoles)
}

// CanSeeAll reports whether the principal bypasses ownership scoping for a
// resource whose unrestricted readers are the given role set.
func (p Principal) CanSeeAll(readers RoleSet) bool {
	if p.User == nil {
		return false
	}
	return p.User.IsStaff || p.HasAnyRole(readers...)
}

// Holds reports whether the principal carries one of the roles in set.
// is_staff alone does not qualify; it only widens read scope.
func (p Principal) Holds(set RoleSet) bool {
	return p.User != nil && p.HasAnyRole(set...)
}

// RoleStrings renders the role set for JSON responses.
func (p Principal) RoleStrings() []string {
	out := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		out[i] = string(r)
	}
	return out
}

// Actor is the principal performing a mutation together with the request
// metadata captured for the audit trail.
type Actor struct {
	Principal
	IPAddress string
	UserAgent string
}

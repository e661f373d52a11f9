package domain

import "testing"

func TestPrincipal_Capabilities(t *testing.T) {
	cases := []struct {
		name        string
		p           Principal
		staffLike   bool
		seesTasks   bool
		seesDocs    bool
		seesBilling bool
	}{
		{"client", Principal{User: &User{ID: "c"}, Roles: []RoleCode{RoleClient}}, false, false, false, false},
		{"support", Principal{User: &User{ID: "s"}, Roles: []RoleCode{RoleSupport}}, true, false, false, false},
		{"finance", Principal{User: &User{ID: "f"}, Roles: []RoleCode{RoleFinance}}, true, false, true, false},
		{"consultant", Principal{User: &User{ID: "k"}, Roles: []RoleCode{RoleConsultant}}, true, true, true, false},
		{"is_staff without roles", Principal{User: &User{ID: "o", IsStaff: true}}, true, true, true, true},
		{"anonymous", Principal{}, false, false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.IsStaffLike(); got != tc.staffLike {
				t.Errorf("IsStaffLike = %v, want %v", got, tc.staffLike)
			}
			if got := tc.p.CanSeeAll(TaskReaders); got != tc.seesTasks {
				t.Errorf("CanSeeAll(TaskReaders) = %v, want %v", got, tc.seesTasks)
			}
			if got := tc.p.CanSeeAll(DocumentReviewers); got != tc.seesDocs {
				t.Errorf("CanSeeAll(DocumentReviewers) = %v, want %v", got, tc.seesDocs)
			}
			if got := tc.p.CanSeeAll(nil); got != tc.seesBilling {
				t.Errorf("CanSeeAll(nil) = %v, want %v", got, tc.seesBilling)
			}
		})
	}
}

func TestPrincipal_HasAnyRole(t *testing.T) {
	p := Principal{User: &User{ID: "u"}, Roles: []RoleCode{RoleFinance, RoleClient}}
	if !p.HasAnyRole(RoleAdmin, RoleFinance) {
		t.Error("expected FINANCE to match")
	}
	if p.HasAnyRole() {
		t.Error("empty role list must not match")
	}
	if p.HasAnyRole(RoleAdmin, RoleConsultant) {
		t.Error("unexpected match")
	}
}

func TestPrincipal_HoldsIgnoresIsStaff(t *testing.T) {
	ops := Principal{User: &User{ID: "o", IsStaff: true}}
	if ops.Holds(Administrators) {
		t.Fatalf("is_staff without ADMIN must not hold Administrators")
	}
	admin := Principal{User: &User{ID: "a"}, Roles: []RoleCode{RoleAdmin}}
	if !admin.Holds(Administrators) {
		t.Fatalf("ADMIN must hold Administrators")
	}
	if (Principal{Roles: []RoleCode{RoleAdmin}}).Holds(Administrators) {
		t.Fatalf("principal without user must not hold any role set")
	}
}

package domain

import "testing"

func TestUserHasRole(t *testing.T) {
	u := &User{Roles: []string{RoleUser, RoleAdmin}}
	if !u.HasRole(RoleAdmin) {
		t.Fatal("expected admin role")
	}
	if (&User{Roles: []string{RoleUser}}).HasRole(RoleAdmin) {
		t.Fatal("unexpected admin role")
	}
	if (&User{}).HasRole(RoleUser) {
		t.Fatal("no roles must mean no role")
	}
}

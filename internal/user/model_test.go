package user

import "testing"

func TestParseRole(t *testing.T) {
	t.Parallel()

	if r, err := ParseRole("user"); err != nil || r != RoleUser {
		t.Fatalf("user: %v %v", r, err)
	}
	if r, err := ParseRole("admin"); err != nil || r != RoleAdmin {
		t.Fatalf("admin: %v %v", r, err)
	}
	for _, bad := range []string{"", "Admin", "superuser", "root"} {
		if _, err := ParseRole(bad); err == nil {
			t.Errorf("ParseRole(%q) should fail", bad)
		}
	}
	if !RoleAdmin.IsAdmin() || RoleUser.IsAdmin() {
		t.Fatal("IsAdmin mismatch")
	}
}

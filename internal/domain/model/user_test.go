package model

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"teacher", RoleTeacher, true},
		{"student", RoleStudent, true},
		{"admin", RoleAdmin, true},
		{"Teacher", "", false},
		{"principal", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, err := ParseRole(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("ParseRole(%q) = %v, %v; want %v", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("ParseRole(%q) should fail", c.in)
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleTeacher, RoleStudent, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if Role("superuser").Valid() {
		t.Errorf("unknown role must not be valid")
	}
}

func TestMakeSlug(t *testing.T) {
	if got := MakeSlug("Essay on Rivers!"); got != "essay-on-rivers" {
		t.Errorf("MakeSlug = %q", got)
	}
}

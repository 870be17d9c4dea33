package authz

import (
	"errors"
	"fmt"
	"testing"

	"courseboard/internal/common"
	"courseboard/internal/domain/model"
)

func TestRequireRole(t *testing.T) {
	teacher := Actor{ID: "t1", Role: model.RoleTeacher}

	if err := RequireRole(teacher, model.RoleTeacher, model.RoleAdmin); err != nil {
		t.Fatalf("teacher should pass: %v", err)
	}
	err := RequireRole(teacher, model.RoleAdmin)
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRoleRejectsUnknownRole(t *testing.T) {
	ghost := Actor{ID: "g1", Role: model.Role("superuser")}
	err := RequireRole(ghost, model.RoleTeacher, model.RoleStudent, model.RoleAdmin)
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("unknown role must always be denied, got %v", err)
	}
}

func TestRequireOwnership(t *testing.T) {
	owner := Actor{ID: "u1", Role: model.RoleTeacher}
	stranger := Actor{ID: "u2", Role: model.RoleTeacher}
	admin := Actor{ID: "a1", Role: model.RoleAdmin}

	if err := RequireOwnership(owner, "u1"); err != nil {
		t.Fatalf("owner should pass: %v", err)
	}
	if err := RequireOwnership(stranger, "u1"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("non-owner should be denied, got %v", err)
	}
	if err := RequireOwnership(admin, "u1"); err != nil {
		t.Fatalf("admin should pass regardless of ownership: %v", err)
	}
}

func TestRequireShortCircuits(t *testing.T) {
	calls := 0
	fail := func() error {
		calls++
		return fmt.Errorf("denied: %w", common.ErrForbidden)
	}
	pass := func() error {
		calls++
		return nil
	}

	if err := Require(pass, fail, pass); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected the failing check's error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("third check should not have run, calls=%d", calls)
	}
}

func TestActorFromUser(t *testing.T) {
	u := &model.User{ID: "u7", Role: model.RoleStudent}
	actor := ActorFromUser(u)
	if actor.PrincipalID() != "u7" || actor.PrincipalRole() != model.RoleStudent {
		t.Fatalf("actor does not mirror the user: %+v", actor)
	}
}

// Package authz holds the pure authorization decisions. Every check
// takes the acting principal explicitly; there is no ambient identity.
// A denied check has no side effects, and callers must evaluate it
// strictly before any store write.
package authz

import (
	"fmt"

	"courseboard/internal/common"
	"courseboard/internal/domain/model"
)

// Principal is the narrow identity view the guard needs.
type Principal interface {
	PrincipalID() string
	PrincipalRole() model.Role
}

// RequireRole fails with ErrForbidden unless the principal's role is in
// the allowed set.
func RequireRole(p Principal, allowed ...model.Role) error {
	role := p.PrincipalRole()
	switch role {
	case model.RoleTeacher, model.RoleStudent, model.RoleAdmin:
	default:
		return fmt.Errorf("principal has unknown role %q: %w", role, common.ErrForbidden)
	}
	for _, r := range allowed {
		if role == r {
			return nil
		}
	}
	return fmt.Errorf("role %q is not permitted for this operation: %w", role, common.ErrForbidden)
}

// RequireOwnership fails with ErrForbidden unless the principal owns the
// resource. Admins pass regardless of ownership.
func RequireOwnership(p Principal, ownerID string) error {
	switch p.PrincipalRole() {
	case model.RoleAdmin:
		return nil
	case model.RoleTeacher, model.RoleStudent:
		if p.PrincipalID() == ownerID {
			return nil
		}
		return fmt.Errorf("principal does not own this resource: %w", common.ErrForbidden)
	default:
		return fmt.Errorf("principal has unknown role %q: %w", p.PrincipalRole(), common.ErrForbidden)
	}
}

// Require composes checks and short-circuits on the first failure.
func Require(checks ...func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Actor is the plain value implementation of Principal used by services
// and the ingestion engine once authentication has resolved a user.
type Actor struct {
	ID   string
	Role model.Role
}

func (a Actor) PrincipalID() string       { return a.ID }
func (a Actor) PrincipalRole() model.Role { return a.Role }

// ActorFromUser builds the guard view of a stored user.
func ActorFromUser(u *model.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"courseboard/internal/app/authz"
	"courseboard/internal/common"
	"courseboard/internal/common/security"
	"courseboard/internal/domain/model"
	"courseboard/internal/platform/config"
)

func TestMain(m *testing.M) {
	config.Load()
	security.InitJWT()
	os.Exit(m.Run())
}

// fakeUserRepo is an in-memory UserRepository with the same duplicate
// semantics as the postgres store.
type fakeUserRepo struct {
	users map[string]*model.User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return common.ErrConflict
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id string, role model.Role) error {
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Role = role
	return nil
}

func registerTeacher(t *testing.T, svc *AuthService, username, email string) *model.User {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    email,
		Password: "correct-horse-battery",
		Role:     "teacher",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return resp.User
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	user := registerTeacher(t, svc, "moore", "moore@example.com")
	if user.Role != model.RoleTeacher {
		t.Fatalf("role not fixed at creation: %v", user.Role)
	}
	if user.HashedPassword != "" {
		t.Fatalf("hashed password must not leave the service")
	}

	// Login works by email and by username.
	for _, field := range []string{"moore@example.com", "moore"} {
		resp, err := svc.Login(ctx, LoginRequest{LoginField: field, Password: "correct-horse-battery"})
		if err != nil {
			t.Fatalf("login via %q: %v", field, err)
		}
		if resp.Token == "" {
			t.Fatalf("login via %q produced no token", field)
		}
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "moore",
		Email:    "moore@example.com",
		Password: "short",
		Role:     "teacher",
	})
	if !errors.Is(err, common.ErrWeakCredential) {
		t.Fatalf("expected ErrWeakCredential, got %v", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "moore",
		Email:    "moore@example.com",
		Password: "correct-horse-battery",
		Role:     "principal",
	})
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestRegisterRejectsSelfAssignedAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "moore",
		Email:    "moore@example.com",
		Password: "correct-horse-battery",
		Role:     "admin",
	})
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("denied registration must not write to the store")
	}
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	registerTeacher(t, svc, "moore", "moore@example.com")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "moore",
		Email:    "other@example.com",
		Password: "correct-horse-battery",
		Role:     "student",
	})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	registerTeacher(t, svc, "moore", "moore@example.com")

	_, err := svc.Login(context.Background(), LoginRequest{LoginField: "moore", Password: "wrong-password"})
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// Unknown principal gets the same error to avoid account probing.
	_, err = svc.Login(context.Background(), LoginRequest{LoginField: "nobody", Password: "wrong-password"})
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown account, got %v", err)
	}
}

func TestAssignRoleRequiresAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	target := registerTeacher(t, svc, "moore", "moore@example.com")

	teacher := authz.Actor{ID: "other", Role: model.RoleTeacher}
	_, err := svc.AssignRole(context.Background(), teacher, target.ID, model.RoleAdmin)
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.users[target.ID].Role != model.RoleTeacher {
		t.Fatalf("denied assignment must not change the store")
	}

	admin := authz.Actor{ID: "root", Role: model.RoleAdmin}
	updated, err := svc.AssignRole(context.Background(), admin, target.ID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("admin assignment failed: %v", err)
	}
	if updated.Role != model.RoleAdmin || repo.users[target.ID].Role != model.RoleAdmin {
		t.Fatalf("role change not persisted")
	}
}

func TestAssignRoleRejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	target := registerTeacher(t, svc, "moore", "moore@example.com")

	admin := authz.Actor{ID: "root", Role: model.RoleAdmin}
	_, err := svc.AssignRole(context.Background(), admin, target.ID, model.Role("superuser"))
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestBootstrapAdminPromotesConfiguredAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	user := registerTeacher(t, svc, "moore", "moore@example.com")

	svc.BootstrapAdmin(context.Background(), "moore@example.com")
	if repo.users[user.ID].Role != model.RoleAdmin {
		t.Fatalf("bootstrap did not promote the account")
	}

	// Missing account and empty email are both quiet no-ops.
	svc.BootstrapAdmin(context.Background(), "nobody@example.com")
	svc.BootstrapAdmin(context.Background(), "")
}

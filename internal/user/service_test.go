// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

const reservedEmail = "owner@oonkoo.com"

type fakeRepo struct {
	users   map[string]*User
	deleted []string
	synced  []SyncParams
}

func newFakeRepo(users ...*User) *fakeRepo {
	r := &fakeRepo{users: make(map[string]*User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, u *User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r *fakeRepo) Sync(_ context.Context, p SyncParams) (*User, error) {
	r.synced = append(r.synced, p)
	u := &User{ID: p.ID, Email: p.Email, Name: p.Name, Role: p.Role, Permissions: p.Permissions, IsAdmin: p.IsAdmin}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeRepo) UpdateProfile(_ context.Context, u *User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeRepo) UpdateAccess(
	_ context.Context,
	id string,
	decide func(*User) (AccessUpdate, error),
) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	current := *u
	change, err := decide(&current)
	if err != nil {
		return nil, err
	}
	u.Role, u.Permissions, u.IsAdmin = change.Role, change.Permissions, change.IsAdmin
	clone := *u
	return &clone, nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRepo) List(context.Context, ListUsersParams) ([]User, int, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (r *fakeRepo) CountByRole(context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, u := range r.users {
		counts[string(u.Role)]++
	}
	return counts, nil
}

func fixtures() *fakeRepo {
	return newFakeRepo(
		&User{ID: "u-super", Email: reservedEmail, Role: permission.RoleSuperAdmin, Permissions: permission.FullSet(), IsAdmin: true},
		&User{ID: "u-client", Email: "client@acme.io", Role: permission.RoleClient},
		&User{ID: "u-stale", Email: "former@oonkoo.com", Role: permission.RoleSuperAdmin},
	)
}

var superActor = &auth.Principal{ID: "u-super", Email: reservedEmail, Role: permission.RoleSuperAdmin}

func ptr[T any](v T) *T { return &v }

func ruleStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *core.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.StatusCode
}

func TestUpdatePermissionsPromotesAndSanitizes(t *testing.T) {
	repo := fixtures()
	svc := NewService(repo, reservedEmail)

	u, err := svc.UpdatePermissions(context.Background(), superActor, "u-client", UpdatePermissionsRequest{
		Role:        ptr("ADMIN"),
		Permissions: &[]string{"MANAGE_USERS", "MANAGE_SALES"},
	})
	if err != nil {
		t.Fatalf("UpdatePermissions: %v", err)
	}

	if u.Role != permission.RoleAdmin || !u.IsAdmin {
		t.Fatalf("expected ADMIN with isAdmin, got %s/%v", u.Role, u.IsAdmin)
	}
	if u.Permissions.Has(permission.ManageUsers) {
		t.Fatal("MANAGE_USERS must be stripped")
	}
	if !u.Permissions.Has(permission.ManageSales) {
		t.Fatal("MANAGE_SALES should be kept")
	}
}

func TestUpdatePermissionsDemotionClearsAdminFlag(t *testing.T) {
	repo := fixtures()
	repo.users["u-client"].Role = permission.RoleAdmin
	repo.users["u-client"].IsAdmin = true
	svc := NewService(repo, reservedEmail)

	u, err := svc.UpdatePermissions(context.Background(), superActor, "u-client", UpdatePermissionsRequest{
		Role: ptr("VIEWER"),
	})
	if err != nil {
		t.Fatalf("UpdatePermissions: %v", err)
	}
	if u.IsAdmin {
		t.Fatal("isAdmin must follow the role")
	}
}

func TestUpdatePermissionsRules(t *testing.T) {
	cases := []struct {
		name   string
		actor  *auth.Principal
		target string
		req    UpdatePermissionsRequest
		status int
	}{
		{
			name:   "assign super admin",
			actor:  superActor,
			target: "u-client",
			req:    UpdatePermissionsRequest{Role: ptr("SUPER_ADMIN")},
			status: http.StatusBadRequest,
		},
		{
			name:   "assign super admin to self",
			actor:  superActor,
			target: "u-super",
			req:    UpdatePermissionsRequest{Role: ptr("SUPER_ADMIN")},
			status: http.StatusBadRequest,
		},
		{
			name:   "modify self",
			actor:  superActor,
			target: "u-super",
			req:    UpdatePermissionsRequest{Permissions: &[]string{"VIEW_ANALYTICS"}},
			status: http.StatusForbidden,
		},
		{
			name:   "modify stored super admin",
			actor:  superActor,
			target: "u-stale",
			req:    UpdatePermissionsRequest{Role: ptr("CLIENT")},
			status: http.StatusForbidden,
		},
		{
			name:   "unknown permission",
			actor:  superActor,
			target: "u-client",
			req:    UpdatePermissionsRequest{Permissions: &[]string{"ROOT"}},
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(fixtures(), reservedEmail)
			_, err := svc.UpdatePermissions(context.Background(), tc.actor, tc.target, tc.req)
			if got := ruleStatus(t, err); got != tc.status {
				t.Fatalf("expected %d, got %d (%v)", tc.status, got, err)
			}
		})
	}
}

func TestUpdatePermissionsMissingTarget(t *testing.T) {
	svc := NewService(fixtures(), reservedEmail)

	_, err := svc.UpdatePermissions(context.Background(), superActor, "nobody", UpdatePermissionsRequest{Role: ptr("CLIENT")})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUserProtectsReservedAccount(t *testing.T) {
	repo := fixtures()
	svc := NewService(repo, reservedEmail)

	err := svc.DeleteUser(context.Background(), "u-super")
	if got := ruleStatus(t, err); got != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", got)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("reserved account reached storage: %v", repo.deleted)
	}

	if err := svc.DeleteUser(context.Background(), "u-client"); err != nil {
		t.Fatalf("delete client: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "u-client" {
		t.Fatalf("unexpected deletions %v", repo.deleted)
	}
}

func TestSyncPrincipalStripsManageUsersBelowSuperAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, reservedEmail)

	p, err := svc.SyncPrincipal(context.Background(), auth.SyncInput{
		Email:       "jane@acme.io",
		Role:        permission.RoleManager,
		Permissions: permission.NewSet(permission.ManageUsers, permission.ManageSales),
	})
	if err != nil {
		t.Fatalf("SyncPrincipal: %v", err)
	}
	if p.Permissions.Has(permission.ManageUsers) {
		t.Fatal("MANAGE_USERS persisted for a MANAGER")
	}
	if repo.synced[0].IsAdmin {
		t.Fatal("MANAGER must not be flagged admin")
	}
}

// AngelaMos | 2026
// service_test.go

package lead

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

type fakeRepo struct {
	leads    map[string]*Lead
	listedBy []string
	failFK   bool
}

func (f *fakeRepo) Create(_ context.Context, l *Lead) error {
	if f.failFK {
		return core.ErrInvalidInput
	}
	f.leads[l.ID] = l
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *l
	return &clone, nil
}

func (f *fakeRepo) Update(_ context.Context, l *Lead) error {
	f.leads[l.ID] = l
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, params ListLeadsParams) ([]Lead, int, error) {
	f.listedBy = append(f.listedBy, params.OwnerID)
	return nil, 0, nil
}

func (f *fakeRepo) CountByStatus(context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

var (
	manager = &auth.Principal{ID: "u-manager", Role: permission.RoleManager, Permissions: permission.NewSet(permission.ManageLeads)}
	owner   = &auth.Principal{ID: "u-owner", Role: permission.RoleClient}
	other   = &auth.Principal{ID: "u-other", Role: permission.RoleClient}
)

func newFixture() *fakeRepo {
	return &fakeRepo{leads: map[string]*Lead{
		"l-1": {ID: "l-1", OwnerID: "u-owner", Name: "Acme", Status: StatusNew},
	}}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *core.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.StatusCode
}

func TestCreateAssignsOwner(t *testing.T) {
	repo := newFixture()
	svc := NewService(repo)
	ctx := context.Background()

	l, err := svc.Create(ctx, owner, CreateLeadRequest{Name: "Mine", Email: "a@b.io"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.OwnerID != owner.ID || l.Status != StatusNew {
		t.Fatalf("unexpected lead %+v", l)
	}

	_, err = svc.Create(ctx, owner, CreateLeadRequest{Name: "Theirs", Email: "a@b.io", OwnerID: "u-other"})
	if got := statusOf(t, err); got != http.StatusForbidden {
		t.Fatalf("expected 403 assigning owner without MANAGE_LEADS, got %d", got)
	}

	l, err = svc.Create(ctx, manager, CreateLeadRequest{Name: "Assigned", Email: "a@b.io", OwnerID: "u-other"})
	if err != nil {
		t.Fatalf("Create as manager: %v", err)
	}
	if l.OwnerID != "u-other" {
		t.Fatalf("manager assignment ignored, owner %s", l.OwnerID)
	}
}

func TestCreateUnknownOwnerIsValidationError(t *testing.T) {
	repo := newFixture()
	repo.failFK = true

	_, err := NewService(repo).Create(context.Background(), manager, CreateLeadRequest{Name: "x", Email: "a@b.io", OwnerID: "u-ghost"})
	if got := statusOf(t, err); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestListScopesToOwnerWithoutPermission(t *testing.T) {
	repo := newFixture()
	svc := NewService(repo)

	_, _, _ = svc.List(context.Background(), owner, ListLeadsParams{OwnerID: "u-other"})
	_, _, _ = svc.List(context.Background(), manager, ListLeadsParams{})

	if repo.listedBy[0] != "u-owner" {
		t.Fatalf("client listing not scoped, got %q", repo.listedBy[0])
	}
	if repo.listedBy[1] != "" {
		t.Fatalf("manager listing scoped to %q", repo.listedBy[1])
	}
}

func TestGetRequiresOwnershipOrPermission(t *testing.T) {
	svc := NewService(newFixture())
	ctx := context.Background()

	cases := []struct {
		name   string
		caller *auth.Principal
		ok     bool
	}{
		{"owner", owner, true},
		{"manager", manager, true},
		{"stranger", other, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Get(ctx, tc.caller, "l-1")
			if tc.ok && err != nil {
				t.Fatalf("expected access, got %v", err)
			}
			if !tc.ok && !errors.Is(err, core.ErrForbidden) {
				t.Fatalf("expected forbidden, got %v", err)
			}
		})
	}

	if _, err := svc.Get(ctx, manager, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOwnerCannotChangeStatus(t *testing.T) {
	repo := newFixture()
	svc := NewService(repo)
	ctx := context.Background()
	qualified := "qualified"
	notes := "called twice"

	_, err := svc.Update(ctx, owner, "l-1", UpdateLeadRequest{Status: &qualified})
	if !errors.Is(err, ErrStatusChange) {
		t.Fatalf("expected status change rejection, got %v", err)
	}

	l, err := svc.Update(ctx, owner, "l-1", UpdateLeadRequest{Notes: &notes})
	if err != nil {
		t.Fatalf("descriptive update: %v", err)
	}
	if l.Notes != notes {
		t.Fatalf("notes not applied")
	}

	l, err = svc.Update(ctx, manager, "l-1", UpdateLeadRequest{Status: &qualified})
	if err != nil {
		t.Fatalf("manager status change: %v", err)
	}
	if repo.leads["l-1"].Status != StatusQualified || l.Status != StatusQualified {
		t.Fatalf("status not persisted")
	}
}

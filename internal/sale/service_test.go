// AngelaMos | 2026
// service_test.go

package sale

import (
	"context"
	"errors"
	"testing"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

type fakeRepo struct {
	items map[string]*Inquiry
}

func (f *fakeRepo) Create(_ context.Context, s *Inquiry) error {
	f.items[s.ID] = s
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Inquiry, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeRepo) Update(_ context.Context, s *Inquiry) error {
	f.items[s.ID] = s
	return nil
}

func (f *fakeRepo) Delete(context.Context, string) error { return nil }

func (f *fakeRepo) List(context.Context, ListSalesParams) ([]Inquiry, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) CountByStatus(context.Context) (map[string]int, error) {
	return nil, nil
}

func TestSaleStatusIsManaged(t *testing.T) {
	repo := &fakeRepo{items: map[string]*Inquiry{}}
	svc := NewService(repo)
	ctx := context.Background()

	buyer := &auth.Principal{ID: "u-buyer", Role: permission.RoleClient}
	manager := &auth.Principal{ID: "u-sales", Role: permission.RoleManager, Permissions: permission.NewSet(permission.ManageSales)}

	inq, err := svc.Create(ctx, buyer, CreateSaleRequest{Name: "Buyer", Email: "b@acme.io", PackageID: "growth"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	won := "won"
	if _, err := svc.Update(ctx, buyer, inq.ID, UpdateSaleRequest{Status: &won}); !errors.Is(err, ErrStatusChange) {
		t.Fatalf("expected ErrStatusChange, got %v", err)
	}

	same := "new"
	if _, err := svc.Update(ctx, buyer, inq.ID, UpdateSaleRequest{Status: &same}); err != nil {
		t.Fatalf("unchanged status should pass: %v", err)
	}

	updated, err := svc.Update(ctx, manager, inq.ID, UpdateSaleRequest{Status: &won})
	if err != nil {
		t.Fatalf("manager update: %v", err)
	}
	if updated.Status != StatusWon {
		t.Fatalf("expected won, got %s", updated.Status)
	}

	stranger := &auth.Principal{ID: "u-stranger", Role: permission.RoleClient}
	if _, err := svc.Get(ctx, stranger, inq.ID); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}

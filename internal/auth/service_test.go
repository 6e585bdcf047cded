// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oonkoo/dashboard-api/internal/middleware"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func (m *memoryRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Duration)
	}
	m.revoked[id] = ttl
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[id]
	return ok, nil
}

type stubVerifier struct {
	identity *middleware.Identity
}

func (s stubVerifier) VerifyIdentity(context.Context, string) (*middleware.Identity, error) {
	clone := *s.identity
	return &clone, nil
}

func TestSyncSessionCreatesWithDefaultRole(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, nil, nil, reservedEmail, permission.RoleClient)

	p, err := svc.SyncSession(context.Background(), &middleware.Identity{
		Email:   "new@acme.io",
		Name:    "New Person",
		Picture: "https://img.example/new.png",
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if p.Role != permission.RoleClient {
		t.Fatalf("expected CLIENT, got %s", p.Role)
	}
	if !p.Permissions.IsEmpty() {
		t.Fatalf("new principal should have no custom grants, got %v", p.Permissions.Strings())
	}
	if p.Name != "New Person" || p.Image != "https://img.example/new.png" {
		t.Fatalf("profile not copied from claim: %+v", p)
	}
	if store.syncs[0].Force {
		t.Fatal("ordinary login must not force role")
	}
}

func TestSyncSessionForcesReservedSuperAdmin(t *testing.T) {
	store := newMemoryStore(&Principal{
		ID:    "u-super",
		Email: reservedEmail,
		Role:  permission.RoleViewer,
	})
	svc := NewService(store, nil, nil, reservedEmail, permission.RoleClient)

	p, err := svc.SyncSession(context.Background(), &middleware.Identity{Email: reservedEmail})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if p.Role != permission.RoleSuperAdmin {
		t.Fatalf("expected SUPER_ADMIN, got %s", p.Role)
	}
	if p.Permissions != permission.FullSet() {
		t.Fatalf("expected full set, got %v", p.Permissions.Strings())
	}
	if !p.IsAdmin {
		t.Fatal("expected isAdmin")
	}
}

func TestSyncSessionCaseVariantIsNotReserved(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, nil, nil, reservedEmail, permission.RoleClient)

	p, err := svc.SyncSession(context.Background(), &middleware.Identity{Email: "OWNER@oonkoo.com"})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if p.Role != permission.RoleClient {
		t.Fatalf("case variant must not be promoted, got %s", p.Role)
	}
}

func TestSyncSessionRequiresEmail(t *testing.T) {
	svc := NewService(newMemoryStore(), nil, nil, reservedEmail, permission.RoleClient)

	if _, err := svc.SyncSession(context.Background(), &middleware.Identity{}); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}

func TestEndSessionRevokesToken(t *testing.T) {
	revocations := &memoryRevocations{}
	identity := &middleware.Identity{
		Email:     "jane@acme.io",
		TokenID:   "jti-1",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	svc := NewService(newMemoryStore(), stubVerifier{identity}, revocations, reservedEmail, permission.RoleClient)

	if _, err := svc.VerifyIdentity(context.Background(), "token"); err != nil {
		t.Fatalf("verify before sign out: %v", err)
	}

	if err := svc.EndSession(context.Background(), identity); err != nil {
		t.Fatalf("end session: %v", err)
	}

	if ttl := revocations.revoked["jti-1"]; ttl <= 0 || ttl > 10*time.Minute {
		t.Fatalf("unexpected revocation ttl %s", ttl)
	}

	if _, err := svc.VerifyIdentity(context.Background(), "token"); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestVerifyIdentityFailsOpenOnRevocationError(t *testing.T) {
	revocations := &memoryRevocations{err: errors.New("redis down")}
	identity := &middleware.Identity{Email: "jane@acme.io", TokenID: "jti-2"}
	svc := NewService(newMemoryStore(), stubVerifier{identity}, revocations, reservedEmail, permission.RoleClient)

	if _, err := svc.VerifyIdentity(context.Background(), "token"); err != nil {
		t.Fatalf("expected fail-open, got %v", err)
	}
}

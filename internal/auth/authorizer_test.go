// AngelaMos | 2026
// authorizer_test.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/middleware"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

const reservedEmail = "owner@oonkoo.com"

type memoryStore struct {
	mu      sync.Mutex
	byEmail map[string]*Principal
	err     error
	syncs   []SyncInput
}

func newMemoryStore(principals ...*Principal) *memoryStore {
	s := &memoryStore{byEmail: make(map[string]*Principal)}
	for _, p := range principals {
		s.byEmail[p.Email] = p
	}
	return s
}

func (s *memoryStore) FindPrincipal(_ context.Context, email string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *memoryStore) SyncPrincipal(_ context.Context, in SyncInput) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncs = append(s.syncs, in)

	p, ok := s.byEmail[in.Email]
	if !ok {
		p = &Principal{
			ID:          "id-" + in.Email,
			Email:       in.Email,
			Role:        in.Role,
			Permissions: in.Permissions,
			IsAdmin:     permission.IsAdminRole(in.Role),
		}
		s.byEmail[in.Email] = p
	}

	p.Name = in.Name
	p.Image = in.Image
	if in.Force {
		p.Role = in.Role
		p.Permissions = in.Permissions
		p.IsAdmin = permission.IsAdminRole(in.Role)
	}

	clone := *p
	return &clone, nil
}

func principalFixtures() []*Principal {
	return []*Principal{
		{ID: "u-super", Email: reservedEmail, Role: permission.RoleSuperAdmin, Permissions: permission.FullSet()},
		{ID: "u-admin", Email: "admin@oonkoo.com", Role: permission.RoleAdmin, IsAdmin: true},
		{ID: "u-manager", Email: "manager@oonkoo.com", Role: permission.RoleManager},
		{ID: "u-client", Email: "client@acme.io", Role: permission.RoleClient},
		{
			ID:          "u-granted",
			Email:       "granted@acme.io",
			Role:        permission.RoleClient,
			Permissions: permission.NewSet(permission.ManageClients),
		},
		// stale stored role on a non-reserved email
		{ID: "u-stale", Email: "former@oonkoo.com", Role: permission.RoleSuperAdmin, Permissions: permission.FullSet()},
	}
}

func serve(h http.Handler, email string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if email != "" {
		req = req.WithContext(middleware.WithIdentity(req.Context(), &middleware.Identity{Email: email}))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func okHandler(w http.ResponseWriter, _ *http.Request, p *Principal) {
	core.OK(w, map[string]string{"id": p.ID})
}

func TestRequireOutcomes(t *testing.T) {
	a := NewAuthorizer(newMemoryStore(principalFixtures()...), reservedEmail)
	h := a.Require(permission.ManageClients, okHandler)

	cases := []struct {
		name    string
		email   string
		status  int
		message string
	}{
		{"anonymous", "", http.StatusUnauthorized, "Unauthorized"},
		{"unknown principal", "ghost@acme.io", http.StatusNotFound, "User not found"},
		{"client without grant", "client@acme.io", http.StatusForbidden, "Forbidden"},
		{"manager default set", "manager@oonkoo.com", http.StatusForbidden, "Forbidden"},
		{"client with custom grant", "granted@acme.io", http.StatusOK, ""},
		{"admin", "admin@oonkoo.com", http.StatusOK, ""},
		{"super admin", reservedEmail, http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, tc.email)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, rec.Code, rec.Body.String())
			}
			if tc.message != "" {
				if got := errorBody(t, rec); got != tc.message {
					t.Fatalf("expected %q, got %q", tc.message, got)
				}
			}
		})
	}
}

func TestRequireStoreFailureIsInternal(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection reset")

	a := NewAuthorizer(store, reservedEmail)
	rec := serve(a.Require(permission.ViewOwnData, okHandler), "client@acme.io")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "Internal server error" {
		t.Fatalf("internal detail leaked: %q", got)
	}
}

func TestRequireAny(t *testing.T) {
	a := NewAuthorizer(newMemoryStore(principalFixtures()...), reservedEmail)
	h := a.RequireAny(
		[]permission.Permission{permission.ManageSales, permission.ManageLeads},
		okHandler,
	)

	if rec := serve(h, "manager@oonkoo.com"); rec.Code != http.StatusOK {
		t.Fatalf("manager holds MANAGE_LEADS, got %d", rec.Code)
	}
	if rec := serve(h, "client@acme.io"); rec.Code != http.StatusForbidden {
		t.Fatalf("client holds neither, got %d", rec.Code)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	store := newMemoryStore(principalFixtures()...)
	a := NewAuthorizer(store, reservedEmail)
	h := a.RequireSuperAdmin(okHandler)

	if rec := serve(h, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}

	rec := serve(h, "former@oonkoo.com")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stale SUPER_ADMIN role must not pass, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != superAdminRequired {
		t.Fatalf("unexpected message %q", got)
	}

	// rejected before the store is consulted
	store.err = errors.New("store must not be called")
	if rec := serve(h, "admin@oonkoo.com"); rec.Code != http.StatusForbidden {
		t.Fatalf("admin: expected 403, got %d", rec.Code)
	}
	store.err = nil

	if rec := serve(h, reservedEmail); rec.Code != http.StatusOK {
		t.Fatalf("reserved email: expected 200, got %d", rec.Code)
	}
}

func TestRequireSuperAdminWithoutRecord(t *testing.T) {
	a := NewAuthorizer(newMemoryStore(), reservedEmail)
	rec := serve(a.RequireSuperAdmin(okHandler), reservedEmail)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before first login sync, got %d", rec.Code)
	}
}

func TestIsSuperAdminExactMatch(t *testing.T) {
	a := NewAuthorizer(newMemoryStore(), reservedEmail)

	cases := map[string]bool{
		reservedEmail:        true,
		"Owner@oonkoo.com":   false,
		"OWNER@OONKOO.COM":   false,
		" owner@oonkoo.com":  false,
		"owner@oonkoo.com.":  false,
		"":                   false,
		"someone@oonkoo.com": false,
	}

	for email, want := range cases {
		if got := a.IsSuperAdmin(email); got != want {
			t.Errorf("IsSuperAdmin(%q) = %v, want %v", email, got, want)
		}
	}
}

func TestCanAccessResource(t *testing.T) {
	a := NewAuthorizer(newMemoryStore(principalFixtures()...), reservedEmail)
	ctx := context.Background()

	cases := []struct {
		name    string
		email   string
		ownerID string
		want    bool
	}{
		{"owner without permission", "client@acme.io", "u-client", true},
		{"non-owner without permission", "client@acme.io", "u-other", false},
		{"permission holder", "manager@oonkoo.com", "u-other", true},
		{"unknown caller", "ghost@acme.io", "u-client", false},
		{"empty owner", "client@acme.io", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.CanAccessResource(ctx, tc.email, tc.ownerID, permission.ManageLeads)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPostAuthMiddlewareSeesPrincipal(t *testing.T) {
	a := NewAuthorizer(newMemoryStore(principalFixtures()...), reservedEmail)

	var seen middleware.PrincipalInfo
	a.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = middleware.GetPrincipal(r.Context())
			next.ServeHTTP(w, r)
		})
	})

	rec := serve(a.Authenticated(okHandler), "manager@oonkoo.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.ID != "u-manager" || seen.Role != "MANAGER" {
		t.Fatalf("unexpected principal info %+v", seen)
	}
}

func TestDeniedIdentitiesSpendRateBudget(t *testing.T) {
	a := NewAuthorizer(newMemoryStore(principalFixtures()...), reservedEmail)
	a.Use(middleware.RoleRateLimiter(t.Context(), nil, nil, middleware.PerMinute(1, 1)))
	h := a.Require(permission.ManageClients, okHandler)

	cases := []struct {
		name   string
		email  string
		denied int
	}{
		{"unknown principal", "stranger@example.com", http.StatusNotFound},
		{"forbidden principal", "client@acme.io", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := serve(h, tc.email); rec.Code != tc.denied {
				t.Fatalf("first request: expected %d, got %d", tc.denied, rec.Code)
			}

			limited := 0
			for i := 0; i < 20; i++ {
				if serve(h, tc.email).Code == http.StatusTooManyRequests {
					limited++
				}
			}
			if limited == 0 {
				t.Fatal("denied requests were never rate limited")
			}
		})
	}

	if rec := serve(h, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}
}

type rejectingVerifier struct{ err error }

func (v rejectingVerifier) VerifyIdentity(context.Context, string) (*middleware.Identity, error) {
	return nil, v.err
}

func TestUnauthenticatedNamesRejectedToken(t *testing.T) {
	a := NewAuthorizer(newMemoryStore(principalFixtures()...), reservedEmail)

	cases := []struct {
		name   string
		err    error
		header string
		code   string
	}{
		{"no token", nil, "", "UNAUTHORIZED"},
		{"expired", fmt.Errorf("verify identity: %w", core.ErrTokenExpired), "Bearer stale", "TOKEN_EXPIRED"},
		{"invalid", fmt.Errorf("verify identity: %w", core.ErrTokenInvalid), "Bearer forged", "TOKEN_INVALID"},
		{"revoked", fmt.Errorf("verify identity: %w: %w", ErrTokenRevoked, core.ErrTokenInvalid), "Bearer old", "TOKEN_INVALID"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.Identify(rejectingVerifier{err: tc.err}, "session")(
				a.Authenticated(okHandler),
			)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			var body core.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != "Unauthorized" || body.Code != tc.code {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

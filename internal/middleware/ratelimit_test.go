// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oonkoo/dashboard-api/internal/config"
)

func withPrincipal(r *http.Request, p PrincipalInfo) *http.Request {
	return r.WithContext(WithPrincipal(r.Context(), p))
}

func TestRoleRateLimiterUsesRoleBudget(t *testing.T) {
	roles := map[string]config.RoleLimit{
		"CLIENT": {RequestsPerMinute: 1, Burst: 1},
		"ADMIN":  {RequestsPerMinute: 600, Burst: 100},
	}
	handler := RoleRateLimiter(t.Context(), nil, roles, PerMinute(1, 1))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	client := PrincipalInfo{ID: "u-client", Email: "c@acme.io", Role: "CLIENT"}
	admin := PrincipalInfo{ID: "u-admin", Email: "a@oonkoo.com", Role: "ADMIN"}

	serve := func(p PrincipalInfo) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := withPrincipal(httptest.NewRequest(http.MethodGet, "/v1/leads", nil), p)
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := serve(client); rec.Code != http.StatusNoContent {
		t.Fatalf("first client request: %d", rec.Code)
	}

	rec := serve(client)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second client request: expected 429, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "RATE_LIMITED" {
		t.Fatalf("unexpected body %v", body)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}

	for i := 0; i < 5; i++ {
		if rec := serve(admin); rec.Code != http.StatusNoContent {
			t.Fatalf("admin request %d limited: %d", i, rec.Code)
		}
	}
}

func TestRoleRateLimiterPassesAnonymous(t *testing.T) {
	handler := RoleRateLimiter(t.Context(), nil, nil, PerMinute(1, 1))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("anonymous request %d: %d", i, rec.Code)
		}
	}
}

func TestKeyByIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/leads/3f1c2a9e-0000-4000-8000-000000000000", nil)
	req.RemoteAddr = "203.0.113.9:5100"

	if got := KeyByIdentity(req); got != "ratelimit:ip:203.0.113.9" {
		t.Fatalf("anonymous key %q", got)
	}

	req = req.WithContext(WithIdentity(context.Background(), &Identity{Email: "jane@acme.io"}))
	if got := KeyByIdentity(req); got != "ratelimit:identity:jane@acme.io" {
		t.Fatalf("identity key %q", got)
	}
	if got := KeyByIdentityAndEndpoint(req); got != "ratelimit:identity:jane@acme.io:endpoint:/v1/leads/{id}" {
		t.Fatalf("endpoint key %q", got)
	}
}

func TestRoleRateLimiterKeysUnresolvedIdentityByEmail(t *testing.T) {
	roles := map[string]config.RoleLimit{
		"ADMIN": {RequestsPerMinute: 600, Burst: 100},
	}
	handler := RoleRateLimiter(t.Context(), nil, roles, PerMinute(1, 1))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}),
	)

	serve := func(email string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
		req = req.WithContext(WithIdentity(req.Context(), &Identity{Email: email}))
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := serve("ghost@acme.io"); rec.Code != http.StatusNotFound {
		t.Fatalf("first request: %d", rec.Code)
	}
	if rec := serve("ghost@acme.io"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
	if rec := serve("other@acme.io"); rec.Code != http.StatusNotFound {
		t.Fatalf("separate identity shared a budget: %d", rec.Code)
	}
}

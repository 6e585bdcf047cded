// AngelaMos | 2026
// handler_test.go

package client

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/chi/v5"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/config"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/middleware"
	"github.com/oonkoo/dashboard-api/internal/permission"
	"github.com/oonkoo/dashboard-api/internal/user"
)

const reservedEmail = "owner@oonkoo.com"

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func (m *memoryUsers) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return core.ErrDuplicateKey
		}
	}
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memoryUsers) Sync(context.Context, user.SyncParams) (*user.User, error) {
	panic("not used")
}

func (m *memoryUsers) UpdateProfile(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memoryUsers) UpdateAccess(
	context.Context,
	string,
	func(*user.User) (user.AccessUpdate, error),
) (*user.User, error) {
	panic("not used")
}

func (m *memoryUsers) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memoryUsers) List(context.Context, user.ListUsersParams) ([]user.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, len(out), nil
}

func (m *memoryUsers) CountByRole(context.Context) (map[string]int, error) {
	return nil, nil
}

type harness struct {
	expect *httpexpect.Expect
	issuer *auth.IdentityIssuer
	users  *memoryUsers
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	users := &memoryUsers{users: map[string]*user.User{
		"u-super":  {ID: "u-super", Email: reservedEmail, Role: permission.RoleSuperAdmin, Permissions: permission.FullSet(), IsAdmin: true},
		"u-admin":  {ID: "u-admin", Email: "admin@oonkoo.com", Role: permission.RoleAdmin, IsAdmin: true},
		"u-client": {ID: "u-client", Email: "client@acme.io", Role: permission.RoleClient},
		"u-viewer": {ID: "u-viewer", Email: "viewer@acme.io", Role: permission.RoleViewer},
		"u-stale":  {ID: "u-stale", Email: "former@oonkoo.com", Role: permission.RoleSuperAdmin},
	}}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	idCfg := config.IdentityConfig{Issuer: "test", Audience: "dashboard"}
	issuer, err := auth.NewIdentityIssuerFromECDSA(idCfg, key)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	verifier := auth.NewIdentityVerifierWithKey(idCfg, issuer.PublicKey())

	authz := auth.NewAuthorizer(user.NewService(users, reservedEmail), reservedEmail)

	r := chi.NewRouter()
	r.Use(middleware.Identify(verifier, "session"))
	r.Route("/v1", func(r chi.Router) {
		NewHandler(NewService(users, reservedEmail), authz).RegisterRoutes(r)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &harness{
		expect: httpexpect.Default(t, server.URL),
		issuer: issuer,
		users:  users,
	}
}

func (h *harness) token(t *testing.T, email string) string {
	t.Helper()
	tok, err := h.issuer.Issue(middleware.Identity{Email: email}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + tok
}

func TestClientListAuthorization(t *testing.T) {
	h := newHarness(t)

	h.expect.GET("/v1/clients").
		Expect().
		Status(http.StatusUnauthorized).
		JSON().Object().Value("error").String().IsEqual("Unauthorized")

	h.expect.GET("/v1/clients").
		WithHeader("Authorization", h.token(t, "client@acme.io")).
		Expect().
		Status(http.StatusForbidden).
		JSON().Object().Value("error").String().IsEqual("Forbidden")

	h.expect.GET("/v1/clients").
		WithHeader("Authorization", h.token(t, "nobody@acme.io")).
		Expect().
		Status(http.StatusNotFound).
		JSON().Object().Value("error").String().IsEqual("User not found")

	list := h.expect.GET("/v1/clients").
		WithHeader("Authorization", h.token(t, "admin@oonkoo.com")).
		Expect().
		Status(http.StatusOK).
		JSON().Object()
	list.Value("items").Array().Length().IsEqual(5)
	list.Value("total").Number().IsEqual(5)
}

func TestReservedAccountIsImmutable(t *testing.T) {
	h := newHarness(t)
	super := h.token(t, reservedEmail)

	h.expect.DELETE("/v1/clients/u-super").
		WithHeader("Authorization", super).
		Expect().
		Status(http.StatusForbidden).
		JSON().Object().Value("error").String().IsEqual("The super admin account cannot be deleted")

	h.expect.PATCH("/v1/clients/u-super").
		WithHeader("Authorization", super).
		WithJSON(map[string]string{"company": "Elsewhere"}).
		Expect().
		Status(http.StatusForbidden).
		JSON().Object().Value("error").String().IsEqual("The super admin account cannot be modified")

	h.expect.POST("/v1/clients").
		WithHeader("Authorization", h.token(t, "admin@oonkoo.com")).
		WithJSON(map[string]string{"email": reservedEmail, "firstName": "Imposter"}).
		Expect().
		Status(http.StatusForbidden)

	if _, err := h.users.GetByID(context.Background(), "u-super"); err != nil {
		t.Fatalf("reserved account was removed: %v", err)
	}
}

func TestClientCreateAndDelete(t *testing.T) {
	h := newHarness(t)
	admin := h.token(t, "admin@oonkoo.com")

	created := h.expect.POST("/v1/clients").
		WithHeader("Authorization", admin).
		WithJSON(map[string]string{
			"email":     "new@acme.io",
			"firstName": "New",
			"lastName":  "Client",
			"company":   "Acme",
		}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object()
	created.Value("role").String().IsEqual("CLIENT")
	created.Value("name").String().IsEqual("New Client")
	created.Value("isAdmin").Boolean().IsFalse()

	id := created.Value("id").String().Raw()

	h.expect.DELETE("/v1/clients/" + id).
		WithHeader("Authorization", admin).
		Expect().
		Status(http.StatusNoContent)

	h.expect.GET("/v1/clients/" + id).
		WithHeader("Authorization", admin).
		Expect().
		Status(http.StatusNotFound)
}

func TestClientCreateValidation(t *testing.T) {
	h := newHarness(t)

	details := h.expect.POST("/v1/clients").
		WithHeader("Authorization", h.token(t, "admin@oonkoo.com")).
		WithJSON(map[string]string{"email": "not-an-email", "role": "ADMIN"}).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().Value("details").Object()

	details.ContainsKey("email")
	details.ContainsKey("firstName")
	details.ContainsKey("role")
}

func TestStoredSuperAdminIsImmutable(t *testing.T) {
	h := newHarness(t)
	admin := h.token(t, "admin@oonkoo.com")

	h.expect.PATCH("/v1/clients/u-stale").
		WithHeader("Authorization", admin).
		WithJSON(map[string]string{"company": "Elsewhere"}).
		Expect().
		Status(http.StatusForbidden).
		JSON().Object().Value("code").String().IsEqual("SUPER_ADMIN_IMMUTABLE")

	h.expect.DELETE("/v1/clients/u-stale").
		WithHeader("Authorization", admin).
		Expect().
		Status(http.StatusForbidden)

	if _, err := h.users.GetByID(context.Background(), "u-stale"); err != nil {
		t.Fatalf("stored super admin was removed: %v", err)
	}

	h.expect.PATCH("/v1/clients/u-admin").
		WithHeader("Authorization", admin).
		WithJSON(map[string]string{"company": "OonkoO"}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("company").String().IsEqual("OonkoO")
}

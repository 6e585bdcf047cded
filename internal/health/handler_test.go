// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/chi/v5"
)

func serve(t *testing.T, h *Handler) *httpexpect.Expect {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return httpexpect.Default(t, server.URL)
}

func healthy(context.Context) error { return nil }

func TestReadinessReportsEveryDependency(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "database", Checker: CheckerFunc(healthy)},
		Dependency{Name: "redis", Checker: CheckerFunc(healthy)},
	)
	e := serve(t, h)

	body := e.GET("/readyz").
		Expect().
		Status(http.StatusOK).
		JSON().Object()
	body.Value("status").String().IsEqual("ok")
	body.Value("version").String().IsEqual("1.0.0")

	checks := body.Value("checks").Array()
	checks.Length().IsEqual(2)
	checks.Value(0).Object().Value("name").String().IsEqual("database")
	checks.Value(1).Object().Value("name").String().IsEqual("redis")
}

func TestReadinessDegradesOnFailedPing(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "database", Checker: CheckerFunc(healthy)},
		Dependency{Name: "redis", Checker: CheckerFunc(func(context.Context) error {
			return errors.New("connection refused")
		})},
	)
	e := serve(t, h)

	body := e.GET("/readyz").
		Expect().
		Status(http.StatusServiceUnavailable).
		JSON().Object()
	body.Value("status").String().IsEqual("degraded")

	redis := body.Value("checks").Array().Value(1).Object()
	redis.Value("healthy").Boolean().IsFalse()
	redis.Value("message").String().IsEqual("ping failed")
}

func TestMissingCheckerIsUnhealthy(t *testing.T) {
	e := serve(t, NewHandler("", Dependency{Name: "database"}))

	e.GET("/readyz").
		Expect().
		Status(http.StatusServiceUnavailable).
		JSON().Object().
		Value("checks").Array().Value(0).Object().
		Value("message").String().IsEqual("database checker not configured")
}

func TestShutdownFailsProbes(t *testing.T) {
	h := NewHandler("1.0.0")
	e := serve(t, h)

	e.GET("/livez").Expect().Status(http.StatusOK)

	h.SetShutdown(true)

	e.GET("/healthz").
		Expect().
		Status(http.StatusServiceUnavailable).
		JSON().Object().Value("status").String().IsEqual("shutting_down")
	e.GET("/readyz").Expect().Status(http.StatusServiceUnavailable)
}

func TestNotReady(t *testing.T) {
	h := NewHandler("1.0.0")
	h.SetReady(false)

	serve(t, h).GET("/readyz").
		Expect().
		Status(http.StatusServiceUnavailable).
		JSON().Object().Value("status").String().IsEqual("not_ready")
}

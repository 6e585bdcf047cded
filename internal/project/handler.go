// AngelaMos | 2026
// handler.go

package project

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

type Handler struct {
	service   *Service
	authz     *auth.Authorizer
	validator *validator.Validate
	now       func() time.Time
}

func NewHandler(service *Service, authz *auth.Authorizer) *Handler {
	return &Handler{
		service:   service,
		authz:     authz,
		validator: core.NewValidator(),
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.authz.Authenticated(h.List))
		r.Post("/", h.authz.Authenticated(h.Create))
		r.Get("/{projectID}", h.authz.Authenticated(h.Get))
		r.Patch("/{projectID}", h.authz.Authenticated(h.Update))
		r.Delete("/{projectID}", h.authz.Require(permission.ManageProjects, h.Delete))
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	page := core.PageFromRequest(r)
	params := ListProjectsParams{
		ClientID: r.URL.Query().Get("clientId"),
		Status:   r.URL.Query().Get("status"),
		Page:     page,
	}

	items, total, err := h.service.List(r.Context(), p, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToProjectResponseList(items, h.now()), page.Number, page.Size, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	proj, err := h.service.Get(r.Context(), p, chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToProjectResponse(proj, h.now()))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	proj, err := h.service.Create(r.Context(), p, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToProjectResponse(proj, h.now()))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	proj, err := h.service.Update(r.Context(), p, chi.URLParam(r, "projectID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToProjectResponse(proj, h.now()))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	if core.IsNotFound(err) && !core.IsAppError(err) {
		core.NotFound(w, "project")
		return
	}
	core.JSONError(w, err)
}

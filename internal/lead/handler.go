// AngelaMos | 2026
// handler.go

package lead

import (
	"encoding/json"
	"net/http"

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
}

func NewHandler(service *Service, authz *auth.Authorizer) *Handler {
	return &Handler{
		service:   service,
		authz:     authz,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leads", func(r chi.Router) {
		r.Get("/", h.authz.Authenticated(h.List))
		r.Post("/", h.authz.Authenticated(h.Create))
		r.Get("/{leadID}", h.authz.Authenticated(h.Get))
		r.Patch("/{leadID}", h.authz.Authenticated(h.Update))
		r.Delete("/{leadID}", h.authz.Require(permission.ManageLeads, h.Delete))
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	page := core.PageFromRequest(r)
	params := ListLeadsParams{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Page:   page,
	}

	leads, total, err := h.service.List(r.Context(), p, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToLeadResponseList(leads), page.Number, page.Size, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	lead, err := h.service.Get(r.Context(), p, chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToLeadResponse(lead))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	lead, err := h.service.Create(r.Context(), p, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToLeadResponse(lead))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	lead, err := h.service.Update(r.Context(), p, chi.URLParam(r, "leadID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToLeadResponse(lead))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "leadID")); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	if core.IsNotFound(err) && !core.IsAppError(err) {
		core.NotFound(w, "lead")
		return
	}
	core.JSONError(w, err)
}

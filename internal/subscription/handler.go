// AngelaMos | 2026
// handler.go

package subscription

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
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
	manage := func(fn auth.PrincipalHandler) http.HandlerFunc {
		return h.authz.Require(permission.ManageServices, fn)
	}

	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.authz.Authenticated(h.List))
		r.Post("/", h.authz.Authenticated(h.Create))
		r.Get("/{serviceID}", h.authz.Authenticated(h.Get))
		r.Patch("/{serviceID}", h.authz.Authenticated(h.Update))
		r.Delete("/{serviceID}", manage(h.Delete))
		r.Post("/{serviceID}/activate", manage(h.Activate))
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	page := core.PageFromRequest(r)
	params := ListParams{
		UserID: r.URL.Query().Get("userId"),
		Status: r.URL.Query().Get("status"),
		Page:   page,
	}

	subs, total, err := h.service.List(r.Context(), p, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	items := ToServiceResponseList(subs, h.service.Now())
	core.Paginated(w, items, page.Number, page.Size, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	sub, err := h.service.Get(r.Context(), p, chi.URLParam(r, "serviceID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToServiceResponse(sub, h.service.Now()))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	sub, err := h.service.Create(r.Context(), p, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToServiceResponse(sub, h.service.Now()))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	sub, err := h.service.Update(r.Context(), p, chi.URLParam(r, "serviceID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToServiceResponse(sub, h.service.Now()))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "serviceID")); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

// Activate accepts an empty body; admin notes are optional.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req ActivateRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	sub, err := h.service.Activate(r.Context(), p, chi.URLParam(r, "serviceID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Service activated successfully"
	if sub.EndDate != nil {
		message = fmt.Sprintf(
			"Service activated successfully. Next renewal on %s.",
			sub.EndDate.Format("2006-01-02"),
		)
	}

	core.OK(w, ActivateResponse{
		Service: ToServiceResponse(sub, h.service.Now()),
		Message: message,
	})
}

func writeError(w http.ResponseWriter, err error) {
	if core.IsNotFound(err) && !core.IsAppError(err) {
		core.NotFound(w, "service")
		return
	}
	core.JSONError(w, err)
}

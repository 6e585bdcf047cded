// AngelaMos | 2026
// handler.go

package sale

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
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.authz.Authenticated(h.List))
		r.Post("/", h.authz.Authenticated(h.Create))
		r.Get("/{saleID}", h.authz.Authenticated(h.Get))
		r.Patch("/{saleID}", h.authz.Authenticated(h.Update))
		r.Delete("/{saleID}", h.authz.Require(permission.ManageSales, h.Delete))
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	page := core.PageFromRequest(r)
	params := ListSalesParams{
		Status:    r.URL.Query().Get("status"),
		PackageID: r.URL.Query().Get("packageId"),
		Page:      page,
	}

	items, total, err := h.service.List(r.Context(), p, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToSaleResponseList(items), page.Number, page.Size, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	inq, err := h.service.Get(r.Context(), p, chi.URLParam(r, "saleID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToSaleResponse(inq))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	inq, err := h.service.Create(r.Context(), p, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToSaleResponse(inq))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req UpdateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	inq, err := h.service.Update(r.Context(), p, chi.URLParam(r, "saleID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToSaleResponse(inq))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "saleID")); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	if core.IsNotFound(err) && !core.IsAppError(err) {
		core.NotFound(w, "sale inquiry")
		return
	}
	core.JSONError(w, err)
}

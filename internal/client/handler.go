// AngelaMos | 2026
// handler.go

package client

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
	"github.com/oonkoo/dashboard-api/internal/user"
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
	guard := func(fn auth.PrincipalHandler) http.HandlerFunc {
		return h.authz.Require(permission.ManageClients, fn)
	}

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", guard(h.List))
		r.Post("/", guard(h.Create))
		r.Get("/{clientID}", guard(h.Get))
		r.Patch("/{clientID}", guard(h.Update))
		r.Delete("/{clientID}", guard(h.Delete))
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	page := core.PageFromRequest(r)
	params := user.ListUsersParams{
		Page:     page.Number,
		PageSize: page.Size,
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
	}

	clients, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, user.ToUserResponseList(clients), page.Number, page.Size, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, user.ToUserResponse(c))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		writeError(w, err)
		return
	}

	core.Created(w, user.ToUserResponse(c))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	c, err := h.service.Update(r.Context(), chi.URLParam(r, "clientID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, user.ToUserResponse(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "clientID")); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	if core.IsNotFound(err) && !core.IsAppError(err) {
		core.NotFound(w, "client")
		return
	}
	core.JSONError(w, err)
}

// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/core"
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
	r.Route("/users", func(r chi.Router) {
		r.Get("/me", h.authz.Authenticated(h.GetMe))
		r.Put("/me", h.authz.Authenticated(h.UpdateMe))
		r.Get("/me/permissions", h.authz.Authenticated(h.GetMyPermissions))
	})
}

// RegisterAdminRoutes mounts user administration. Every route is limited to
// the reserved super-admin.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Get("/", h.authz.RequireSuperAdmin(h.ListUsers))
		r.Get("/{userID}", h.authz.RequireSuperAdmin(h.GetUser))
		r.Get("/{userID}/permissions", h.authz.RequireSuperAdmin(h.GetPermissions))
		r.Put("/{userID}/permissions", h.authz.RequireSuperAdmin(h.UpdatePermissions))
		r.Delete("/{userID}", h.authz.RequireSuperAdmin(h.DeleteUser))
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	u, err := h.service.GetUser(r.Context(), p.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	u, err := h.service.UpdateMe(r.Context(), p.ID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) GetMyPermissions(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	u, err := h.service.GetUser(r.Context(), p.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToPermissionsResponse(u))
}

// ListUsers returns a paginated list of users with optional filtering.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	params := ListUsersParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "pageSize", 20),
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToPermissionsResponse(u))
}

func (h *Handler) UpdatePermissions(w http.ResponseWriter, r *http.Request, p *auth.Principal) {
	var req UpdatePermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	u, err := h.service.UpdatePermissions(r.Context(), p, chi.URLParam(r, "userID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToPermissionsResponse(u))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	if core.IsNotFound(err) && !core.IsAppError(err) {
		core.NotFound(w, "user")
		return
	}
	core.JSONError(w, err)
}

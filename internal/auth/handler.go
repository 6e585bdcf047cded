// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/middleware"
)

type Handler struct {
	service    *Service
	authorizer *Authorizer
}

func NewHandler(service *Service, authorizer *Authorizer) *Handler {
	return &Handler{
		service:    service,
		authorizer: authorizer,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/session", h.SyncSession)
		r.Get("/session", h.GetSession)
		r.Delete("/session", h.EndSession)
	})
}

// SyncSession is called by the frontend right after the identity provider
// signs a user in. It is the only path that creates principal records.
func (h *Handler) SyncSession(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil || identity.Email == "" {
		unauthenticated(w, r)
		return
	}

	p, err := h.service.SyncSession(r.Context(), identity)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPrincipalResponse(p, h.authorizer.IsSuperAdmin(p.Email)))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Current(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrNoIdentity):
			unauthenticated(w, r)
		case errors.Is(err, ErrPrincipalNotFound):
			core.NotFound(w, "user")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToPrincipalResponse(p, h.authorizer.IsSuperAdmin(p.Email)))
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		unauthenticated(w, r)
		return
	}

	if err := h.service.EndSession(r.Context(), identity); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

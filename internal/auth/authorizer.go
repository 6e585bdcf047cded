// AngelaMos | 2026
// authorizer.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/middleware"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

const (
	outcomeAllowed         = "allowed"
	outcomeUnauthenticated = "unauthenticated"
	outcomeNotFound        = "not_found"
	outcomeForbidden       = "forbidden"
	outcomeError           = "error"
)

var (
	ErrNoIdentity        = errors.New("no identity claim")
	ErrPrincipalNotFound = errors.New("principal not found")
)

const superAdminRequired = "Forbidden: super admin access required"

// PrincipalHandler runs once the caller has been resolved and authorized.
type PrincipalHandler func(w http.ResponseWriter, r *http.Request, p *Principal)

// Authorizer resolves the caller from the identity claim on every request
// and applies permission checks. Nothing is cached between requests.
type Authorizer struct {
	store           PrincipalStore
	superAdminEmail string
	postAuth        []func(http.Handler) http.Handler
}

func NewAuthorizer(store PrincipalStore, superAdminEmail string) *Authorizer {
	return &Authorizer{
		store:           store,
		superAdminEmail: superAdminEmail,
	}
}

// Use registers middleware that wraps every guarded request carrying an
// identity, admitted or denied. The principal is available through
// middleware.GetPrincipal whenever it resolved.
func (a *Authorizer) Use(mws ...func(http.Handler) http.Handler) {
	a.postAuth = append(a.postAuth, mws...)
}

// IsSuperAdmin is an exact, case-sensitive comparison.
func (a *Authorizer) IsSuperAdmin(email string) bool {
	return a.superAdminEmail != "" && email == a.superAdminEmail
}

func (a *Authorizer) SuperAdminEmail() string {
	return a.superAdminEmail
}

// ResolvePrincipal returns ErrNoIdentity when the claim carries no email and
// ErrPrincipalNotFound when no record exists for it.
func (a *Authorizer) ResolvePrincipal(
	ctx context.Context,
	identity *middleware.Identity,
) (*Principal, error) {
	if identity == nil || strings.TrimSpace(identity.Email) == "" {
		return nil, ErrNoIdentity
	}

	p, err := a.store.FindPrincipal(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("resolve principal: %w", err)
	}

	return p, nil
}

// CanAccessResource resolves the caller by email and checks ownership or
// the named permission.
func (a *Authorizer) CanAccessResource(
	ctx context.Context,
	email, ownerID string,
	perm permission.Permission,
) (bool, error) {
	p, err := a.ResolvePrincipal(ctx, &middleware.Identity{Email: email})
	if err != nil {
		if errors.Is(err, ErrNoIdentity) || errors.Is(err, ErrPrincipalNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.CanAccess(ownerID, perm), nil
}

// Authenticated admits any resolved principal.
func (a *Authorizer) Authenticated(h PrincipalHandler) http.HandlerFunc {
	return a.guard("authenticated", false, func(*Principal) bool {
		return true
	}, "", h)
}

func (a *Authorizer) Require(
	perm permission.Permission,
	h PrincipalHandler,
) http.HandlerFunc {
	return a.guard(perm.String(), false, func(p *Principal) bool {
		return p.Effective().Has(perm)
	}, "", h)
}

// RequireAny admits callers holding at least one of perms.
func (a *Authorizer) RequireAny(
	perms []permission.Permission,
	h PrincipalHandler,
) http.HandlerFunc {
	names := make([]string, 0, len(perms))
	for _, perm := range perms {
		names = append(names, perm.String())
	}

	return a.guard(strings.Join(names, "|"), false, func(p *Principal) bool {
		return p.Effective().HasAny(perms...)
	}, "", h)
}

// RequireSuperAdmin rejects any caller whose claim email is not the
// reserved one before the record is looked up, so a stale stored role can
// never admit them.
func (a *Authorizer) RequireSuperAdmin(h PrincipalHandler) http.HandlerFunc {
	return a.guard("super_admin", true, func(*Principal) bool {
		return true
	}, superAdminRequired, h)
}

func (a *Authorizer) guard(
	requirement string,
	superAdminOnly bool,
	allowed func(*Principal) bool,
	forbiddenMessage string,
	h PrincipalHandler,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		identity := middleware.GetIdentity(ctx)

		if identity == nil || identity.Email == "" {
			a.deny(ctx, requirement, outcomeUnauthenticated)
			unauthenticated(w, r)
			return
		}

		if superAdminOnly && !a.IsSuperAdmin(identity.Email) {
			a.reject(w, r, requirement, outcomeForbidden, func(w http.ResponseWriter) {
				core.Forbidden(w, forbiddenMessage)
			})
			return
		}

		p, err := a.ResolvePrincipal(ctx, identity)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoIdentity):
				a.reject(w, r, requirement, outcomeUnauthenticated, func(w http.ResponseWriter) {
					core.Unauthorized(w, "")
				})
			case errors.Is(err, ErrPrincipalNotFound):
				a.reject(w, r, requirement, outcomeNotFound, func(w http.ResponseWriter) {
					core.NotFound(w, "user")
				})
			default:
				a.deny(ctx, requirement, outcomeError)
				core.SetSpanError(ctx, err)
				core.InternalServerError(w, err)
			}
			return
		}

		r = r.WithContext(middleware.WithPrincipal(ctx, p.info()))

		if !allowed(p) {
			a.reject(w, r, requirement, outcomeForbidden, func(w http.ResponseWriter) {
				core.Forbidden(w, forbiddenMessage)
			})
			return
		}

		core.AuthzDecisions.WithLabelValues(outcomeAllowed).Inc()
		core.AddSpanEvent(ctx, "authz.allowed",
			attribute.String("authz.requirement", requirement),
			attribute.String("authz.role", string(p.Role)),
		)

		a.chain(func(w http.ResponseWriter, r *http.Request) {
			h(w, r, p)
		}).ServeHTTP(w, r)
	}
}

// reject records the denial and writes it through the registered
// middleware, so denied identities spend the same budget as admitted ones.
func (a *Authorizer) reject(
	w http.ResponseWriter,
	r *http.Request,
	requirement, outcome string,
	write func(http.ResponseWriter),
) {
	a.deny(r.Context(), requirement, outcome)
	a.chain(func(w http.ResponseWriter, _ *http.Request) {
		write(w)
	}).ServeHTTP(w, r)
}

func (a *Authorizer) chain(fn http.HandlerFunc) http.Handler {
	var next http.Handler = fn
	for i := len(a.postAuth) - 1; i >= 0; i-- {
		next = a.postAuth[i](next)
	}
	return next
}

// unauthenticated renders the 401, naming an expired or invalid token in the
// code when one was presented. The message stays generic.
func unauthenticated(w http.ResponseWriter, r *http.Request) {
	err := middleware.GetTokenError(r.Context())
	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.Unauthorized(w, "")
	}
}

func (a *Authorizer) deny(ctx context.Context, requirement, outcome string) {
	core.AuthzDecisions.WithLabelValues(outcome).Inc()
	core.AddSpanEvent(ctx, "authz.denied",
		attribute.String("authz.requirement", requirement),
		attribute.String("authz.outcome", outcome),
	)
	slog.Debug("authorization denied",
		"requirement", requirement,
		"outcome", outcome,
		"request_id", middleware.GetRequestID(ctx),
	)
}

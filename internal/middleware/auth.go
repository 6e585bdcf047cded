// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	IdentityKey   contextKey = "identity"
	PrincipalKey  contextKey = "principal"
	TokenErrorKey contextKey = "token_error"
)

// Identity is the claim issued by the external identity provider. Email is
// the correlation key against stored principals.
type Identity struct {
	Subject   string
	Email     string
	Name      string
	Picture   string
	TokenID   string
	ExpiresAt time.Time
}

type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, token string) (*Identity, error)
}

// PrincipalInfo is the resolved caller, set by the authorization guard for
// middleware further down the chain.
type PrincipalInfo struct {
	ID    string
	Email string
	Role  string
}

// Identify attaches the identity claim when a valid token is presented.
// Missing or invalid tokens leave the request anonymous; the authorization
// guard decides whether that is acceptable. A rejected token's error is kept
// for GetTokenError.
func Identify(
	verifier IdentityVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verifier.VerifyIdentity(r.Context(), token)
			if err != nil {
				slog.Debug("identity token rejected",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				ctx := context.WithValue(r.Context(), TokenErrorKey, err)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken reads a bearer token, falling back to the session cookie.
func ExtractToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}

	if cookieName == "" {
		return ""
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(cookie.Value)
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

// GetTokenError returns why a presented token was rejected, or nil.
func GetTokenError(ctx context.Context) error {
	if err, ok := ctx.Value(TokenErrorKey).(error); ok {
		return err
	}
	return nil
}

func WithPrincipal(ctx context.Context, p PrincipalInfo) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func GetPrincipal(ctx context.Context) (PrincipalInfo, bool) {
	p, ok := ctx.Value(PrincipalKey).(PrincipalInfo)
	return p, ok
}

func GetEmail(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.Email
	}
	return ""
}

// AngelaMos | 2026
// principal.go

package auth

import (
	"context"

	"github.com/oonkoo/dashboard-api/internal/middleware"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

// Principal is the stored user record behind an identity claim.
// Permissions holds only the grants added on top of the role default.
type Principal struct {
	ID          string
	Email       string
	Name        string
	Image       string
	Role        permission.Role
	Permissions permission.Set
	IsAdmin     bool
}

func (p *Principal) Effective() permission.Set {
	return permission.EffectivePermissions(p.Role, p.Permissions)
}

func (p *Principal) Can(perm permission.Permission) bool {
	return p.Effective().Has(perm)
}

// CanAccess reports whether the principal holds perm outright or owns the
// resource. There is no other path to access.
func (p *Principal) CanAccess(ownerID string, perm permission.Permission) bool {
	if p.Can(perm) {
		return true
	}
	return ownerID != "" && ownerID == p.ID
}

func (p *Principal) info() middleware.PrincipalInfo {
	return middleware.PrincipalInfo{
		ID:    p.ID,
		Email: p.Email,
		Role:  string(p.Role),
	}
}

// SyncInput is the login-time upsert. When Force is set the stored role,
// permissions and admin flag are overwritten; otherwise they only apply to
// a newly created record.
type SyncInput struct {
	Email       string
	Name        string
	Image       string
	Role        permission.Role
	Permissions permission.Set
	Force       bool
}

type PrincipalStore interface {
	// FindPrincipal returns core.ErrNotFound when no record exists.
	FindPrincipal(ctx context.Context, email string) (*Principal, error)
	SyncPrincipal(ctx context.Context, in SyncInput) (*Principal, error)
}

// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/middleware"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

var ErrTokenRevoked = errors.New("token revoked")

// Revocations remembers identity tokens that were signed out before they
// expired.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RedisRevocations struct {
	client *redis.Client
}

func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

func (r *RedisRevocations) Revoke(
	ctx context.Context,
	tokenID string,
	ttl time.Duration,
) error {
	if err := r.client.Set(ctx, "blacklist:"+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (r *RedisRevocations) IsRevoked(
	ctx context.Context,
	tokenID string,
) (bool, error) {
	exists, err := r.client.Exists(ctx, "blacklist:"+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return exists > 0, nil
}

type TokenVerifier interface {
	VerifyIdentity(ctx context.Context, token string) (*middleware.Identity, error)
}

type Service struct {
	store           PrincipalStore
	verifier        TokenVerifier
	revocations     Revocations
	superAdminEmail string
	defaultRole     permission.Role
}

func NewService(
	store PrincipalStore,
	verifier TokenVerifier,
	revocations Revocations,
	superAdminEmail string,
	defaultRole permission.Role,
) *Service {
	if !defaultRole.Valid() {
		defaultRole = permission.RoleClient
	}
	return &Service{
		store:           store,
		verifier:        verifier,
		revocations:     revocations,
		superAdminEmail: superAdminEmail,
		defaultRole:     defaultRole,
	}
}

// VerifyIdentity checks the token signature and claims, then rejects tokens
// that were signed out. Revocation lookups fail open.
func (s *Service) VerifyIdentity(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	identity, err := s.verifier.VerifyIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.revocations == nil || identity.TokenID == "" {
		return identity, nil
	}

	revoked, err := s.revocations.IsRevoked(ctx, identity.TokenID)
	if err != nil {
		slog.Warn("revocation check failed, accepting token",
			"error", err,
			"email", identity.Email,
		)
		return identity, nil
	}
	if revoked {
		return nil, fmt.Errorf("verify identity: %w: %w", ErrTokenRevoked, core.ErrTokenInvalid)
	}

	return identity, nil
}

// SyncSession upserts the principal for a freshly authenticated identity.
// The reserved super-admin email always ends up as SUPER_ADMIN with every
// permission, whatever was stored before.
func (s *Service) SyncSession(
	ctx context.Context,
	identity *middleware.Identity,
) (*Principal, error) {
	if identity == nil || identity.Email == "" {
		return nil, ErrNoIdentity
	}

	in := SyncInput{
		Email: identity.Email,
		Name:  identity.Name,
		Image: identity.Picture,
		Role:  s.defaultRole,
	}

	if s.superAdminEmail != "" && identity.Email == s.superAdminEmail {
		in.Role = permission.RoleSuperAdmin
		in.Permissions = permission.FullSet()
		in.Force = true
	}

	p, err := s.store.SyncPrincipal(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("sync principal: %w", err)
	}

	return p, nil
}

// EndSession revokes the presented token until it would have expired.
func (s *Service) EndSession(
	ctx context.Context,
	identity *middleware.Identity,
) error {
	if s.revocations == nil || identity == nil || identity.TokenID == "" {
		return nil
	}

	ttl := time.Until(identity.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	return s.revocations.Revoke(ctx, identity.TokenID, ttl)
}

func (s *Service) Current(
	ctx context.Context,
	identity *middleware.Identity,
) (*Principal, error) {
	if identity == nil || identity.Email == "" {
		return nil, ErrNoIdentity
	}

	p, err := s.store.FindPrincipal(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}

	return p, nil
}

// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

var (
	errAssignSuperAdmin = core.RuleError(
		http.StatusBadRequest,
		"ROLE_NOT_ASSIGNABLE",
		"The SUPER_ADMIN role cannot be assigned",
	)
	errModifySelf = core.RuleError(
		http.StatusForbidden,
		"SELF_MODIFICATION",
		"You cannot modify your own permissions",
	)
	errModifySuperAdmin = core.RuleError(
		http.StatusForbidden,
		"SUPER_ADMIN_IMMUTABLE",
		"Super admin permissions cannot be modified",
	)
	errDeleteSuperAdmin = core.RuleError(
		http.StatusForbidden,
		"SUPER_ADMIN_IMMUTABLE",
		"The super admin account cannot be deleted",
	)
)

type Service struct {
	repo            Repository
	superAdminEmail string
}

func NewService(repo Repository, superAdminEmail string) *Service {
	return &Service{
		repo:            repo,
		superAdminEmail: superAdminEmail,
	}
}

func (s *Service) isReserved(email string) bool {
	return s.superAdminEmail != "" && email == s.superAdminEmail
}

func (s *Service) FindPrincipal(
	ctx context.Context,
	email string,
) (*auth.Principal, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return u.Principal(), nil
}

func (s *Service) SyncPrincipal(
	ctx context.Context,
	in auth.SyncInput,
) (*auth.Principal, error) {
	u, err := s.repo.Sync(ctx, SyncParams{
		ID:          uuid.New().String(),
		Email:       in.Email,
		Name:        in.Name,
		Image:       in.Image,
		Role:        in.Role,
		Permissions: permissionsFor(in.Role, in.Permissions),
		IsAdmin:     permission.IsAdminRole(in.Role),
		Force:       in.Force,
	})
	if err != nil {
		return nil, err
	}
	return u.Principal(), nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) CountByRole(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByRole(ctx)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateMeRequest,
) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Company != nil {
		u.Company = *req.Company
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// UpdatePermissions applies a role and/or custom-grant change made by actor.
// SUPER_ADMIN can never be assigned, actors cannot change their own grants,
// a stored SUPER_ADMIN is never touched and MANAGE_USERS is always dropped
// from the custom list.
func (s *Service) UpdatePermissions(
	ctx context.Context,
	actor *auth.Principal,
	targetID string,
	req UpdatePermissionsRequest,
) (*User, error) {
	if req.Role != nil && permission.Role(*req.Role) == permission.RoleSuperAdmin {
		return nil, errAssignSuperAdmin
	}

	if actor != nil && actor.ID == targetID {
		return nil, errModifySelf
	}

	var role *permission.Role
	if req.Role != nil {
		parsed, ok := permission.ParseRole(*req.Role)
		if !ok {
			return nil, core.ValidationError(map[string][]string{
				"role": {fmt.Sprintf("unknown role %q", *req.Role)},
			})
		}
		role = &parsed
	}

	var grants *permission.Set
	if req.Permissions != nil {
		parsed, err := permission.ParseSet(*req.Permissions)
		if err != nil {
			return nil, core.ValidationError(map[string][]string{
				"permissions": {err.Error()},
			})
		}
		grants = &parsed
	}

	// the super-admin check and the write see the same locked row
	return s.repo.UpdateAccess(ctx, targetID, func(target *User) (AccessUpdate, error) {
		if target.Role == permission.RoleSuperAdmin || s.isReserved(target.Email) {
			return AccessUpdate{}, errModifySuperAdmin
		}

		next := target.Role
		if role != nil {
			next = *role
		}
		set := target.Permissions
		if grants != nil {
			set = *grants
		}

		return AccessUpdate{
			Role:        next,
			Permissions: permissionsFor(next, set),
			IsAdmin:     permission.IsAdminRole(next),
		}, nil
	})
}

// DeleteUser soft deletes a user. The reserved super-admin account is never
// deletable.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if s.isReserved(target.Email) || target.Role == permission.RoleSuperAdmin {
		return errDeleteSuperAdmin
	}

	return s.repo.SoftDelete(ctx, id)
}

// permissionsFor strips MANAGE_USERS from anyone who is not SUPER_ADMIN.
func permissionsFor(role permission.Role, grants permission.Set) permission.Set {
	if role == permission.RoleSuperAdmin {
		return grants
	}
	return permission.SanitizeGrants(grants)
}

var _ auth.PrincipalStore = (*Service)(nil)

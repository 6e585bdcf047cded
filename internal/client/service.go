// AngelaMos | 2026
// service.go

package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
	"github.com/oonkoo/dashboard-api/internal/user"
)

var (
	ErrSuperAdminModify = core.RuleError(
		http.StatusForbidden,
		"SUPER_ADMIN_IMMUTABLE",
		"The super admin account cannot be modified",
	)
	ErrSuperAdminDelete = core.RuleError(
		http.StatusForbidden,
		"SUPER_ADMIN_IMMUTABLE",
		"The super admin account cannot be deleted",
	)
)

// Service manages user records as agency clients. Accounts holding
// SUPER_ADMIN, by stored role or by the reserved email, are never mutated
// here.
type Service struct {
	users           user.Repository
	superAdminEmail string
}

func NewService(users user.Repository, superAdminEmail string) *Service {
	return &Service{
		users:           users,
		superAdminEmail: superAdminEmail,
	}
}

func (s *Service) isReserved(email string) bool {
	return s.superAdminEmail != "" && email == s.superAdminEmail
}

func (s *Service) isProtected(u *user.User) bool {
	return s.isReserved(u.Email) || u.Role == permission.RoleSuperAdmin
}

func (s *Service) List(
	ctx context.Context,
	params user.ListUsersParams,
) ([]user.User, int, error) {
	return s.users.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateClientRequest,
) (*user.User, error) {
	if s.isReserved(req.Email) {
		return nil, ErrSuperAdminModify
	}

	role := permission.RoleClient
	if req.Role != "" {
		role = permission.Role(req.Role)
	}

	u := &user.User{
		ID:        uuid.New().String(),
		Email:     req.Email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Company:   req.Company,
		Phone:     req.Phone,
		Role:      role,
		IsAdmin:   permission.IsAdminRole(role),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return u, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateClientRequest,
) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.isProtected(u) {
		return nil, ErrSuperAdminModify
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

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if s.isProtected(u) {
		return ErrSuperAdminDelete
	}

	return s.users.SoftDelete(ctx, id)
}

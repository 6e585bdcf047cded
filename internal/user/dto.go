// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/oonkoo/dashboard-api/internal/permission"
)

type UpdateMeRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty"  validate:"omitempty,max=100"`
	Name      *string `json:"name,omitempty"      validate:"omitempty,min=1,max=200"`
	Company   *string `json:"company,omitempty"   validate:"omitempty,max=200"`
	Phone     *string `json:"phone,omitempty"     validate:"omitempty,max=50"`
}

// UpdatePermissionsRequest replaces the role and/or the custom grants of a
// user. Omitted fields are left alone.
type UpdatePermissionsRequest struct {
	Role        *string   `json:"role,omitempty"        validate:"omitempty,role"`
	Permissions *[]string `json:"permissions,omitempty" validate:"omitempty,dive,permission"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Name        string     `json:"name"`
	Image       string     `json:"image,omitempty"`
	Company     string     `json:"company,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	IsAdmin     bool       `json:"isAdmin"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PermissionsResponse keeps role-granted and individually granted
// permissions apart so callers can tell them from each other.
type PermissionsResponse struct {
	UserID               string   `json:"userId"`
	Email                string   `json:"email"`
	Role                 string   `json:"role"`
	Permissions          []string `json:"permissions"`
	EffectivePermissions []string `json:"effectivePermissions"`
	RolePermissions      []string `json:"rolePermissions"`
	IsAdmin              bool     `json:"isAdmin"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Name:        u.DisplayName(),
		Image:       u.Image,
		Company:     u.Company,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Permissions: u.Permissions.Strings(),
		IsAdmin:     u.IsAdmin,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}

func ToPermissionsResponse(u *User) PermissionsResponse {
	return PermissionsResponse{
		UserID:               u.ID,
		Email:                u.Email,
		Role:                 string(u.Role),
		Permissions:          u.Permissions.Strings(),
		EffectivePermissions: u.EffectivePermissions().Strings(),
		RolePermissions:      permission.RolePermissions(u.Role).Strings(),
		IsAdmin:              u.IsAdmin,
	}
}

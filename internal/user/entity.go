// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

// User is the stored principal. Permissions holds custom grants only; the
// role default is never persisted here.
type User struct {
	ID          string          `db:"id"`
	Email       string          `db:"email"`
	FirstName   string          `db:"first_name"`
	LastName    string          `db:"last_name"`
	Name        string          `db:"name"`
	Image       string          `db:"image"`
	Company     string          `db:"company"`
	Phone       string          `db:"phone"`
	Role        permission.Role `db:"role"`
	Permissions permission.Set  `db:"permissions"`
	IsAdmin     bool            `db:"is_admin"`
	LastLoginAt *time.Time      `db:"last_login_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	DeletedAt   *time.Time      `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) EffectivePermissions() permission.Set {
	return permission.EffectivePermissions(u.Role, u.Permissions)
}

// DisplayName falls back to first and last name, then the email.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if full := joinName(u.FirstName, u.LastName); full != "" {
		return full
	}
	return u.Email
}

func (u *User) Principal() *auth.Principal {
	return &auth.Principal{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.DisplayName(),
		Image:       u.Image,
		Role:        u.Role,
		Permissions: u.Permissions,
		IsAdmin:     u.IsAdmin,
	}
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

const userColumns = `id, email, first_name, last_name, name, image, company, phone,
		       role, permissions, is_admin, last_login_at, created_at, updated_at,
		       deleted_at`

// AngelaMos | 2026
// dto.go

package auth

type PrincipalResponse struct {
	ID                   string   `json:"id"`
	Email                string   `json:"email"`
	Name                 string   `json:"name"`
	Image                string   `json:"image,omitempty"`
	Role                 string   `json:"role"`
	Permissions          []string `json:"permissions"`
	EffectivePermissions []string `json:"effectivePermissions"`
	IsAdmin              bool     `json:"isAdmin"`
	IsSuperAdmin         bool     `json:"isSuperAdmin"`
}

func ToPrincipalResponse(p *Principal, superAdmin bool) PrincipalResponse {
	return PrincipalResponse{
		ID:                   p.ID,
		Email:                p.Email,
		Name:                 p.Name,
		Image:                p.Image,
		Role:                 string(p.Role),
		Permissions:          p.Permissions.Strings(),
		EffectivePermissions: p.Effective().Strings(),
		IsAdmin:              p.IsAdmin,
		IsSuperAdmin:         superAdmin,
	}
}

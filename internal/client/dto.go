// AngelaMos | 2026
// dto.go

package client

type CreateClientRequest struct {
	Email     string `json:"email"     validate:"required,email,max=255"`
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName"  validate:"omitempty,max=100"`
	Company   string `json:"company"   validate:"omitempty,max=200"`
	Phone     string `json:"phone"     validate:"omitempty,max=50"`
	Role      string `json:"role"      validate:"omitempty,oneof=VIEWER CLIENT MANAGER"`
}

type UpdateClientRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty"  validate:"omitempty,max=100"`
	Name      *string `json:"name,omitempty"      validate:"omitempty,min=1,max=200"`
	Company   *string `json:"company,omitempty"   validate:"omitempty,max=200"`
	Phone     *string `json:"phone,omitempty"     validate:"omitempty,max=50"`
}

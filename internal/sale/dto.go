// AngelaMos | 2026
// dto.go

package sale

import (
	"time"

	"github.com/oonkoo/dashboard-api/internal/core"
)

type CreateSaleRequest struct {
	Name      string `json:"name"              validate:"required,min=1,max=200"`
	Email     string `json:"email"             validate:"required,email,max=255"`
	Company   string `json:"company"           validate:"omitempty,max=200"`
	PackageID string `json:"packageId"         validate:"required,max=100"`
	Message   string `json:"message"           validate:"omitempty,max=5000"`
	OwnerID   string `json:"ownerId,omitempty" validate:"omitempty,uuid"`
}

type UpdateSaleRequest struct {
	Name      *string `json:"name,omitempty"      validate:"omitempty,min=1,max=200"`
	Email     *string `json:"email,omitempty"     validate:"omitempty,email,max=255"`
	Company   *string `json:"company,omitempty"   validate:"omitempty,max=200"`
	PackageID *string `json:"packageId,omitempty" validate:"omitempty,max=100"`
	Message   *string `json:"message,omitempty"   validate:"omitempty,max=5000"`
	Status    *string `json:"status,omitempty"    validate:"omitempty,oneof=new contacted negotiating won lost"`
}

type ListSalesParams struct {
	OwnerID   string
	Status    string
	PackageID string
	Page      core.Page
}

type SaleResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	PackageID string    `json:"packageId"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToSaleResponse(s *Inquiry) SaleResponse {
	return SaleResponse{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Name:      s.Name,
		Email:     s.Email,
		Company:   s.Company,
		PackageID: s.PackageID,
		Message:   s.Message,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToSaleResponseList(items []Inquiry) []SaleResponse {
	out := make([]SaleResponse, 0, len(items))
	for i := range items {
		out = append(out, ToSaleResponse(&items[i]))
	}
	return out
}

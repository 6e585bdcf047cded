// AngelaMos | 2026
// dto.go

package lead

import (
	"time"

	"github.com/oonkoo/dashboard-api/internal/core"
)

type CreateLeadRequest struct {
	Name    string `json:"name"              validate:"required,min=1,max=200"`
	Email   string `json:"email"             validate:"required,email,max=255"`
	Phone   string `json:"phone"             validate:"omitempty,max=50"`
	Company string `json:"company"           validate:"omitempty,max=200"`
	Source  string `json:"source"            validate:"omitempty,max=100"`
	Message string `json:"message"           validate:"omitempty,max=5000"`
	OwnerID string `json:"ownerId,omitempty" validate:"omitempty,uuid"`
}

type UpdateLeadRequest struct {
	Name    *string `json:"name,omitempty"    validate:"omitempty,min=1,max=200"`
	Email   *string `json:"email,omitempty"   validate:"omitempty,email,max=255"`
	Phone   *string `json:"phone,omitempty"   validate:"omitempty,max=50"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=200"`
	Source  *string `json:"source,omitempty"  validate:"omitempty,max=100"`
	Message *string `json:"message,omitempty" validate:"omitempty,max=5000"`
	Notes   *string `json:"notes,omitempty"   validate:"omitempty,max=5000"`
	Status  *string `json:"status,omitempty"  validate:"omitempty,oneof=new contacted qualified converted lost"`
}

// ListLeadsParams filters a listing. An empty OwnerID lists every lead.
type ListLeadsParams struct {
	OwnerID string
	Status  string
	Search  string
	Page    core.Page
}

type LeadResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Source    string    `json:"source,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToLeadResponse(l *Lead) LeadResponse {
	return LeadResponse{
		ID:        l.ID,
		OwnerID:   l.OwnerID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Company:   l.Company,
		Source:    l.Source,
		Message:   l.Message,
		Status:    string(l.Status),
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func ToLeadResponseList(leads []Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for i := range leads {
		out = append(out, ToLeadResponse(&leads[i]))
	}
	return out
}

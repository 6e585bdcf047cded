// AngelaMos | 2026
// dto.go

package inquiry

import (
	"time"

	"github.com/oonkoo/dashboard-api/internal/core"
)

type CreateInquiryRequest struct {
	Name        string `json:"name"              validate:"required,min=1,max=200"`
	Email       string `json:"email"             validate:"required,email,max=255"`
	Company     string `json:"company"           validate:"omitempty,max=200"`
	ProjectType string `json:"projectType"       validate:"required,max=100"`
	Budget      string `json:"budget"            validate:"omitempty,max=100"`
	Timeline    string `json:"timeline"          validate:"omitempty,max=100"`
	Description string `json:"description"       validate:"required,min=10,max=10000"`
	OwnerID     string `json:"ownerId,omitempty" validate:"omitempty,uuid"`
}

type UpdateInquiryRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	Email       *string `json:"email,omitempty"       validate:"omitempty,email,max=255"`
	Company     *string `json:"company,omitempty"     validate:"omitempty,max=200"`
	ProjectType *string `json:"projectType,omitempty" validate:"omitempty,max=100"`
	Budget      *string `json:"budget,omitempty"      validate:"omitempty,max=100"`
	Timeline    *string `json:"timeline,omitempty"    validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=10,max=10000"`
	Status      *string `json:"status,omitempty"      validate:"omitempty,oneof=new reviewing quoted accepted rejected"`
}

type ListInquiriesParams struct {
	OwnerID string
	Status  string
	Search  string
	Page    core.Page
}

type InquiryResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     string    `json:"company,omitempty"`
	ProjectType string    `json:"projectType"`
	Budget      string    `json:"budget,omitempty"`
	Timeline    string    `json:"timeline,omitempty"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToInquiryResponse(i *Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:          i.ID,
		OwnerID:     i.OwnerID,
		Name:        i.Name,
		Email:       i.Email,
		Company:     i.Company,
		ProjectType: i.ProjectType,
		Budget:      i.Budget,
		Timeline:    i.Timeline,
		Description: i.Description,
		Status:      string(i.Status),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func ToInquiryResponseList(items []Inquiry) []InquiryResponse {
	out := make([]InquiryResponse, 0, len(items))
	for i := range items {
		out = append(out, ToInquiryResponse(&items[i]))
	}
	return out
}

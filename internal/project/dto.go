// AngelaMos | 2026
// dto.go

package project

import (
	"time"

	"github.com/oonkoo/dashboard-api/internal/core"
)

const dateLayout = "2006-01-02"

type CreateProjectRequest struct {
	Name        string   `json:"name"                validate:"required,min=1,max=200"`
	Description string   `json:"description"         validate:"omitempty,max=10000"`
	StartDate   string   `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate     string   `json:"dueDate,omitempty"   validate:"omitempty,datetime=2006-01-02"`
	Budget      *float64 `json:"budget,omitempty"    validate:"omitempty,gte=0"`
	ClientID    string   `json:"clientId,omitempty"  validate:"omitempty,uuid"`
}

// UpdateProjectRequest fields other than name and description are
// management fields.
type UpdateProjectRequest struct {
	Name        *string  `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=10000"`
	Status      *string  `json:"status,omitempty"      validate:"omitempty,oneof=planning in_progress review completed on_hold cancelled"`
	StartDate   *string  `json:"startDate,omitempty"   validate:"omitempty,datetime=2006-01-02"`
	DueDate     *string  `json:"dueDate,omitempty"     validate:"omitempty,datetime=2006-01-02"`
	Budget      *float64 `json:"budget,omitempty"      validate:"omitempty,gte=0"`
	Progress    *int     `json:"progress,omitempty"    validate:"omitempty,gte=0,lte=100"`
}

func (r UpdateProjectRequest) touchesManagement() bool {
	return r.Status != nil || r.StartDate != nil || r.DueDate != nil ||
		r.Budget != nil || r.Progress != nil
}

type ListProjectsParams struct {
	ClientID string
	Status   string
	Page     core.Page
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	StartDate   *string   `json:"startDate"`
	DueDate     *string   `json:"dueDate"`
	Budget      *float64  `json:"budget"`
	Progress    int       `json:"progress"`
	IsOverdue   bool      `json:"isOverdue"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// parseDate expects a value already checked by the datetime validator.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func ToProjectResponse(p *Project, now time.Time) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		StartDate:   formatDate(p.StartDate),
		DueDate:     formatDate(p.DueDate),
		Budget:      p.Budget,
		Progress:    p.Progress,
		IsOverdue:   p.IsOverdue(now),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProjectResponseList(items []Project, now time.Time) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(items))
	for i := range items {
		out = append(out, ToProjectResponse(&items[i], now))
	}
	return out
}

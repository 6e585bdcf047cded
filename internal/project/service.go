// AngelaMos | 2026
// service.go

package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

var (
	ErrManagedField = core.ForbiddenError(
		"Only users with MANAGE_PROJECTS can change project status, schedule, budget or progress",
	)
	ErrClientAssign = core.ForbiddenError(
		"Only users with MANAGE_PROJECTS can create a project for another client",
	)
	errDueBeforeStart = core.ValidationError(map[string][]string{
		"dueDate": {"must not be before startDate"},
	})
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	p *auth.Principal,
	req CreateProjectRequest,
) (*Project, error) {
	client := p.ID
	if req.ClientID != "" && req.ClientID != p.ID {
		if !p.Can(permission.ManageProjects) {
			return nil, ErrClientAssign
		}
		client = req.ClientID
	}

	proj := &Project{
		ID:          uuid.New().String(),
		ClientID:    client,
		Name:        req.Name,
		Description: req.Description,
		Status:      StatusPlanning,
		StartDate:   parseDate(req.StartDate),
		DueDate:     parseDate(req.DueDate),
		Budget:      req.Budget,
	}

	if !validSchedule(proj) {
		return nil, errDueBeforeStart
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			return nil, core.ValidationError(map[string][]string{
				"clientId": {"does not reference an existing user"},
			})
		}
		return nil, err
	}

	return proj, nil
}

func (s *Service) List(
	ctx context.Context,
	p *auth.Principal,
	params ListProjectsParams,
) ([]Project, int, error) {
	if !p.Can(permission.ManageProjects) {
		params.ClientID = p.ID
	}
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, p *auth.Principal, id string) (*Project, error) {
	proj, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.CanAccess(proj.ClientID, permission.ManageProjects) {
		return nil, core.ForbiddenError("")
	}

	return proj, nil
}

func (s *Service) Update(
	ctx context.Context,
	p *auth.Principal,
	id string,
	req UpdateProjectRequest,
) (*Project, error) {
	proj, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.touchesManagement() && !p.Can(permission.ManageProjects) {
		return nil, ErrManagedField
	}

	if req.Name != nil {
		proj.Name = *req.Name
	}
	if req.Description != nil {
		proj.Description = *req.Description
	}
	if req.Status != nil {
		proj.Status = Status(*req.Status)
		if proj.Status == StatusCompleted {
			proj.Progress = 100
		}
	}
	if req.StartDate != nil {
		proj.StartDate = parseDate(*req.StartDate)
	}
	if req.DueDate != nil {
		proj.DueDate = parseDate(*req.DueDate)
	}
	if req.Budget != nil {
		proj.Budget = req.Budget
	}
	if req.Progress != nil {
		proj.Progress = *req.Progress
	}

	if !validSchedule(proj) {
		return nil, errDueBeforeStart
	}

	if err := s.repo.Update(ctx, proj); err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}

	return proj, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

func validSchedule(p *Project) bool {
	if p.StartDate == nil || p.DueDate == nil {
		return true
	}
	return !p.DueDate.Before(*p.StartDate)
}

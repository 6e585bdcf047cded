// AngelaMos | 2026
// service.go

package lead

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
	ErrStatusChange = core.ForbiddenError(
		"Only users with MANAGE_LEADS can change lead status",
	)
	ErrOwnerAssign = core.ForbiddenError(
		"Only users with MANAGE_LEADS can assign a lead to another user",
	)
	errUnknownOwner = core.ValidationError(map[string][]string{
		"ownerId": {"does not reference an existing user"},
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
	req CreateLeadRequest,
) (*Lead, error) {
	owner := p.ID
	if req.OwnerID != "" && req.OwnerID != p.ID {
		if !p.Can(permission.ManageLeads) {
			return nil, ErrOwnerAssign
		}
		owner = req.OwnerID
	}

	lead := &Lead{
		ID:      uuid.New().String(),
		OwnerID: owner,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Source:  req.Source,
		Message: req.Message,
		Status:  StatusNew,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			return nil, errUnknownOwner
		}
		return nil, err
	}

	return lead, nil
}

// List scopes the listing to the caller's own leads unless they hold
// MANAGE_LEADS.
func (s *Service) List(
	ctx context.Context,
	p *auth.Principal,
	params ListLeadsParams,
) ([]Lead, int, error) {
	params.OwnerID = ""
	if !p.Can(permission.ManageLeads) {
		params.OwnerID = p.ID
	}
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, p *auth.Principal, id string) (*Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.CanAccess(lead.OwnerID, permission.ManageLeads) {
		return nil, core.ForbiddenError("")
	}

	return lead, nil
}

func (s *Service) Update(
	ctx context.Context,
	p *auth.Principal,
	id string,
	req UpdateLeadRequest,
) (*Lead, error) {
	lead, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && Status(*req.Status) != lead.Status {
		if !p.Can(permission.ManageLeads) {
			return nil, ErrStatusChange
		}
		lead.Status = Status(*req.Status)
	}

	if req.Name != nil {
		lead.Name = *req.Name
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
	}
	if req.Company != nil {
		lead.Company = *req.Company
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.Message != nil {
		lead.Message = *req.Message
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("update lead %s: %w", id, err)
	}

	return lead, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

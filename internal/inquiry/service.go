// AngelaMos | 2026
// service.go

package inquiry

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
		"Only users with MANAGE_INQUIRIES can change inquiry status",
	)
	ErrOwnerAssign = core.ForbiddenError(
		"Only users with MANAGE_INQUIRIES can submit an inquiry for another user",
	)
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
	req CreateInquiryRequest,
) (*Inquiry, error) {
	owner := p.ID
	if req.OwnerID != "" && req.OwnerID != p.ID {
		if !p.Can(permission.ManageInquiries) {
			return nil, ErrOwnerAssign
		}
		owner = req.OwnerID
	}

	inq := &Inquiry{
		ID:          uuid.New().String(),
		OwnerID:     owner,
		Name:        req.Name,
		Email:       req.Email,
		Company:     req.Company,
		ProjectType: req.ProjectType,
		Budget:      req.Budget,
		Timeline:    req.Timeline,
		Description: req.Description,
		Status:      StatusNew,
	}

	if err := s.repo.Create(ctx, inq); err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			return nil, core.ValidationError(map[string][]string{
				"ownerId": {"does not reference an existing user"},
			})
		}
		return nil, err
	}

	return inq, nil
}

func (s *Service) List(
	ctx context.Context,
	p *auth.Principal,
	params ListInquiriesParams,
) ([]Inquiry, int, error) {
	params.OwnerID = ""
	if !p.Can(permission.ManageInquiries) {
		params.OwnerID = p.ID
	}
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, p *auth.Principal, id string) (*Inquiry, error) {
	inq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.CanAccess(inq.OwnerID, permission.ManageInquiries) {
		return nil, core.ForbiddenError("")
	}

	return inq, nil
}

func (s *Service) Update(
	ctx context.Context,
	p *auth.Principal,
	id string,
	req UpdateInquiryRequest,
) (*Inquiry, error) {
	inq, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && Status(*req.Status) != inq.Status {
		if !p.Can(permission.ManageInquiries) {
			return nil, ErrStatusChange
		}
		inq.Status = Status(*req.Status)
	}

	if req.Name != nil {
		inq.Name = *req.Name
	}
	if req.Email != nil {
		inq.Email = *req.Email
	}
	if req.Company != nil {
		inq.Company = *req.Company
	}
	if req.ProjectType != nil {
		inq.ProjectType = *req.ProjectType
	}
	if req.Budget != nil {
		inq.Budget = *req.Budget
	}
	if req.Timeline != nil {
		inq.Timeline = *req.Timeline
	}
	if req.Description != nil {
		inq.Description = *req.Description
	}

	if err := s.repo.Update(ctx, inq); err != nil {
		return nil, fmt.Errorf("update inquiry %s: %w", id, err)
	}

	return inq, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

var (
	ErrActivationOnly = core.RuleError(
		http.StatusBadRequest,
		"ACTIVATION_REQUIRED",
		"Services can only be activated through the activation endpoint",
	)
	ErrStatusNotSettable = core.RuleError(
		http.StatusBadRequest,
		"INVALID_STATUS_CHANGE",
		"Status can only be changed to paused or cancelled",
	)
	ErrIntervalLocked = core.RuleError(
		http.StatusBadRequest,
		"INTERVAL_LOCKED",
		"Billing interval can only be changed while the service is pending",
	)
	ErrAdminNotes = core.ForbiddenError(
		"Only users with MANAGE_SERVICES can edit admin notes",
	)
	ErrOwnerAssign = core.ForbiddenError(
		"Only users with MANAGE_SERVICES can request a service for another user",
	)
)

// NotPendingRule renders an activation attempt against a non-pending
// service, naming the current status.
func NotPendingRule(current Status) *core.AppError {
	return core.RuleError(
		http.StatusBadRequest,
		"SERVICE_NOT_PENDING",
		fmt.Sprintf(
			"Service is already %s. Only pending services can be activated.",
			current,
		),
	)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) Create(
	ctx context.Context,
	p *auth.Principal,
	req CreateServiceRequest,
) (*Subscription, error) {
	owner := p.ID
	if req.UserID != "" && req.UserID != p.ID {
		if !p.Can(permission.ManageServices) {
			return nil, ErrOwnerAssign
		}
		owner = req.UserID
	}

	sub := &Subscription{
		ID:              uuid.New().String(),
		UserID:          owner,
		ServiceID:       req.ServiceID,
		BillingInterval: Interval(req.BillingInterval),
		Status:          StatusPending,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			return nil, core.ValidationError(map[string][]string{
				"userId": {"does not reference an existing user"},
			})
		}
		return nil, err
	}

	return s.repo.GetByID(ctx, sub.ID)
}

func (s *Service) List(
	ctx context.Context,
	p *auth.Principal,
	params ListParams,
) ([]Subscription, int, error) {
	if !p.Can(permission.ManageServices) {
		params.UserID = p.ID
	}
	return s.repo.List(ctx, params)
}

func (s *Service) Get(
	ctx context.Context,
	p *auth.Principal,
	id string,
) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.CanAccess(sub.UserID, permission.ManageServices) {
		return nil, core.ForbiddenError("")
	}

	return sub, nil
}

// Update applies the generic edit. Status may only move to paused or
// cancelled here; activation has its own operation.
func (s *Service) Update(
	ctx context.Context,
	p *auth.Principal,
	id string,
	req UpdateServiceRequest,
) (*Subscription, error) {
	sub, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.AdminNotes != nil && !p.Can(permission.ManageServices) {
		return nil, ErrAdminNotes
	}

	wasPending := sub.Status == StatusPending

	if req.Status != nil && Status(*req.Status) != sub.Status {
		to := Status(*req.Status)
		if to == activation.To {
			return nil, ErrActivationOnly
		}
		if !CanSetViaUpdate(to) {
			return nil, ErrStatusNotSettable
		}
		sub.Status = to
	}

	if req.BillingInterval != nil && Interval(*req.BillingInterval) != sub.BillingInterval {
		if !wasPending {
			return nil, ErrIntervalLocked
		}
		sub.BillingInterval = Interval(*req.BillingInterval)
	}

	if req.AdminNotes != nil {
		sub.AdminNotes = *req.AdminNotes
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("update service %s: %w", id, err)
	}

	return sub, nil
}

// Activate performs the pending to active transition. The repository does
// it as a single conditional update, so concurrent calls activate once.
func (s *Service) Activate(
	ctx context.Context,
	actor *auth.Principal,
	id string,
	req ActivateRequest,
) (*Subscription, error) {
	ctx, span := core.StartSpan(ctx, "subscription.activate",
		attribute.String("service.id", id),
	)
	defer span.End()

	sub, err := s.repo.Activate(ctx, ActivateParams{
		ID:         id,
		At:         s.now().UTC(),
		AdminNotes: req.AdminNotes,
	})

	var notPending *NotPendingError
	if errors.As(err, &notPending) {
		return nil, NotPendingRule(notPending.Current)
	}
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	core.ServiceActivations.WithLabelValues(string(sub.BillingInterval)).Inc()
	core.AddSpanEvent(ctx, "service.activated",
		attribute.String("service.id", sub.ID),
		attribute.String("service.interval", string(sub.BillingInterval)),
	)
	slog.InfoContext(ctx, "service activated",
		"service_id", sub.ID,
		"interval", sub.BillingInterval,
		"end_date", sub.EndDate,
		"actor", actor.Email,
	)

	return sub, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

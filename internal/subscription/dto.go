// AngelaMos | 2026
// dto.go

package subscription

import (
	"time"
)

type CreateServiceRequest struct {
	ServiceID       string `json:"serviceId"        validate:"required,max=100"`
	BillingInterval string `json:"billingInterval"  validate:"required,oneof=monthly annually"`
	UserID          string `json:"userId,omitempty" validate:"omitempty,uuid"`
}

type UpdateServiceRequest struct {
	Status          *string `json:"status,omitempty"          validate:"omitempty,oneof=pending active paused cancelled"`
	BillingInterval *string `json:"billingInterval,omitempty" validate:"omitempty,oneof=monthly annually"`
	AdminNotes      *string `json:"adminNotes,omitempty"      validate:"omitempty,max=5000"`
}

type ActivateRequest struct {
	AdminNotes *string `json:"adminNotes,omitempty" validate:"omitempty,max=5000"`
}

type OwnerSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

type ServiceResponse struct {
	ID                string         `json:"id"`
	ServiceID         string         `json:"serviceId"`
	BillingInterval   string         `json:"billingInterval"`
	Status            string         `json:"status"`
	ActivatedAt       *time.Time     `json:"activatedAt"`
	PaymentReceivedAt *time.Time     `json:"paymentReceivedAt"`
	EndDate           *time.Time     `json:"endDate"`
	AdminNotes        string         `json:"adminNotes,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	User              OwnerSnapshot  `json:"user"`
	BillingPeriod     *BillingPeriod `json:"billingPeriod"`
	RenewalUrgency    Urgency        `json:"renewalUrgency,omitempty"`
	DaysSinceRequest  *int           `json:"daysSinceRequest,omitempty"`
	FollowUp          FollowUp       `json:"followUp,omitempty"`
}

type ActivateResponse struct {
	Service ServiceResponse `json:"service"`
	Message string          `json:"message"`
}

// ToServiceResponse attaches the derived scheduling fields computed at now.
// Pending records carry the follow-up hint; activated ones the billing period.
func ToServiceResponse(s *Subscription, now time.Time) ServiceResponse {
	resp := ServiceResponse{
		ID:                s.ID,
		ServiceID:         s.ServiceID,
		BillingInterval:   string(s.BillingInterval),
		Status:            string(s.Status),
		ActivatedAt:       s.ActivatedAt,
		PaymentReceivedAt: s.PaymentReceivedAt,
		EndDate:           s.EndDate,
		AdminNotes:        s.AdminNotes,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		User: OwnerSnapshot{
			ID:    s.UserID,
			Name:  s.UserName,
			Email: s.UserEmail,
			Image: s.UserImage,
		},
	}

	if period := CalculateBillingPeriod(s.ActivatedAt, s.BillingInterval, now); period != nil {
		resp.BillingPeriod = period
		resp.RenewalUrgency = RenewalUrgency(period.DaysRemaining)
	}

	if s.Status == StatusPending {
		days := DaysSinceRequest(s.CreatedAt, now)
		resp.DaysSinceRequest = &days
		resp.FollowUp = FollowUpFor(days)
	}

	return resp
}

func ToServiceResponseList(subs []Subscription, now time.Time) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(subs))
	for i := range subs {
		out = append(out, ToServiceResponse(&subs[i], now))
	}
	return out
}

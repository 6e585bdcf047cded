// AngelaMos | 2026
// billing.go

package subscription

import (
	"math"
	"time"
)

type Interval string

const (
	Monthly  Interval = "monthly"
	Annually Interval = "annually"
)

func (i Interval) Valid() bool {
	return i == Monthly || i == Annually
}

// ComputeEndDate adds one calendar month or year to start. Day overflow
// normalizes forward, so 2024-01-31 + 1 month is 2024-03-02.
func ComputeEndDate(start time.Time, interval Interval) time.Time {
	return advance(start, interval, 1)
}

func advance(start time.Time, interval Interval, periods int) time.Time {
	if interval == Annually {
		return start.AddDate(periods, 0, 0)
	}
	return start.AddDate(0, periods, 0)
}

type BillingPeriod struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DaysRemaining   int       `json:"daysRemaining"`
	TotalDays       int       `json:"totalDays"`
	ProgressPercent float64   `json:"progressPercent"`
	IsOverdue       bool      `json:"isOverdue"`
	RenewalDate     time.Time `json:"renewalDate"`
	RenewalInDays   int       `json:"renewalInDays"`
}

const day = 24 * time.Hour

// CalculateBillingPeriod finds the period containing now, walking forward
// from activatedAt one interval at a time. Each boundary is measured from
// activatedAt rather than the previous boundary so month-end activations do
// not drift. Returns nil when the service was never activated.
func CalculateBillingPeriod(
	activatedAt *time.Time,
	interval Interval,
	now time.Time,
) *BillingPeriod {
	if activatedAt == nil {
		return nil
	}

	n := 0
	start := *activatedAt
	end := advance(*activatedAt, interval, 1)
	for !now.Before(end) {
		n++
		start = end
		end = advance(*activatedAt, interval, n+1)
	}

	total := end.Sub(start)
	elapsed := now.Sub(start)

	progress := 0.0
	if total > 0 {
		progress = float64(elapsed) / float64(total) * 100
	}
	progress = math.Min(100, math.Max(0, progress))

	remaining := int(math.Ceil(float64(end.Sub(now)) / float64(day)))
	if remaining < 0 {
		remaining = 0
	}

	return &BillingPeriod{
		Start:           start,
		End:             end,
		DaysRemaining:   remaining,
		TotalDays:       int(math.Round(float64(total) / float64(day))),
		ProgressPercent: math.Round(progress*100) / 100,
		IsOverdue:       end.Before(now),
		RenewalDate:     end,
		RenewalInDays:   remaining,
	}
}

// DaysSinceRequest counts whole days since createdAt.
func DaysSinceRequest(createdAt, now time.Time) int {
	if now.Before(createdAt) {
		return 0
	}
	return int(now.Sub(createdAt) / day)
}

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyWarning  Urgency = "warning"
	UrgencyNormal   Urgency = "normal"
)

func RenewalUrgency(daysRemaining int) Urgency {
	switch {
	case daysRemaining <= 3:
		return UrgencyCritical
	case daysRemaining <= 7:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

type FollowUp string

const (
	FollowUpNone    FollowUp = "none"
	FollowUpSuggest FollowUp = "follow_up"
	FollowUpOverdue FollowUp = "overdue"
)

// FollowUpFor flags pending requests that have waited too long for an admin.
func FollowUpFor(daysSinceRequest int) FollowUp {
	switch {
	case daysSinceRequest > 7:
		return FollowUpOverdue
	case daysSinceRequest > 3:
		return FollowUpSuggest
	default:
		return FollowUpNone
	}
}

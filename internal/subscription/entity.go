// AngelaMos | 2026
// entity.go

package subscription

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

type Transition struct {
	From Status
	To   Status
}

// activation is the only privileged move and only runs through Activate.
var activation = Transition{StatusPending, StatusActive}

// ownerSettable lists the statuses the generic update may write. Any
// current status may move to them.
var ownerSettable = map[Status]bool{
	StatusPaused:    true,
	StatusCancelled: true,
}

func CanSetViaUpdate(to Status) bool {
	return ownerSettable[to]
}

// Subscription is a purchased recurring service. ActivatedAt,
// PaymentReceivedAt and EndDate stay nil until activation.
type Subscription struct {
	ID                string     `db:"id"`
	UserID            string     `db:"user_id"`
	ServiceID         string     `db:"service_id"`
	BillingInterval   Interval   `db:"billing_interval"`
	Status            Status     `db:"status"`
	ActivatedAt       *time.Time `db:"activated_at"`
	PaymentReceivedAt *time.Time `db:"payment_received_at"`
	EndDate           *time.Time `db:"end_date"`
	AdminNotes        string     `db:"admin_notes"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`

	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`
	UserImage string `db:"user_image"`
}

const subscriptionColumns = `s.id, s.user_id, s.service_id, s.billing_interval,
		       s.status, s.activated_at, s.payment_received_at, s.end_date,
		       s.admin_notes, s.created_at, s.updated_at,
		       COALESCE(u.name, '') AS user_name,
		       COALESCE(u.email, '') AS user_email,
		       COALESCE(u.image, '') AS user_image`

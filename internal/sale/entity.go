// AngelaMos | 2026
// entity.go

package sale

import (
	"time"
)

type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusNegotiating Status = "negotiating"
	StatusWon         Status = "won"
	StatusLost        Status = "lost"
)

// Inquiry is a request to buy one of the packaged offerings.
type Inquiry struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Company   string    `db:"company"`
	PackageID string    `db:"package_id"`
	Message   string    `db:"message"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const saleColumns = `id, owner_id, name, email, company, package_id, message,
		       status, created_at, updated_at`

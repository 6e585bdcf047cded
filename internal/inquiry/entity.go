// AngelaMos | 2026
// entity.go

package inquiry

import (
	"time"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusReviewing Status = "reviewing"
	StatusQuoted    Status = "quoted"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

// Inquiry is a project inquiry submitted by a prospective or existing client.
type Inquiry struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Company     string    `db:"company"`
	ProjectType string    `db:"project_type"`
	Budget      string    `db:"budget"`
	Timeline    string    `db:"timeline"`
	Description string    `db:"description"`
	Status      Status    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const inquiryColumns = `id, owner_id, name, email, company, project_type, budget,
		       timeline, description, status, created_at, updated_at`

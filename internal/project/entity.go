// AngelaMos | 2026
// entity.go

package project

import (
	"time"
)

type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusCancelled  Status = "cancelled"
)

// Project is delivery work for a client. ClientID is the owning user.
type Project struct {
	ID          string     `db:"id"`
	ClientID    string     `db:"client_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Status      Status     `db:"status"`
	StartDate   *time.Time `db:"start_date"`
	DueDate     *time.Time `db:"due_date"`
	Budget      *float64   `db:"budget"`
	Progress    int        `db:"progress"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (p *Project) IsOverdue(now time.Time) bool {
	if p.DueDate == nil {
		return false
	}
	switch p.Status {
	case StatusCompleted, StatusCancelled:
		return false
	}
	return now.After(*p.DueDate)
}

const projectColumns = `id, client_id, name, description, status, start_date,
		       due_date, budget, progress, created_at, updated_at`

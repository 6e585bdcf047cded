// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oonkoo/dashboard-api/internal/core"
)

// NotPendingError is returned by Activate when the stored status is not
// pending at the moment of the conditional update.
type NotPendingError struct {
	Current Status
}

func (e *NotPendingError) Error() string {
	return fmt.Sprintf("service is %s, not pending", e.Current)
}

type ActivateParams struct {
	ID         string
	At         time.Time
	AdminNotes *string
}

type ListParams struct {
	UserID string
	Status string
	Page   core.Page
}

type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	Activate(ctx context.Context, params ActivateParams) (*Subscription, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]Subscription, int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, sub *Subscription) error {
	query := `
		INSERT INTO services (id, user_id, service_id, billing_interval, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		sub.ID,
		sub.UserID,
		sub.ServiceID,
		sub.BillingInterval,
		sub.Status,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create service: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("create service: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM services s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.id = $1`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get service: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}

	return &sub, nil
}

// Update writes the fields the generic update path may change. Activation
// timestamps are never written here.
func (r *repository) Update(ctx context.Context, sub *Subscription) error {
	query := `
		UPDATE services
		SET billing_interval = $2, status = $3, admin_notes = $4,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &sub.UpdatedAt, query,
		sub.ID,
		sub.BillingInterval,
		sub.Status,
		sub.AdminNotes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update service: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}

	return nil
}

// Activate moves a pending service to active in one conditional statement.
// Both candidate end dates are computed up front so the row's own billing
// interval picks one inside the same UPDATE.
func (r *repository) Activate(
	ctx context.Context,
	params ActivateParams,
) (*Subscription, error) {
	query := `
		WITH s AS (
			UPDATE services
			SET status = $2,
			    activated_at = $4,
			    payment_received_at = $4,
			    end_date = CASE billing_interval
			                   WHEN 'annually' THEN $5::timestamptz
			                   ELSE $6::timestamptz
			               END,
			    admin_notes = COALESCE($7, admin_notes),
			    updated_at = NOW()
			WHERE id = $1 AND status = $3
			RETURNING *
		)
		SELECT ` + subscriptionColumns + `
		FROM s
		LEFT JOIN users u ON u.id = s.user_id`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query,
		params.ID,
		activation.To,
		activation.From,
		params.At,
		ComputeEndDate(params.At, Annually),
		ComputeEndDate(params.At, Monthly),
		params.AdminNotes,
	)
	if err == nil {
		return &sub, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activate service: %w", err)
	}

	var current Status
	err = r.db.GetContext(ctx, &current, `SELECT status FROM services WHERE id = $1`, params.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activate service: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("activate service: %w", err)
	}

	return nil, &NotPendingError{Current: current}
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete service: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Subscription, int, error) {
	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("s.user_id = $%d", argIdx))
		args = append(args, params.UserID)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM services s WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM services s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE %s
		ORDER BY s.created_at DESC
		LIMIT $%d OFFSET $%d`,
		subscriptionColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.Page.Size, params.Page.Offset())

	var subs []Subscription
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}

	return subs, total, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return core.CountByStatus(ctx, r.db, "services")
}

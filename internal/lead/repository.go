// AngelaMos | 2026
// repository.go

package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/oonkoo/dashboard-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListLeadsParams) ([]Lead, int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (id, owner_id, name, email, phone, company, source,
		                   message, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		lead.ID,
		lead.OwnerID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Company,
		lead.Source,
		lead.Message,
		lead.Status,
		lead.Notes,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create lead: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("create lead: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	var lead Lead
	err := r.db.GetContext(ctx, &lead, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get lead: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}

	return &lead, nil
}

func (r *repository) Update(ctx context.Context, lead *Lead) error {
	query := `
		UPDATE leads
		SET name = $2, email = $3, phone = $4, company = $5, source = $6,
		    message = $7, status = $8, notes = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &lead.UpdatedAt, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Company,
		lead.Source,
		lead.Message,
		lead.Status,
		lead.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update lead: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete lead: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListLeadsParams,
) ([]Lead, int, error) {
	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argIdx))
		args = append(args, params.OwnerID)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM leads WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		leadColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.Page.Size, params.Page.Offset())

	var leads []Lead
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}

	return leads, total, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return core.CountByStatus(ctx, r.db, "leads")
}

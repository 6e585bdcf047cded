// AngelaMos | 2026
// repository.go

package inquiry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/oonkoo/dashboard-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, inq *Inquiry) error
	GetByID(ctx context.Context, id string) (*Inquiry, error)
	Update(ctx context.Context, inq *Inquiry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListInquiriesParams) ([]Inquiry, int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inq *Inquiry) error {
	query := `
		INSERT INTO project_inquiries (id, owner_id, name, email, company,
		                               project_type, budget, timeline,
		                               description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		inq.ID,
		inq.OwnerID,
		inq.Name,
		inq.Email,
		inq.Company,
		inq.ProjectType,
		inq.Budget,
		inq.Timeline,
		inq.Description,
		inq.Status,
	).Scan(&inq.CreatedAt, &inq.UpdatedAt)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create inquiry: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("create inquiry: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM project_inquiries WHERE id = $1`

	var inq Inquiry
	err := r.db.GetContext(ctx, &inq, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get inquiry: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get inquiry: %w", err)
	}

	return &inq, nil
}

func (r *repository) Update(ctx context.Context, inq *Inquiry) error {
	query := `
		UPDATE project_inquiries
		SET name = $2, email = $3, company = $4, project_type = $5,
		    budget = $6, timeline = $7, description = $8, status = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &inq.UpdatedAt, query,
		inq.ID,
		inq.Name,
		inq.Email,
		inq.Company,
		inq.ProjectType,
		inq.Budget,
		inq.Timeline,
		inq.Description,
		inq.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update inquiry: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update inquiry: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM project_inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete inquiry: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListInquiriesParams,
) ([]Inquiry, int, error) {
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
			"(name ILIKE $%d OR email ILIKE $%d OR project_type ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM project_inquiries WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count inquiries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM project_inquiries
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		inquiryColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.Page.Size, params.Page.Offset())

	var items []Inquiry
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list inquiries: %w", err)
	}

	return items, total, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return core.CountByStatus(ctx, r.db, "project_inquiries")
}

// AngelaMos | 2026
// repository.go

package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/oonkoo/dashboard-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, s *Inquiry) error
	GetByID(ctx context.Context, id string) (*Inquiry, error)
	Update(ctx context.Context, s *Inquiry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListSalesParams) ([]Inquiry, int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Inquiry) error {
	query := `
		INSERT INTO sale_inquiries (id, owner_id, name, email, company,
		                            package_id, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID,
		s.OwnerID,
		s.Name,
		s.Email,
		s.Company,
		s.PackageID,
		s.Message,
		s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create sale inquiry: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("create sale inquiry: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Inquiry, error) {
	query := `SELECT ` + saleColumns + ` FROM sale_inquiries WHERE id = $1`

	var s Inquiry
	err := r.db.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get sale inquiry: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get sale inquiry: %w", err)
	}

	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Inquiry) error {
	query := `
		UPDATE sale_inquiries
		SET name = $2, email = $3, company = $4, package_id = $5,
		    message = $6, status = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &s.UpdatedAt, query,
		s.ID,
		s.Name,
		s.Email,
		s.Company,
		s.PackageID,
		s.Message,
		s.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update sale inquiry: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update sale inquiry: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sale_inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale inquiry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sale inquiry: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete sale inquiry: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListSalesParams,
) ([]Inquiry, int, error) {
	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	filters := []struct {
		column string
		value  string
	}{
		{"owner_id", params.OwnerID},
		{"status", params.Status},
		{"package_id", params.PackageID},
	}
	for _, f := range filters {
		if f.value == "" {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", f.column, argIdx))
		args = append(args, f.value)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM sale_inquiries WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sale inquiries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM sale_inquiries
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		saleColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.Page.Size, params.Page.Offset())

	var items []Inquiry
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sale inquiries: %w", err)
	}

	return items, total, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return core.CountByStatus(ctx, r.db, "sale_inquiries")
}

// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

// SyncParams is the login upsert. Role, Permissions and IsAdmin are written
// on insert, and on conflict only when Force is set.
type SyncParams struct {
	ID          string
	Email       string
	Name        string
	Image       string
	Role        permission.Role
	Permissions permission.Set
	IsAdmin     bool
	Force       bool
}

// AccessUpdate is the role and permission state written by UpdateAccess.
type AccessUpdate struct {
	Role        permission.Role
	Permissions permission.Set
	IsAdmin     bool
}

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Sync(ctx context.Context, params SyncParams) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdateAccess(
		ctx context.Context,
		id string,
		decide func(current *User) (AccessUpdate, error),
	) (*User, error)
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, name, image,
		                   company, phone, role, permissions, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Name,
		user.Image,
		user.Company,
		user.Phone,
		user.Role,
		user.Permissions,
		user.IsAdmin,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// GetByEmail matches the email exactly as stored.
func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND deleted_at IS NULL`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Sync(
	ctx context.Context,
	params SyncParams,
) (*User, error) {
	query := `
		INSERT INTO users (id, email, name, image, role, permissions, is_admin,
		                   last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (email) WHERE deleted_at IS NULL DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE users.name END,
			image = CASE WHEN EXCLUDED.image <> '' THEN EXCLUDED.image ELSE users.image END,
			role = CASE WHEN $8::boolean THEN EXCLUDED.role ELSE users.role END,
			permissions = CASE WHEN $8::boolean THEN EXCLUDED.permissions ELSE users.permissions END,
			is_admin = CASE WHEN $8::boolean THEN EXCLUDED.is_admin ELSE users.is_admin END,
			last_login_at = NOW(),
			updated_at = NOW()
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query,
		params.ID,
		params.Email,
		params.Name,
		params.Image,
		params.Role,
		params.Permissions,
		params.IsAdmin,
		params.Force,
	)
	if err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, name = $4, company = $5,
		    phone = $6, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Name,
		user.Company,
		user.Phone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// UpdateAccess locks the row, hands the current record to decide and writes
// its answer in the same transaction. An error from decide aborts the write.
func (r *repository) UpdateAccess(
	ctx context.Context,
	id string,
	decide func(current *User) (AccessUpdate, error),
) (*User, error) {
	var updated User

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var current User
		err := tx.GetContext(ctx, &current, `
			SELECT `+userColumns+`
			FROM users
			WHERE id = $1 AND deleted_at IS NULL
			FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return err
		}

		change, err := decide(&current)
		if err != nil {
			return err
		}

		return tx.GetContext(ctx, &updated, `
			UPDATE users
			SET role = $2, permissions = $3, is_admin = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns,
			id, change.Role, change.Permissions, change.IsAdmin,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("update access: %w", err)
	}

	return &updated, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d OR company ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) CountByRole(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT role, COUNT(*) AS count
		FROM users
		WHERE deleted_at IS NULL
		GROUP BY role`

	var rows []struct {
		Role  string `db:"role"`
		Count int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
)

const (
	userColumns = `id, name, email, password, role, status, created_at, updated_at, deleted_at`
	liveUser    = `deleted_at IS NULL`
)

// userRepository stores staff accounts. Deleted accounts keep their row so
// audit entries can still name the actor.
type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) outbound.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (*entity.User, error) {
	u := new(entity.User)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Status,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) findOne(ctx context.Context, cond string, arg interface{}) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + cond + ` AND ` + liveUser
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, outbound.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("users: select where %s: %w", cond, err)
	}
	return u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `LOWER(email) = LOWER($1)`, strings.TrimSpace(email))
}

func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	const stmt = `INSERT INTO users (id, name, email, password, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, stmt,
		u.ID, u.Name, strings.ToLower(strings.TrimSpace(u.Email)), u.Password,
		u.Role, u.Status, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return outbound.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("users: insert %s: %w", u.ID, err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, u *entity.User) error {
	if u == nil || u.ID == "" {
		return errors.New("users: update needs an id")
	}

	const stmt = `UPDATE users
		SET name = $2, role = $3, status = $4, password = $5, updated_at = $6
		WHERE id = $1 AND ` + liveUser

	res, err := r.db.ExecContext(ctx, stmt, u.ID, u.Name, u.Role, u.Status, u.Password, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("users: update %s: %w", u.ID, err)
	}
	return expectOneRow(res, outbound.ErrUserNotFound)
}

func (r *userRepository) SoftDelete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("users: delete needs an id")
	}

	const stmt = `UPDATE users
		SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND ` + liveUser

	res, err := r.db.ExecContext(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("users: soft delete %s: %w", id, err)
	}
	return expectOneRow(res, outbound.ErrUserNotFound)
}

func (r *userRepository) FindAll(ctx context.Context, offset, limit int, filters outbound.UserFilters) ([]*entity.User, int, error) {
	where := &whereClause{}
	where.add(liveUser)
	if filters.Name != "" {
		where.add("name ILIKE ?", "%"+filters.Name+"%")
	}
	if filters.Role != "" {
		where.add("role = ?", filters.Role)
	}
	if filters.Status != "" {
		where.add("status = ?", filters.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users "+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users: count: %w", err)
	}

	pageClause, args := where.page(limit, offset)
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM users %s ORDER BY created_at DESC %s`, userColumns, where.String(), pageClause),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var staff []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("users: scan: %w", err)
		}
		staff = append(staff, u)
	}
	return staff, total, rows.Err()
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, errors.New("users: email is required")
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND `+liveUser+`)`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("users: email lookup: %w", err)
	}
	return exists, nil
}

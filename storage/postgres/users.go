package postgres

import (
	"context"

	"holoholo/models"
)

type UserRepo struct {
	q querier
}

const userColumns = `id, username, email, password_hash, role, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at
	`, u.Username, u.Email, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)
	return mapError(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return execOne(ctx, r.q, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, mapError(rows.Err())
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "users")
}

// count is only ever called with a fixed table name.
func count(ctx context.Context, q querier, table string) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, mapError(err)
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, q querier, query string, args ...any) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapError(errNoRows)
	}
	return nil
}

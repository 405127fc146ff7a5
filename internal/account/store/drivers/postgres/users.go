package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meridianhq/accounts/internal/account/domain"
	"github.com/meridianhq/accounts/internal/account/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, email, first_name, last_name, password_hash, email_confirmed, security_stamp, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, first_name, last_name, password_hash, email_confirmed, security_stamp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.EmailConfirmed, u.SecurityStamp,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) ConfirmEmail(ctx context.Context, userID, stamp, newStamp string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email_confirmed = TRUE, security_stamp = $1, updated_at = NOW()
		WHERE id = $2 AND security_stamp = $3`,
		newStamp, userID, stamp,
	)
	if err != nil {
		return err
	}
	return r.guardResult(ctx, res, userID)
}

func (r *usersRepo) UpdatePassword(ctx context.Context, userID, stamp, newHash, newStamp string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1, security_stamp = $2, updated_at = NOW()
		WHERE id = $3 AND security_stamp = $4`,
		newHash, newStamp, userID, stamp,
	)
	if err != nil {
		return err
	}
	return r.guardResult(ctx, res, userID)
}

// guardResult distinguishes a missing row from a stamp mismatch when a
// stamp-guarded update touched zero rows.
func (r *usersRepo) guardResult(ctx context.Context, res sql.Result, userID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = $1`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return store.ErrConflict
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

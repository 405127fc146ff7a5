package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/meridianhq/accounts/internal/account/domain"
	"github.com/meridianhq/accounts/internal/account/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, email, first_name, last_name, password_hash, email_confirmed, security_stamp, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, first_name, last_name, password_hash, email_confirmed, security_stamp, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
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
		SET email_confirmed = 1, security_stamp = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND security_stamp = ?`,
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
		SET password_hash = ?, security_stamp = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND security_stamp = ?`,
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
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return store.ErrConflict
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Package repository implements the auth store contract over MySQL.
// Uniqueness is delegated to the unique indexes created by the schema
// migration; duplicate-key errors are mapped back to the typed conflict
// errors by index name.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/studyhard/account-service/internal/auth"
	"github.com/studyhard/account-service/internal/model"
)

const userColumns = `id, full_name, email, phone, password_hash, role, is_active,
	refresh_token_hash, password_changed_at, password_reset_token_hash, password_reset_expires,
	created_at, updated_at`

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, "email=?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) FindByPhone(ctx context.Context, phone string) (model.User, error) {
	return r.findOne(ctx, "phone=?", phone)
}

func (r *UserRepo) FindByID(ctx context.Context, id uint64) (model.User, error) {
	return r.findOne(ctx, "id=?", id)
}

func (r *UserRepo) FindByRefreshTokenHash(ctx context.Context, hash string) (model.User, error) {
	return r.findOne(ctx, "refresh_token_hash=?", hash)
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", arg)
	return scanUser(row)
}

// Insert creates the account row.  Email and phone collisions come back
// from the unique indexes, so two concurrent signups can never both win.
func (r *UserRepo) Insert(ctx context.Context, u model.User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (full_name, email, phone, password_hash, role, is_active) VALUES (?,?,?,?,?,?)",
		u.FullName, u.Email, u.Phone, u.PasswordHash, u.Role, u.IsActive)
	if err != nil {
		return 0, mapWriteErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr(err)
	}
	return uint64(id), nil
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, ch auth.ProfileChanges) error {
	var (
		sets []string
		args []any
	)
	if ch.FullName != nil {
		sets, args = append(sets, "full_name=?"), append(args, *ch.FullName)
	}
	if ch.Email != nil {
		sets, args = append(sets, "email=?"), append(args, *ch.Email)
	}
	if ch.Phone != nil {
		sets, args = append(sets, "phone=?"), append(args, *ch.Phone)
	}
	if ch.Role != nil {
		sets, args = append(sets, "role=?"), append(args, *ch.Role)
	}
	if ch.IsActive != nil {
		sets, args = append(sets, "is_active=?"), append(args, *ch.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, id uint64, hash *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=? WHERE id=?", hash, id)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *UserRepo) SetPasswordReset(ctx context.Context, id uint64, hash string, expires time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_reset_token_hash=?, password_reset_expires=? WHERE id=?",
		hash, expires, id)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// UpdatePassword replaces the hash, stamps password_changed_at and closes
// any open reset window in one statement.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string, changedAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash=?, password_changed_at=?,
			password_reset_token_hash=NULL, password_reset_expires=NULL WHERE id=?`,
		passwordHash, changedAt, id)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// PurgeInactiveBefore deletes long-deactivated accounts.  The is_active
// check lives inside the DELETE so a reactivation committed after the
// sweeper's read cannot be destroyed.
func (r *UserRepo) PurgeInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM users WHERE is_active=0 AND updated_at < ?", cutoff)
	if err != nil {
		return 0, storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (model.User, error) {
	var (
		u           model.User
		refresh     sql.NullString
		changedAt   sql.NullTime
		resetHash   sql.NullString
		resetExpire sql.NullTime
	)
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.IsActive,
		&refresh, &changedAt, &resetHash, &resetExpire, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, auth.ErrNotFound
		}
		return model.User{}, storeErr(err)
	}
	if refresh.Valid {
		u.RefreshTokenHash = &refresh.String
	}
	if changedAt.Valid {
		u.PasswordChangedAt = &changedAt.Time
	}
	if resetHash.Valid {
		u.PasswordResetTokenHash = &resetHash.String
	}
	if resetExpire.Valid {
		u.PasswordResetExpires = &resetExpire.Time
	}
	return u, nil
}

// mapWriteErr translates MySQL duplicate-key errors (1062) into the
// typed conflicts, picking the field by the violated index name.
func mapWriteErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		switch {
		case strings.Contains(me.Message, "uq_users_phone"):
			return auth.ErrPhoneExists
		default:
			return auth.ErrEmailExists
		}
	}
	return storeErr(err)
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", auth.ErrUnavailable, err)
}

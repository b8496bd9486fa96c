package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the users table if it does not exist.  Uniqueness of
// email, phone and the active refresh token is enforced here, at the store
// level, so concurrent signups or logins racing on the same value resolve
// to exactly one winner and a duplicate-key error for the loser.  The
// index names (uq_users_email, uq_users_phone) are load-bearing: the
// repository maps duplicate-key errors back to typed conflicts by name.
func Migrate(ctx context.Context, db *sql.DB) error {
	const users = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'user',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		refresh_token_hash CHAR(64) NULL,
		password_changed_at DATETIME NULL,
		password_reset_token_hash CHAR(64) NULL,
		password_reset_expires DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_phone (phone),
		UNIQUE KEY uq_users_refresh (refresh_token_hash),
		KEY idx_users_active_updated (is_active, updated_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	if _, err := db.ExecContext(ctx, users); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

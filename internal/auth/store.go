package auth

import (
	"context"
	"time"

	"github.com/studyhard/account-service/internal/model"
)

// ProfileChanges is a partial update: nil fields are left untouched.
// Role and IsActive are only ever set by admin operations and by
// deactivation.
type ProfileChanges struct {
	FullName *string
	Email    *string
	Phone    *string
	Role     *string
	IsActive *bool
}

// UserStore is the persistence contract the service depends on.  The
// implementation must enforce email/phone/refresh-token uniqueness with
// store-level constraints and report violations as ErrEmailExists /
// ErrPhoneExists; lookups that match nothing return ErrNotFound and
// infrastructure failures are wrapped in ErrUnavailable.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByPhone(ctx context.Context, phone string) (model.User, error)
	FindByID(ctx context.Context, id uint64) (model.User, error)
	FindByRefreshTokenHash(ctx context.Context, hash string) (model.User, error)
	Insert(ctx context.Context, u model.User) (uint64, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id uint64, ch ProfileChanges) error

	// SetRefreshToken overwrites the account's session marker; nil clears it.
	SetRefreshToken(ctx context.Context, id uint64, hash *string) error
	// SetPasswordReset opens a reset window for the account.
	SetPasswordReset(ctx context.Context, id uint64, hash string, expires time.Time) error
	// UpdatePassword replaces the hash, stamps password_changed_at and
	// closes any open reset window in the same write.
	UpdatePassword(ctx context.Context, id uint64, passwordHash string, changedAt time.Time) error

	// PurgeInactiveBefore deletes accounts deactivated since before the
	// cutoff.  The is_active predicate must be part of the delete itself
	// so a concurrent reactivation cannot be destroyed by a stale read.
	PurgeInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Notifier dispatches HTML mail to a single recipient.  Failures are the
// caller's to log; they never roll back the state change that triggered
// the mail.
type Notifier interface {
	Send(ctx context.Context, to, subject, html string) error
}

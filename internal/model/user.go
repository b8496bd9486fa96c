package model

import "time"

// Role values stored in users.role.  Admin accounts are never created
// through signup; they are provisioned directly in the database.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account record as stored in the `users` table.
// Plaintext passwords never appear here: PasswordHash holds the bcrypt
// digest, and the refresh/reset columns hold SHA-256 digests of the
// tokens handed to clients, so a leaked table cannot be replayed.
//
// RefreshTokenHash is set while the account has a live session and
// cleared on logout; the reset pair is set together by forgot-password
// and cleared together by a successful reset.
type User struct {
	ID                     uint64     // users.id
	FullName               string     // users.full_name
	Email                  string     // users.email (unique, stored lowercase)
	Phone                  string     // users.phone (unique)
	PasswordHash           string     // users.password_hash
	Role                   string     // users.role
	IsActive               bool       // users.is_active
	RefreshTokenHash       *string    // users.refresh_token_hash (nullable)
	PasswordChangedAt      *time.Time // users.password_changed_at (nullable)
	PasswordResetTokenHash *string    // users.password_reset_token_hash (nullable)
	PasswordResetExpires   *time.Time // users.password_reset_expires (nullable)
	CreatedAt              time.Time  // users.created_at
	UpdatedAt              time.Time  // users.updated_at
}

// PublicUser is the self-view projection returned by login and
// GET /user/current: everything except the password hash, the role and
// the session marker.
type PublicUser struct {
	ID        uint64    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdminUser is the projection admins see; it includes the role but
// still hides every credential column.
type AdminUser struct {
	PublicUser
	Role string `json:"role"`
}

// Public strips credential and role fields from a User.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AdminView strips credential fields but keeps the role.
func (u User) AdminView() AdminUser {
	return AdminUser{PublicUser: u.Public(), Role: u.Role}
}

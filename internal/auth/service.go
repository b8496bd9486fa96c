package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/studyhard/account-service/internal/model"
	"github.com/studyhard/account-service/internal/utils"
)

// Service orchestrates the account session state machine over the store,
// the hasher and the token signer.  All methods are safe for concurrent
// use; the store is the only point of serialization.
type Service struct {
	store     UserStore
	tokens    *utils.Tokens
	notify    Notifier
	cost      int    // bcrypt cost
	appURL    string // base URL for reset links
	adminRole string // role admins must not be able to grant via update
}

func NewService(store UserStore, tokens *utils.Tokens, notify Notifier, cost int, appURL, adminRole string) *Service {
	return &Service{
		store:     store,
		tokens:    tokens,
		notify:    notify,
		cost:      cost,
		appURL:    strings.TrimRight(appURL, "/"),
		adminRole: adminRole,
	}
}

// Session is what a successful login produces.  The refresh token is raw
// here; the transport layer decides how to deliver it (an HTTP-only
// cookie) and must never place it in a response body.
type Session struct {
	AccessToken    string
	AccessExpires  time.Time
	RefreshToken   string
	RefreshExpires time.Time
	User           model.PublicUser
}

// Signup validates the four identity fields and creates an active
// account with the default role.  Duplicate email or phone surface as
// conflict errors from the store's unique indexes; there is no
// check-then-insert window.
func (s *Service) Signup(ctx context.Context, fullName, email, phone, password string) (model.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if err := checkStruct(signupInput{FullName: fullName, Email: email, Phone: phone, Password: password}); err != nil {
		return model.PublicUser{}, err
	}

	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return model.PublicUser{}, err
	}

	u := model.User{
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	id, err := s.store.Insert(ctx, u)
	if err != nil {
		return model.PublicUser{}, err
	}
	u.ID = id
	return u.Public(), nil
}

// Login verifies credentials and rotates the account's session.  Unknown
// email and wrong password are indistinguishable to the caller; a
// deactivated account is rejected before the password is even checked.
// Issuing a new refresh token overwrites the stored hash, so any prior
// session is invalidated.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !u.IsActive {
		return Session{}, ErrAccountDeactivated
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	access, accessExp, err := s.tokens.Issue(utils.KindAccess, u.ID, u.Role)
	if err != nil {
		return Session{}, err
	}
	refresh, refreshExp, err := s.tokens.Issue(utils.KindRefresh, u.ID, "")
	if err != nil {
		return Session{}, err
	}
	hash := utils.HashTokenRaw(refresh)
	if err := s.store.SetRefreshToken(ctx, u.ID, &hash); err != nil {
		return Session{}, err
	}

	return Session{
		AccessToken:    access,
		AccessExpires:  accessExp,
		RefreshToken:   refresh,
		RefreshExpires: refreshExp,
		User:           u.Public(),
	}, nil
}

// Logout clears the session owning the given refresh token.  An empty or
// unknown token is a no-op: logout is idempotent and the transport clears
// its cookie either way.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	u, err := s.store.FindByRefreshTokenHash(ctx, utils.HashTokenRaw(refreshToken))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return s.store.SetRefreshToken(ctx, u.ID, nil)
}

// ForgotPassword opens a ten-minute reset window and mails the reset
// link.  Unknown emails succeed uniformly so responses cannot be used to
// probe for accounts.  Mail dispatch failure is logged, not returned:
// the reset token stays valid regardless.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return &ValidationError{Fields: map[string]string{"email": "is required"}}
	}

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if !u.IsActive {
		return ErrAccountDeactivated
	}

	token, exp, err := s.tokens.Issue(utils.KindReset, u.ID, "")
	if err != nil {
		return err
	}
	if err := s.store.SetPasswordReset(ctx, u.ID, utils.HashTokenRaw(token), exp); err != nil {
		return err
	}

	link := s.appURL + "/api/v1/auth/resetPassword/" + token
	if err := s.notify.Send(ctx, u.Email, resetSubject, resetBody(u.FullName, link)); err != nil {
		log.Printf("auth: reset mail dispatch failed for user %d: %v", u.ID, err)
	}
	return nil
}

// ResetPassword consumes a reset token.  The token must both verify
// cryptographically and match the stored hash within the stored expiry;
// a token that was already consumed fails the second check even though
// its signature is still good.  On success the session is cleared too,
// so a stolen refresh token dies with the old password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Verify(token, utils.KindReset)
	if err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	u, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return utils.ErrTokenInvalid
		}
		return err
	}
	if u.PasswordResetTokenHash == nil || *u.PasswordResetTokenHash != utils.HashTokenRaw(token) {
		return utils.ErrTokenInvalid
	}
	if u.PasswordResetExpires == nil || time.Now().UTC().After(*u.PasswordResetExpires) {
		return utils.ErrTokenExpired
	}

	hash, err := utils.HashPassword(newPassword, s.cost)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, u.ID, hash, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.store.SetRefreshToken(ctx, u.ID, nil); err != nil {
		return err
	}

	if err := s.notify.Send(ctx, u.Email, resetConfirmSubject, resetConfirmBody(u.FullName)); err != nil {
		log.Printf("auth: reset confirmation mail failed for user %d: %v", u.ID, err)
	}
	return nil
}

// ChangePassword requires the current password to verify before the new
// one is accepted.  A wrong current password leaves the stored hash
// untouched.
func (s *Service) ChangePassword(ctx context.Context, userID uint64, current, newPassword string) error {
	if current == "" || newPassword == "" {
		return &ValidationError{Fields: map[string]string{"password": "current and new password are required"}}
	}
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword, s.cost)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, userID, hash, time.Now().UTC())
}

// Deactivate marks the account inactive and kills the session, forcing a
// logout everywhere.  Deactivated accounts are purged by the background
// sweep after thirty days.
func (s *Service) Deactivate(ctx context.Context, userID uint64) error {
	inactive := false
	if err := s.store.UpdateProfile(ctx, userID, ProfileChanges{IsActive: &inactive}); err != nil {
		return err
	}
	return s.store.SetRefreshToken(ctx, userID, nil)
}

// CurrentUser returns the caller's own projection.
func (s *Service) CurrentUser(ctx context.Context, userID uint64) (model.PublicUser, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}

// UpdateProfile applies a self-service partial update to the identity
// fields.  Password and role cannot travel through here; the handler
// rejects them before the call.
func (s *Service) UpdateProfile(ctx context.Context, userID uint64, fullName, email, phone *string) error {
	if email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*email))
		email = &normalized
	}
	if err := checkStruct(profileInput{Email: email, Phone: phone}); err != nil {
		return err
	}
	return s.store.UpdateProfile(ctx, userID, ProfileChanges{FullName: fullName, Email: email, Phone: phone})
}

// ListUsers returns the admin projection of every account.
func (s *Service) ListUsers(ctx context.Context) ([]model.AdminUser, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.AdminUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.AdminView())
	}
	return out, nil
}

// GetUser returns the admin projection of a single account.
func (s *Service) GetUser(ctx context.Context, id uint64) (model.AdminUser, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.AdminUser{}, err
	}
	return u.AdminView(), nil
}

// UpdateUserByAdmin applies an admin partial update.  Granting the admin
// role through this path is refused outright.
func (s *Service) UpdateUserByAdmin(ctx context.Context, id uint64, ch ProfileChanges) error {
	if ch.Role != nil && *ch.Role == s.adminRole {
		return ErrForbidden
	}
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return err
	}
	if ch.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*ch.Email))
		ch.Email = &normalized
	}
	if err := checkStruct(profileInput{Email: ch.Email, Phone: ch.Phone}); err != nil {
		return err
	}
	return s.store.UpdateProfile(ctx, id, ch)
}

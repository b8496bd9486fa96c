package auth

import (
	"context"
	"sync"
	"time"

	"github.com/studyhard/account-service/internal/model"
)

// memStore is an in-memory UserStore for tests.  Uniqueness is enforced
// under a single mutex, mirroring the constraint-level guarantee the
// real store provides: concurrent inserts with the same email resolve to
// one winner and one conflict.
type memStore struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]*model.User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uint64]*model.User)}
}

func (s *memStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *memStore) FindByPhone(_ context.Context, phone string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Phone == phone {
			return copyUser(u), nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *memStore) FindByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return copyUser(u), nil
	}
	return model.User{}, ErrNotFound
}

func (s *memStore) FindByRefreshTokenHash(_ context.Context, hash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.RefreshTokenHash != nil && *u.RefreshTokenHash == hash {
			return copyUser(u), nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *memStore) Insert(_ context.Context, u model.User) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return 0, ErrEmailExists
		}
		if existing.Phone == u.Phone {
			return 0, ErrPhoneExists
		}
	}
	s.seq++
	u.ID = s.seq
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = &u
	return u.ID, nil
}

func (s *memStore) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, copyUser(u))
	}
	return out, nil
}

func (s *memStore) UpdateProfile(_ context.Context, id uint64, ch ProfileChanges) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	for otherID, other := range s.users {
		if otherID == id {
			continue
		}
		if ch.Email != nil && other.Email == *ch.Email {
			return ErrEmailExists
		}
		if ch.Phone != nil && other.Phone == *ch.Phone {
			return ErrPhoneExists
		}
	}
	if ch.FullName != nil {
		u.FullName = *ch.FullName
	}
	if ch.Email != nil {
		u.Email = *ch.Email
	}
	if ch.Phone != nil {
		u.Phone = *ch.Phone
	}
	if ch.Role != nil {
		u.Role = *ch.Role
	}
	if ch.IsActive != nil {
		u.IsActive = *ch.IsActive
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memStore) SetRefreshToken(_ context.Context, id uint64, hash *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	if hash == nil {
		u.RefreshTokenHash = nil
	} else {
		v := *hash
		u.RefreshTokenHash = &v
	}
	return nil
}

func (s *memStore) SetPasswordReset(_ context.Context, id uint64, hash string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordResetTokenHash = &hash
	u.PasswordResetExpires = &expires
	return nil
}

func (s *memStore) UpdatePassword(_ context.Context, id uint64, passwordHash string, changedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.PasswordChangedAt = &changedAt
	u.PasswordResetTokenHash = nil
	u.PasswordResetExpires = nil
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memStore) PurgeInactiveBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, u := range s.users {
		if !u.IsActive && u.UpdatedAt.Before(cutoff) {
			delete(s.users, id)
			n++
		}
	}
	return n, nil
}

func copyUser(u *model.User) model.User {
	out := *u
	if u.RefreshTokenHash != nil {
		v := *u.RefreshTokenHash
		out.RefreshTokenHash = &v
	}
	if u.PasswordChangedAt != nil {
		v := *u.PasswordChangedAt
		out.PasswordChangedAt = &v
	}
	if u.PasswordResetTokenHash != nil {
		v := *u.PasswordResetTokenHash
		out.PasswordResetTokenHash = &v
	}
	if u.PasswordResetExpires != nil {
		v := *u.PasswordResetExpires
		out.PasswordResetExpires = &v
	}
	return out
}

// recordNotifier captures outbound mail for assertions.
type recordNotifier struct {
	mu    sync.Mutex
	sends []recordedMail
}

type recordedMail struct {
	To      string
	Subject string
	HTML    string
}

func (n *recordNotifier) Send(_ context.Context, to, subject, html string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sends = append(n.sends, recordedMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (n *recordNotifier) last() (recordedMail, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sends) == 0 {
		return recordedMail{}, false
	}
	return n.sends[len(n.sends)-1], true
}

func (n *recordNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sends)
}

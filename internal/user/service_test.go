package user

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/boat-rental-backend/internal/auth"
)

type memRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*User{}}
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailAlreadyUsed
		}
	}
	u.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) RecordLogin(_ context.Context, id string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), auth.NewBcryptPasswordHasherWithCost(4))

	u, err := svc.Register(ctx, "  Skipper@Example.com ", "anchors-away", "Skipper")
	require.NoError(t, err)
	assert.Equal(t, "skipper@example.com", u.Email)
	require.NotNil(t, u.DisplayName)
	assert.Equal(t, "Skipper", *u.DisplayName)

	_, err = svc.Register(ctx, "skipper@example.com", "anchors-away", "Again")
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)

	logged, err := svc.Login(ctx, "SKIPPER@example.com", "anchors-away")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotNil(t, logged.LastLoginAt)
	assert.Equal(t, RoleRenter, logged.Role())

	_, err = svc.Login(ctx, "skipper@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "anchors-away")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newMemRepo(), auth.NewBcryptPasswordHasherWithCost(4))

	_, err := svc.Register(context.Background(), "   ", "anchors-away", "x")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(context.Background(), "a@b.c", "short", "x")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLoginRecordsClock(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, auth.NewBcryptPasswordHasherWithCost(4)).(*service)
	fixed := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	u, err := svc.Register(context.Background(), "deckhand@example.com", "anchors-away", "")
	require.NoError(t, err)
	assert.Nil(t, u.DisplayName)
	assert.Equal(t, "deckhand@example.com", u.Name())

	_, err = svc.Login(context.Background(), "deckhand@example.com", "anchors-away")
	require.NoError(t, err)
	require.NotNil(t, repo.users[u.ID].LastLoginAt)
	assert.True(t, fixed.Equal(*repo.users[u.ID].LastLoginAt))
}

func TestRole(t *testing.T) {
	name := "Harbour Master"
	admin := &User{Email: "hm@example.com", DisplayName: &name, IsSystemAdmin: true}
	assert.Equal(t, RoleAdmin, admin.Role())
	assert.Equal(t, "Harbour Master", admin.Name())
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, auth.NewBcryptPasswordHasherWithCost(4))

	u, err := svc.Register(context.Background(), "gone@example.com", "anchors-away", "")
	require.NoError(t, err)
	repo.users[u.ID].IsActive = false

	_, err = svc.Login(context.Background(), "gone@example.com", "anchors-away")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

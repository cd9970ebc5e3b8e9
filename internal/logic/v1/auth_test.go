package v1

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/customer-service/internal/core/domain"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("find user %d: %w", id, domain.ErrUserNotFound)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("find user %s: %w", email, domain.ErrUserNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.Email] = user
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	service := NewAuthService(repo, "test-secret", time.Hour)
	require.NoError(t, service.SeedUsers(context.Background()))
	return service, repo
}

func TestSeedUsersIsIdempotent(t *testing.T) {
	service, repo := newTestAuthService(t)

	require.NoError(t, service.SeedUsers(context.Background()))

	assert.Len(t, repo.users, 2)

	adminUser, err := repo.FindByEmail(context.Background(), "admin@email.com")
	require.NoError(t, err)
	assert.Contains(t, adminUser.Roles, domain.RoleAdmin)

	plainUser, err := repo.FindByEmail(context.Background(), "user@email.com")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleUser}, plainUser.Roles)
}

func TestLoginAndVerifyToken(t *testing.T) {
	service, _ := newTestAuthService(t)

	token, user, err := service.Login(context.Background(), "admin@email.com", "admin_password")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "admin@email.com", user.Email)

	principal, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, user.Email, principal.Email)
	assert.True(t, principal.IsAdmin())
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newTestAuthService(t)

	_, _, err := service.Login(context.Background(), "admin@email.com", "nope")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	service, _ := newTestAuthService(t)

	_, _, err := service.Login(context.Background(), "ghost@email.com", "whatever")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	service, _ := newTestAuthService(t)

	_, err := service.VerifyToken("not-a-token")

	assert.Error(t, err)
}

func TestVerifyTokenRejectsForeignSecret(t *testing.T) {
	service, _ := newTestAuthService(t)
	other := NewAuthService(newFakeUserRepo(), "other-secret", time.Hour)
	require.NoError(t, other.SeedUsers(context.Background()))

	token, _, err := other.Login(context.Background(), "user@email.com", "user_password")
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

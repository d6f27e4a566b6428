package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck/internal/models"
	"github.com/flashdeck/flashdeck/internal/store"
)

// fakeUserStore is a map-backed UserStore with the same uniqueness behavior
// as the real one.
type fakeUserStore struct {
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*models.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *models.User) error {
	if _, ok := f.byEmail[strings.ToLower(u.Email)]; ok {
		return store.ErrDuplicate
	}
	for _, existing := range f.byEmail {
		if strings.EqualFold(existing.Username, u.Username) {
			return store.ErrDuplicate
		}
	}
	f.byEmail[strings.ToLower(u.Email)] = u
	return nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.byEmail {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func newTestService() (*Service, *fakeUserStore, *TokenService) {
	users := newFakeUserStore()
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	return NewService(users, tokens), users, tokens
}

func TestRegister_DefaultsRole(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	u, err := svc.Register(context.Background(), RegisterParams{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterParams{Username: "bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterParams{Username: "bobby", Email: "Bob@Example.com", Password: "password456"})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	// First record is unaffected.
	again, err := svc.Login(ctx, "bob@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, again)
	assert.Equal(t, "bob", first.Username)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{Username: "carol", Email: "carol@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterParams{Username: "Carol", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []RegisterParams{
		{Username: "ab", Email: "a@b.com", Password: "password123"},
		{Username: "has space", Email: "a@b.com", Password: "password123"},
		{Username: "fine", Email: "not-an-email", Password: "password123"},
		{Username: "fine", Email: "a@b.com", Password: "short"},
		{Username: "fine", Email: "a@b.com", Password: "password123", Role: "superuser"},
	}
	for _, p := range cases {
		_, err := svc.Register(ctx, p)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve, "params %+v", p)
	}
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	t.Parallel()

	svc, _, tokens := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterParams{
		Username: "dave", Email: "dave@example.com", Password: "password123", Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	tok, err := svc.Login(ctx, "dave@example.com", "password123")
	require.NoError(t, err)

	claims, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{Username: "erin", Email: "erin@example.com", Password: "password123"})
	require.NoError(t, err)

	_, wrongPw := svc.Login(ctx, "erin@example.com", "wrong-password")
	_, unknown := svc.Login(ctx, "nobody@example.com", "password123")

	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

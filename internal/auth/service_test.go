package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"travelbook/internal/shared/config"
	"travelbook/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]*users.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*users.User{}}
}

func (f *fakeRepo) Create(_ context.Context, user *users.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) SetPassword(_ context.Context, userID string, hashedPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Password = hashedPassword
	return nil
}

func (f *fakeRepo) TakenField(_ context.Context, email, phone string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	field := ""
	for _, u := range f.users {
		if u.Email == email {
			return "email", nil
		}
		if u.Phone == phone {
			field = "phone"
		}
	}
	return field, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: time.Hour,
		},
	}
}

func registerReq(email, phone, role string) *RegisterRequest {
	return &RegisterRequest{
		Name:     "Asha Traveller",
		Email:    email,
		Phone:    phone,
		Password: "secret123",
		Role:     role,
	}
}

func TestRegister(t *testing.T) {
	t.Run("defaults to user role", func(t *testing.T) {
		svc := NewService(newFakeRepo(), testConfig())

		resp, err := svc.Register(context.Background(), registerReq("Asha@Example.com", "9000000001", ""))
		require.NoError(t, err)
		assert.Equal(t, "user", resp.User.Role)
		assert.Equal(t, "asha@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("agency may self register", func(t *testing.T) {
		svc := NewService(newFakeRepo(), testConfig())

		resp, err := svc.Register(context.Background(), registerReq("agency@example.com", "9000000002", "agency"))
		require.NoError(t, err)
		assert.Equal(t, "agency", resp.User.Role)
	})

	t.Run("admin cannot be self assigned", func(t *testing.T) {
		svc := NewService(newFakeRepo(), testConfig())

		_, err := svc.Register(context.Background(), registerReq("root@example.com", "9000000003", "admin"))
		assert.ErrorIs(t, err, ErrRoleNotAllowed)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := NewService(newFakeRepo(), testConfig())

		_, err := svc.Register(context.Background(), registerReq("dup@example.com", "9000000004", ""))
		require.NoError(t, err)
		_, err = svc.Register(context.Background(), registerReq("dup@example.com", "9000000005", ""))
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		assert.Contains(t, err.Error(), "email is already registered")
	})

	t.Run("duplicate phone", func(t *testing.T) {
		svc := NewService(newFakeRepo(), testConfig())

		_, err := svc.Register(context.Background(), registerReq("first@example.com", "9000000006", ""))
		require.NoError(t, err)
		_, err = svc.Register(context.Background(), registerReq("second@example.com", "9000000006", ""))
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		assert.Contains(t, err.Error(), "phone is already registered")
	})
}

func TestLoginAndTokens(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq("login@example.com", "9000000010", "agency"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "login@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "login@example.com", Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "agency", claims.Role)
	assert.Equal(t, tokenTypeAccess, claims.Type)

	// an access token cannot be used as a refresh token
	_, err = svc.RefreshToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pair, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, int64(900), pair.ExpiresIn)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig()).(*service)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := svc.generateTokenPair(uuid.NewString(), "old@example.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestChangePassword(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("pw@example.com", "9000000020", ""))
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newsecret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "pw@example.com", Password: "newsecret"})
	assert.NoError(t, err)
}

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/contable/internal/auth"
)

func newService(t *testing.T) (*auth.Service, *auth.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := auth.NewMockRepository(ctrl)

	return auth.NewService(repo, auth.NewTokens("secret", time.Hour)).WithCost(bcrypt.MinCost), repo
}

func hashed(t *testing.T, password string) string {
	t.Helper()

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return string(h)
}

func TestService_Login(t *testing.T) {
	user := &auth.User{ID: uuid.New(), Email: "ana@example.com", Status: auth.StatusActive}
	user.PasswordHash = hashed(t, "correct-horse")

	t.Run("Success", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(user, nil)
		repo.EXPECT().GetUser(gomock.Any(), user.ID).Return(user, nil)

		sess, err := svc.Login(context.Background(), " Ana@Example.com ", "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)

		got, err := svc.Authenticate(context.Background(), sess.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(user, nil)

		_, err := svc.Login(context.Background(), "ana@example.com", "nope")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByEmail(gomock.Any(), "who@example.com").Return(nil, auth.ErrNotFound)

		_, err := svc.Login(context.Background(), "who@example.com", "correct-horse")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("Inactive", func(t *testing.T) {
		svc, repo := newService(t)
		inactive := *user
		inactive.Status = auth.StatusInactive
		repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(&inactive, nil)

		_, err := svc.Login(context.Background(), "ana@example.com", "correct-horse")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestService_CreateUser(t *testing.T) {
	t.Run("HashesPassword", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByEmail(gomock.Any(), "luis@example.com").Return(nil, auth.ErrNotFound)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)

		u, err := svc.CreateUser(context.Background(), auth.UserParams{
			Email:       "luis@example.com",
			Password:    "s3cret-pass",
			Permissions: auth.Permissions{auth.ModuleInventory: {auth.ActionView}},
		})
		require.NoError(t, err)

		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
		assert.Equal(t, auth.StatusActive, u.Status)
	})

	tests := []struct {
		name    string
		params  auth.UserParams
		mock    bool
		wantErr error
	}{
		{name: "BadEmail", params: auth.UserParams{Email: "nope", Password: "12345678"}, wantErr: auth.ErrInvalidEmail},
		{name: "UnknownModule", params: auth.UserParams{Email: "a@b.co", Password: "12345678", Permissions: auth.Permissions{"bank": {auth.ActionView}}}, wantErr: auth.ErrInvalidPermission},
		{name: "ShortPassword", params: auth.UserParams{Email: "a@b.co", Password: "short"}, mock: true, wantErr: auth.ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			if tt.mock {
				repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, auth.ErrNotFound)
			}

			_, err := svc.CreateUser(context.Background(), tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("Duplicate", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByEmail(gomock.Any(), "a@b.co").Return(&auth.User{}, nil)

		_, err := svc.CreateUser(context.Background(), auth.UserParams{Email: "a@b.co", Password: "12345678"})
		assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
	})
}

func TestService_EnsureAdmin(t *testing.T) {
	t.Run("Creates", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByEmail(gomock.Any(), "admin@contable.local").Return(nil, auth.ErrNotFound).Times(2)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *auth.User) error {
				assert.True(t, u.IsAdmin)
				assert.NotContains(t, u.PasswordHash, "bootstrap-pass")
				return nil
			})

		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@contable.local", "bootstrap-pass"))
	})

	t.Run("Existing", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByEmail(gomock.Any(), "admin@contable.local").Return(&auth.User{}, nil)

		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@contable.local", "bootstrap-pass"))
	})
}

func TestService_DeleteLastAdmin(t *testing.T) {
	svc, repo := newService(t)

	admin := &auth.User{ID: uuid.New(), IsAdmin: true, Status: auth.StatusActive}
	repo.EXPECT().GetUser(gomock.Any(), admin.ID).Return(admin, nil)
	repo.EXPECT().ListUsers(gomock.Any()).Return([]*auth.User{admin, {ID: uuid.New(), Status: auth.StatusActive}}, nil)

	err := svc.DeleteUser(context.Background(), admin.ID)
	assert.ErrorIs(t, err, auth.ErrLastAdmin)
}

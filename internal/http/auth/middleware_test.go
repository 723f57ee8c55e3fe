package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/contable/internal/auth"
	authHandler "github.com/MrJamesThe3rd/contable/internal/http/auth"
)

const secret = "test-secret-0123456789"

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequire(t *testing.T) {
	clerk := &auth.User{
		Status:      auth.StatusActive,
		Permissions: auth.Permissions{auth.ModuleInvoices: {auth.ActionView, auth.ActionCreate}},
	}
	admin := &auth.User{Status: auth.StatusActive, IsAdmin: true}

	type testCase struct {
		name   string
		user   *auth.User
		method string
		want   int
	}

	tests := []testCase{
		{name: "no user", method: http.MethodGet, want: http.StatusUnauthorized},
		{name: "view allowed", user: clerk, method: http.MethodGet, want: http.StatusOK},
		{name: "create allowed", user: clerk, method: http.MethodPost, want: http.StatusOK},
		{name: "edit denied", user: clerk, method: http.MethodPatch, want: http.StatusForbidden},
		{name: "delete denied", user: clerk, method: http.MethodDelete, want: http.StatusForbidden},
		{name: "admin may delete", user: admin, method: http.MethodDelete, want: http.StatusOK},
	}

	h := authHandler.Require(auth.ModuleInvoices)(ok)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(tc.method, "/", nil)
			if tc.user != nil {
				r = r.WithContext(auth.WithUser(r.Context(), tc.user))
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := auth.NewMockRepository(ctrl)
	tokens := auth.NewTokens(secret, time.Hour)
	svc := auth.NewService(repo, tokens)

	user := &auth.User{ID: uuid.New(), Email: "ana@example.com", Status: auth.StatusActive}

	token, _, err := tokens.Issue(user)
	require.NoError(t, err)

	var seen *auth.User

	h := authHandler.Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer not-a-jwt")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		repo.EXPECT().GetUser(gomock.Any(), user.ID).Return(user, nil)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, seen)
		assert.Equal(t, user.ID, seen.ID)
	})

	t.Run("inactive user", func(t *testing.T) {
		inactive := *user
		inactive.Status = auth.StatusInactive
		repo.EXPECT().GetUser(gomock.Any(), user.ID).Return(&inactive, nil)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserFrom_Empty(t *testing.T) {
	_, found := auth.UserFrom(context.Background())
	assert.False(t, found)
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscms/internal/database/testdb"
	"campuscms/internal/models"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := NewSessionStore(testKey)
	require.NoError(t, err)
	return NewService(NewRepository(testdb.Open(t)), store, "campuscms-session", nil)
}

func TestNewSessionStoreRejectsShortKey(t *testing.T) {
	_, err := NewSessionStore("short")
	assert.Error(t, err)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	u, err := s.RegisterUser(ctx, "rina", "Rina", "rahasia", "")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, models.RoleWriter, u.Role)

	got, err := s.Authenticate(ctx, "rina", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = s.Authenticate(ctx, "rina", "salah")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = s.Authenticate(ctx, "nobody", "x")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestRegisterUserValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, err := s.RegisterUser(ctx, "admin", "Admin", "pw", models.RoleAdmin)
	require.NoError(t, err)

	_, err = s.RegisterUser(ctx, "admin", "Again", "pw", models.RoleAdmin)
	assert.True(t, errors.Is(err, models.ErrInvalid))
	_, err = s.RegisterUser(ctx, "x", "X", "pw", "superuser")
	assert.True(t, errors.Is(err, models.ErrInvalid))
	_, err = s.RegisterUser(ctx, "y", "Y", "", "")
	assert.True(t, errors.Is(err, models.ErrInvalid))
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	u, err := s.RegisterUser(ctx, "budi", "Budi", "lama", "")
	require.NoError(t, err)
	require.NoError(t, s.ChangePassword(ctx, u.ID, "baru"))

	_, err = s.Authenticate(ctx, "budi", "lama")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = s.Authenticate(ctx, "budi", "baru")
	assert.NoError(t, err)
}

func TestLoginSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	_, err := s.RegisterUser(ctx, "admin", "Admin", "pw", models.RoleAdmin)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	_, err = s.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "admin", "pw")
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	var seen *models.User
	h := s.WithUser(RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "admin", seen.Username)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RequireRole(models.RoleAdmin)(ok)

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"writer", &models.User{ID: 2, Role: models.RoleWriter}, http.StatusForbidden},
		{"admin", &models.User{ID: 1, Role: models.RoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
			if tt.user != nil {
				req = req.WithContext(WithCurrentUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(WithCurrentUser(req.Context(), &models.User{Role: models.RoleWriter}))
	RequireLogin(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserManagement(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u, err := s.RegisterUser(ctx, "sari", "Sari", "pw", "")
	require.NoError(t, err)

	u.Role = models.RoleAdmin
	u.DisplayName = "Sari W."
	require.NoError(t, s.Repo.UpdateUser(ctx, &u))

	got, err := s.Repo.FindUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	require.NoError(t, s.Repo.DeleteUser(ctx, u.ID))
	_, err = s.Repo.FindIdentityByProvider(ctx, "local", "sari")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.True(t, errors.Is(s.Repo.DeleteUser(ctx, u.ID), models.ErrNotFound))
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenLifecycle(t *testing.T) {
	auth := NewAdminAuth("pw", "0123456789abcdef0123456789abcdef", time.Hour)
	assert.True(t, auth.CheckPassword("pw"))
	assert.False(t, auth.CheckPassword("PW"))

	tok, exp, err := auth.GenerateToken()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
	assert.NoError(t, auth.ValidateToken(tok))

	other := NewAdminAuth("pw", "another-secret-another-secret-00", time.Hour)
	assert.Error(t, other.ValidateToken(tok))

	auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Error(t, auth.ValidateToken(tok), "expired")
}

func TestLoginLogout(t *testing.T) {
	api, _, _ := newTestAPI(t)
	api.Auth = NewAdminAuth("pw", "0123456789abcdef0123456789abcdef", time.Hour)

	rec := call(t, api.AdminLogin, http.MethodPost, "/login", "/login", `{"password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, api.AdminLogin, http.MethodPost, "/login", "/login", `{"password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, adminCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	guarded := api.Auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin/x", nil)
	req.AddCookie(cookies[0])
	rr := httptest.NewRecorder()
	guarded.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)

	rec = call(t, api.AdminLogout, http.MethodPost, "/logout", "/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Empty(t, rec.Result().Cookies()[0].Value)
}

package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquamon.io/water-quality-service/pkg/common"
	_ "aquamon.io/water-quality-service/pkg/testing"
)

func doForm(rs *RestfulServer, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

func doGet(rs *RestfulServer, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

func TestPublicViews(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	for _, path := range []string{"/", "/register", "/login", "/password-reset-request"} {
		w := doGet(rs, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, "GET %s", path)
	}
}

func TestGatedViewsRedirectToLogin(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	for _, path := range []string{"/dashboard", "/readings", "/admin-dashboard"} {
		w := doGet(rs, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, "GET %s", path)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	}
}

func TestRegisterAndLoginViews(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	username := "u-" + uuid.NewString()[:13]

	// registering logs the user in and lands on the dashboard
	w := doForm(rs, "/register", url.Values{
		"username": {username},
		"email":    {username + "@test.local"},
		"password": {"secret123"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = doGet(rs, "/dashboard", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), username)

	// a regular user is kept out of the admin dashboard
	w = doGet(rs, "/admin-dashboard", cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// log out, then the dashboard bounces back to login
	w = doForm(rs, "/logout", url.Values{}, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	w = doGet(rs, "/dashboard", w.Result().Cookies())
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRegisterView_ShortPassword(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	username := "u-" + uuid.NewString()[:13]
	w := doForm(rs, "/register", url.Values{
		"username": {username},
		"email":    {username + "@test.local"},
		"password": {"123"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginView_AdminRedirect(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	username := "u-" + uuid.NewString()[:13]
	_, err := rs.Mon.User.Register(username, username+"@test.local", "secret123", "admin")
	require.NoError(t, err)

	w := doForm(rs, "/login", url.Values{
		"username": {username},
		"password": {"secret123"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin-dashboard", w.Header().Get("Location"))

	w = doGet(rs, "/admin-dashboard", w.Result().Cookies())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginView_BadCredentials(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	w := doForm(rs, "/login", url.Values{
		"username": {"nobody-" + uuid.NewString()},
		"password": {"whatever"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password")
}

package misc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/2beens/gymflow/internal/auth"
	"github.com/2beens/gymflow/internal/misc"
	"github.com/2beens/gymflow/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testRequestRateLimiter struct {
	// key to limit map
	Limits map[string]int
}

func (l *testRequestRateLimiter) Allow(_ context.Context, key string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	res := &redis_rate.Result{}
	foundLimit, ok := l.Limits[key]
	if !ok || foundLimit == 0 {
		return res, nil
	}
	res.Allowed = l.Limits[key]
	l.Limits[key]--
	return res, nil
}

func TestNewMiscHandler(t *testing.T) {
	mainRouter := mux.NewRouter()
	handler := misc.NewHandler("dummy", nil)
	handler.SetupRoutes(mainRouter, nil, metrics.NewTestManager(), 10)
	require.NotNil(t, handler)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"route-get":     {name: "root", path: "/", method: "GET"},
		"route-options": {name: "root", path: "/", method: "OPTIONS"},
		"version":       {name: "version", path: "/version", method: "GET"},
		"login":         {name: "login", path: "/a/login", method: "POST"},
		"logout":        {name: "logout", path: "/a/logout", method: "GET"},
		"logout-otions": {name: "logout", path: "/a/logout", method: "OPTIONS"},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			route := mainRouter.Get(route.name)
			require.NotNil(t, route)
			assert.True(t, route.Match(req, routeMatch), caseName)
		})
	}
}

func TestLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuthService := NewMockauthService(ctrl)

	reqRateLimiter := &testRequestRateLimiter{
		Limits: map[string]int{"login||192.0.2.1": 1},
	}
	r := mux.NewRouter()
	misc.NewHandler("dummy", mockAuthService).
		SetupRoutes(r, reqRateLimiter, metrics.NewTestManager(), 10)

	mockAuthService.EXPECT().
		Login(gomock.Any(), auth.Credentials{Username: "testuser", Password: "testpass"}, gomock.Any()).
		Return("test_token", &auth.Identity{Username: "testuser", Role: auth.RoleUser}, nil)

	form := url.Values{}
	form.Add("username", "testuser")
	form.Add("password", "testpass")
	newReq := func() *http.Request {
		req := httptest.NewRequest("POST", "/a/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newReq())
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Token    string        `json:"token"`
		Identity auth.Identity `json:"identity"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "test_token", resp.Token)
	assert.Equal(t, "testuser", resp.Identity.Username)

	// next time rate limited
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, newReq())
	assert.Equal(t, http.StatusTooEarly, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "retry after"))
}

func TestLogin_WrongCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuthService := NewMockauthService(ctrl)

	r := mux.NewRouter()
	misc.NewHandler("dummy", mockAuthService).
		SetupRoutes(r, &testRequestRateLimiter{Limits: map[string]int{"login||192.0.2.1": 5}}, metrics.NewTestManager(), 10)

	mockAuthService.EXPECT().
		Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", nil, auth.ErrWrongCredentials)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/a/login", strings.NewReader(`{"username":"a","password":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// missing password never reaches the service
	rr = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/a/login", strings.NewReader(`{"username":"a"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogout_NotifiesListeners(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuthService := NewMockauthService(ctrl)

	var loggedOut []string
	listener := func(_ context.Context, id auth.Identity) {
		loggedOut = append(loggedOut, id.Username)
	}

	r := mux.NewRouter()
	misc.NewHandler("dummy", mockAuthService, listener).
		SetupRoutes(r, &testRequestRateLimiter{Limits: map[string]int{"login||192.0.2.1": 5}}, metrics.NewTestManager(), 10)

	mockAuthService.EXPECT().
		Logout(gomock.Any(), "tkn").
		Return(&auth.Identity{Username: "ana", Role: auth.RoleUser}, nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/a/logout", nil)
	req.Header.Set(auth.TokenHeader, "tkn")
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "logged-out", rr.Body.String())
	assert.Equal(t, []string{"ana"}, loggedOut)

	// no token
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/a/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

package task_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"tasktracker/connection"
	"tasktracker/services"
)

type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := connection.Config{
		StoreDriver:      connection.DriverSQLite,
		SQLitePath:       filepath.Join(t.TempDir(), "task.db"),
		JWTSecret:        "test-secret",
		SessionCookie:    "tt_session",
		SessionTTL:       time.Hour,
		StatementTimeout: 5 * time.Second,
	}
	store, err := connection.OpenStore(t.Context(), cfg)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return connection.NewRouter(cfg, store, services.BcryptHasher{Cost: bcrypt.MinCost})
}

// loggedIn registers username and returns a client holding its session.
func loggedIn(t *testing.T, handler http.Handler, username string) *client {
	t.Helper()
	c := &client{t: t, handler: handler}
	creds := url.Values{"username": {username}, "password": {"pw-" + username}}
	if rec := c.do(http.MethodPost, "/registration/", creds); rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", username, rec.Code, rec.Body.String())
	}
	if rec := c.do(http.MethodPost, "/login/", creds); rec.Code != http.StatusSeeOther || c.cookie == nil {
		t.Fatalf("login %s: %d %s", username, rec.Code, rec.Body.String())
	}
	return c
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "tt_session" && ck.Value != "" {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) doJSON(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func expectCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

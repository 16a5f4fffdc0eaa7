package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidysea/notes/internal/config"
	"github.com/vidysea/notes/internal/models"
)

// fakeBackend simulates the notes REST API
type fakeBackend struct {
	mu         sync.Mutex
	authHeader []string
	created    []map[string]string
	edited     map[string]map[string]string
	deleted    []string
	listStatus int
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /app/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch {
		case body["email"] == "admin@example.com" && body["password"] == "secret1":
			writeAuth(w, "T-admin", "admin")
		case body["email"] == "user@example.com" && body["password"] == "secret1":
			writeAuth(w, "T-user", "user")
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
		}
	})

	mux.HandleFunc("POST /app/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeAuth(w, "T-new", body["role"])
	})

	listNotes := func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.authHeader = append(f.authHeader, r.Header.Get("Authorization"))
		status := f.listStatus
		f.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			w.Write([]byte(`{"detail":"Not authenticated"}`))
			return
		}
		w.Write([]byte(`{"data":{"notes":[{"id":1,"title":"Groceries","content":"milk","created_at":"2024-05-01T10:00:00Z","user_id":"u1","my_note":true}]}}`))
	}
	mux.HandleFunc("GET /app/notes/", listNotes)
	mux.HandleFunc("GET /app/notes/all", listNotes)

	mux.HandleFunc("POST /app/notes/create", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.created = append(f.created, body)
		f.mu.Unlock()
		w.Write([]byte(`{"message":"Note created"}`))
	})

	mux.HandleFunc("PUT /app/notes/edit/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		if f.edited == nil {
			f.edited = make(map[string]map[string]string)
		}
		f.edited[r.PathValue("id")] = body
		f.mu.Unlock()
		w.Write([]byte(`{"message":"Note updated"}`))
	})

	mux.HandleFunc("DELETE /app/notes/delete/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.deleted = append(f.deleted, r.PathValue("id"))
		f.mu.Unlock()
		w.Write([]byte(`{"message":"Note deleted"}`))
	})

	return mux
}

func writeAuth(w http.ResponseWriter, token, role string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{
			"user":         map[string]string{"role": role},
			"access_token": token,
		},
	})
}

type testEnv struct {
	t       *testing.T
	server  *Server
	backend *fakeBackend
	cookie  *http.Cookie
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &fakeBackend{}
	api := httptest.NewServer(backend.handler(t))
	t.Cleanup(api.Close)

	cfg := &config.Config{
		API:      config.APIConfig{URL: api.URL},
		HTTP:     config.HTTPConfig{ListenAddr: ":0"},
		Database: config.DatabaseConfig{URL: filepath.Join(t.TempDir(), "notes-web.sqlite")},
		Sessions: config.SessionsConfig{MaxAge: time.Hour, SweepSchedule: "@hourly"},
		Logging:  config.LoggingConfig{Level: "error", Format: "json"},
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := srv.db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testEnv{t: t, server: srv, backend: backend}
}

// request sends a request as the same browser, keeping the session cookie
func (e *testEnv) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	e.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			e.cookie = c
		}
	}
	return rec
}

func (e *testEnv) login(email string) {
	e.t.Helper()
	rec := e.request(http.MethodPost, models.LoginPath, url.Values{"email": {email}, "password": {"secret1"}})
	require.Equal(e.t, http.StatusSeeOther, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	env := setupTestServer(t)

	rec := env.request(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"online"`)
	assert.Nil(t, env.cookie)
}

func TestDashboard_RedirectsAnonymousToLogin(t *testing.T) {
	env := setupTestServer(t)

	rec := env.request(http.MethodGet, models.UserDashboardPath, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, models.LoginPath, rec.Header().Get("Location"))
	require.NotNil(t, env.cookie)
	assert.True(t, env.cookie.HttpOnly)
}

func TestSessionMiddleware_ReplacesBadCookie(t *testing.T) {
	env := setupTestServer(t)
	env.cookie = &http.Cookie{Name: sessionCookie, Value: "../../etc/passwd"}

	env.request(http.MethodGet, "/api/session", nil)
	assert.True(t, validSessionID(env.cookie.Value))
}

func TestLogin_AdminFlow(t *testing.T) {
	env := setupTestServer(t)

	rec := env.request(http.MethodPost, models.LoginPath, url.Values{"email": {" admin@example.com "}, "password": {"secret1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.AdminDashboardPath, rec.Header().Get("Location"))

	// The user dashboard bounces an admin to their own home
	rec = env.request(http.MethodGet, models.UserDashboardPath, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, models.AdminDashboardPath, rec.Header().Get("Location"))

	rec = env.request(http.MethodGet, models.AdminDashboardPath+"?q=groc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Groceries")
	assert.Contains(t, rec.Body.String(), "Owner: u1")
	assert.Contains(t, rec.Body.String(), "My Note")
	assert.Equal(t, []string{"Bearer T-admin"}, env.backend.authHeader)
}

func TestLogin_IssuesNewSessionID(t *testing.T) {
	env := setupTestServer(t)
	env.request(http.MethodGet, models.LoginPath, nil)
	require.NotNil(t, env.cookie)
	preLogin := env.cookie

	env.login("admin@example.com")
	require.NotEqual(t, preLogin.Value, env.cookie.Value)
	assert.True(t, validSessionID(env.cookie.Value))

	rec := env.request(http.MethodGet, models.AdminDashboardPath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The cookie planted before login carries nothing
	loggedIn := env.cookie
	env.cookie = preLogin
	rec = env.request(http.MethodGet, models.AdminDashboardPath, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, models.LoginPath, rec.Header().Get("Location"))
	assert.False(t, env.server.sessions.Session(preLogin.Value).IsAuthenticated())
	assert.True(t, env.server.sessions.Session(loggedIn.Value).IsAuthenticated())
}

func TestLogin_RejectedKeepsSessionID(t *testing.T) {
	env := setupTestServer(t)
	env.request(http.MethodGet, models.LoginPath, nil)
	before := env.cookie.Value

	env.request(http.MethodPost, models.LoginPath, url.Values{"email": {"user@example.com"}, "password": {"wrong"}})
	assert.Equal(t, before, env.cookie.Value)
}

func TestLogin_UserFlowAndRoot(t *testing.T) {
	env := setupTestServer(t)
	env.login("user@example.com")

	rec := env.request(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, models.UserDashboardPath, rec.Header().Get("Location"))

	rec = env.request(http.MethodGet, models.AdminDashboardPath, nil)
	assert.Equal(t, models.UserDashboardPath, rec.Header().Get("Location"))

	rec = env.request(http.MethodGet, "/api/session", nil)
	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, true, info["authenticated"])
	assert.Equal(t, "user", info["role"])
}

func TestLogin_RejectedKeepsSessionEmpty(t *testing.T) {
	env := setupTestServer(t)

	rec := env.request(http.MethodPost, models.LoginPath, url.Values{"email": {"user@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")

	rec = env.request(http.MethodGet, models.UserDashboardPath, nil)
	assert.Equal(t, models.LoginPath, rec.Header().Get("Location"))
}

func TestLogin_ValidationError(t *testing.T) {
	env := setupTestServer(t)

	rec := env.request(http.MethodPost, models.LoginPath, url.Values{"email": {""}, "password": {"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email is required")
}

func TestSignup_LogsIn(t *testing.T) {
	env := setupTestServer(t)

	rec := env.request(http.MethodPost, models.SignupPath, url.Values{
		"name":     {"Ada"},
		"phone":    {"9876543210"},
		"email":    {"ada@example.com"},
		"password": {"secret1"},
		"role":     {"admin"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.AdminDashboardPath, rec.Header().Get("Location"))
}

func TestSignup_IssuesNewSessionID(t *testing.T) {
	env := setupTestServer(t)
	env.request(http.MethodGet, models.SignupPath, nil)
	preSignup := env.cookie.Value

	rec := env.request(http.MethodPost, models.SignupPath, url.Values{
		"name":     {"Ada"},
		"phone":    {"9876543210"},
		"email":    {"ada@example.com"},
		"password": {"secret1"},
		"role":     {"user"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotEqual(t, preSignup, env.cookie.Value)
	assert.False(t, env.server.sessions.Session(preSignup).IsAuthenticated())
}

func TestSignup_FieldErrors(t *testing.T) {
	env := setupTestServer(t)

	rec := env.request(http.MethodPost, models.SignupPath, url.Values{
		"name":     {"Ada"},
		"phone":    {"12345"},
		"email":    {"not-an-email"},
		"password": {"123"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Phone Number must be exactly 10 digits")
	assert.Contains(t, body, "Enter a valid email address")
	assert.Contains(t, body, "Min 6 chars")
}

func TestLogout_ClearsSessionAndShowsFlash(t *testing.T) {
	env := setupTestServer(t)
	env.login("user@example.com")

	rec := env.request(http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.LoginPath, rec.Header().Get("Location"))

	rec = env.request(http.MethodGet, models.UserDashboardPath, nil)
	assert.Equal(t, models.LoginPath, rec.Header().Get("Location"))

	rec = env.request(http.MethodGet, models.LoginPath, nil)
	assert.Contains(t, rec.Body.String(), "You have been logged out")

	// Flash messages are shown once
	rec = env.request(http.MethodGet, models.LoginPath, nil)
	assert.NotContains(t, rec.Body.String(), "You have been logged out")
}

func TestDashboard_InvalidRoleGoesToLogin(t *testing.T) {
	env := setupTestServer(t)
	env.request(http.MethodGet, "/api/session", nil)

	session := env.server.sessions.Session(env.cookie.Value)
	require.NoError(t, session.SetToken("T1"))
	require.NoError(t, session.SetRole("superuser"))

	rec := env.request(http.MethodGet, models.UserDashboardPath, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, models.LoginPath, rec.Header().Get("Location"))
}

func TestDashboard_ExpiredTokenLogsOut(t *testing.T) {
	env := setupTestServer(t)
	env.login("user@example.com")
	env.backend.listStatus = http.StatusUnauthorized

	rec := env.request(http.MethodGet, models.UserDashboardPath, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.LoginPath, rec.Header().Get("Location"))

	assert.False(t, env.server.sessions.Session(env.cookie.Value).IsAuthenticated())
}

func TestDashboard_FetchFailure(t *testing.T) {
	env := setupTestServer(t)
	env.login("user@example.com")
	env.backend.listStatus = http.StatusInternalServerError

	rec := env.request(http.MethodGet, models.UserDashboardPath, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch notes")
}

func TestNotes_CreateAndDelete(t *testing.T) {
	env := setupTestServer(t)
	env.login("user@example.com")

	rec := env.request(http.MethodPost, "/notes", url.Values{"title": {" Groceries "}, "content": {"milk"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.UserDashboardPath, rec.Header().Get("Location"))
	require.Len(t, env.backend.created, 1)
	assert.Equal(t, "Groceries", env.backend.created[0]["title"])

	rec = env.request(http.MethodGet, models.UserDashboardPath, nil)
	assert.Contains(t, rec.Body.String(), "Note created")

	rec = env.request(http.MethodPost, "/notes/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"1"}, env.backend.deleted)
}

func TestNotes_Edit(t *testing.T) {
	env := setupTestServer(t)
	env.login("admin@example.com")

	rec := env.request(http.MethodPost, "/notes/1", url.Values{"title": {" Shopping "}, "content": {"milk, eggs"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.AdminDashboardPath, rec.Header().Get("Location"))
	assert.Equal(t, map[string]string{"title": "Shopping", "content": "milk, eggs"}, env.backend.edited["1"])

	rec = env.request(http.MethodGet, models.AdminDashboardPath, nil)
	assert.Contains(t, rec.Body.String(), "Note updated")
}

func TestNotes_CreateRequiresTitle(t *testing.T) {
	env := setupTestServer(t)
	env.login("user@example.com")

	env.request(http.MethodPost, "/notes", url.Values{"title": {"  "}})
	assert.Empty(t, env.backend.created)

	rec := env.request(http.MethodGet, models.UserDashboardPath, nil)
	assert.Contains(t, rec.Body.String(), "Title is required")
}

func TestNotes_AnonymousMutationRedirects(t *testing.T) {
	env := setupTestServer(t)

	rec := env.request(http.MethodPost, "/notes/1/delete", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.LoginPath, rec.Header().Get("Location"))
	assert.Empty(t, env.backend.deleted)
}

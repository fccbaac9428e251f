package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"skill_tracker_backend/internal/config"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver:   "sqlite",
			DSN:      "file:" + name + "?mode=memory&cache=shared&_foreign_keys=on",
			LogLevel: "silent",
		},
		JWT:     config.JWTConfig{Secret: "app-test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}

	db, err := database.InitDB(&cfg.Database)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	a := New(cfg, db, nil)
	require.NoError(t, a.Bootstrap(context.Background()))
	return a
}

func doJSON(t *testing.T, a *App, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func login(t *testing.T, a *App, username, password string) string {
	t.Helper()
	w, env := doJSON(t, a, http.MethodPost, "/api/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func dataID(t *testing.T, env envelope) uint {
	t.Helper()
	var obj struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &obj))
	require.NotZero(t, obj.ID)
	return obj.ID
}

func TestHealthAndForms(t *testing.T) {
	a := newTestApp(t)

	w, _ := doJSON(t, a, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, a, http.MethodGet, "/api/forms/goal", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"target_date"`)
	assert.Contains(t, string(env.Data), `"widget":"date"`)

	w, _ = doJSON(t, a, http.MethodGet, "/api/forms/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterLoginAndTrackProgress(t *testing.T) {
	a := newTestApp(t)

	register := gin.H{
		"username":  "alice",
		"email":     "alice@example.com",
		"password1": "correct-horse",
		"password2": "correct-horse",
	}
	w, _ := doJSON(t, a, http.MethodPost, "/api/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := doJSON(t, a, http.MethodPost, "/api/register", "", register)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, string(env.Data), "A user with that username already exists.")

	w, _ = doJSON(t, a, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := login(t, a, "alice", "correct-horse")

	w, env = doJSON(t, a, http.MethodPost, "/api/skills", token, gin.H{
		"name": "Go", "description": "The Go language", "category": "programming", "difficulty": "medium",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	skillID := dataID(t, env)

	w, env = doJSON(t, a, http.MethodPost, "/api/goals", token, gin.H{
		"skill": skillID, "name": "Finish the tour", "description": "All chapters",
		"target_date": "2030-01-31", "progress": 0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goalID := dataID(t, env)
	assert.Contains(t, string(env.Data), `"target_date":"2030-01-31"`)

	progressPath := "/api/progress?goal_id=" + strconv.Itoa(int(goalID))
	w, _ = doJSON(t, a, http.MethodPost, progressPath, token, gin.H{"progress": 70, "update_text": "most chapters"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, env = doJSON(t, a, http.MethodPost, progressPath, token, gin.H{"progress": 50, "update_text": "done"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result struct {
		Goal struct {
			Progress   int  `json:"progress"`
			IsComplete bool `json:"is_complete"`
		} `json:"goal"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 100, result.Goal.Progress)
	assert.True(t, result.Goal.IsComplete)

	w, env = doJSON(t, a, http.MethodPost, "/api/progress", token, gin.H{"progress": 5, "update_text": "no goal"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Data), "Goal ID is required.")

	w, env = doJSON(t, a, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"completed_skill_count":1`)

	w, _ = doJSON(t, a, http.MethodGet, "/api/skills/"+strconv.Itoa(int(skillID)), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOwnershipOverHTTP(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "mallory"} {
		_, err := a.Accounts().CreateAccount(ctx, validation.NewAccountForm{
			Username: name, Email: name + "@example.com", Password: "correct-horse",
		})
		require.NoError(t, err)
	}
	alice := login(t, a, "alice", "correct-horse")
	mallory := login(t, a, "mallory", "correct-horse")

	w, env := doJSON(t, a, http.MethodPost, "/api/skills", alice, gin.H{
		"name": "Go", "description": "d", "category": "c", "difficulty": "easy",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	path := "/api/skills/" + strconv.Itoa(int(dataID(t, env)))

	w, _ = doJSON(t, a, http.MethodGet, path, mallory, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = doJSON(t, a, http.MethodDelete, path, mallory, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Data), "Invalid skill.")

	w, _ = doJSON(t, a, http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAdminRoutesRequirePermission(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	accounts := []validation.NewAccountForm{
		{Username: "plain", Password: "correct-horse"},
		{Username: "staffer", Password: "correct-horse", IsStaff: true},
		{Username: "root", Password: "correct-horse", IsStaff: true, IsSuperuser: true},
	}
	for _, f := range accounts {
		_, err := a.Accounts().CreateAccount(ctx, f)
		require.NoError(t, err)
	}

	plain := login(t, a, "plain", "correct-horse")
	staff := login(t, a, "staffer", "correct-horse")
	root := login(t, a, "root", "correct-horse")

	w, _ := doJSON(t, a, http.MethodGet, "/api/admin/users", plain, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, a, http.MethodGet, "/api/admin/users", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, a, http.MethodGet, "/api/admin/skills", staff, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, a, http.MethodGet, "/api/admin/users", root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 3, page.Total)

	w, _ = doJSON(t, a, http.MethodGet, "/api/admin/groups", root, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeactivatedAccountLosesAccess(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	_, err := a.Accounts().CreateAccount(ctx, validation.NewAccountForm{
		Username: "root", Password: "correct-horse", IsStaff: true, IsSuperuser: true,
	})
	require.NoError(t, err)
	bob, err := a.Accounts().CreateAccount(ctx, validation.NewAccountForm{Username: "bob", Password: "correct-horse"})
	require.NoError(t, err)

	root := login(t, a, "root", "correct-horse")
	token := login(t, a, "bob", "correct-horse")

	w, _ := doJSON(t, a, http.MethodGet, "/api/skills", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	path := "/api/admin/users/" + strconv.Itoa(int(bob.ID))
	w, _ = doJSON(t, a, http.MethodPatch, path, root, gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = doJSON(t, a, http.MethodGet, "/api/skills", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = doJSON(t, a, http.MethodPost, "/api/progress?goal_id=1", token, gin.H{"progress": 5, "update_text": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

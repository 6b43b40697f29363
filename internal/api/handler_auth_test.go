package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sammy440/Habit-tracker/config"
	"github.com/sammy440/Habit-tracker/internal/service"
	"github.com/sammy440/Habit-tracker/internal/storage"
	"github.com/sammy440/Habit-tracker/internal/util"
)

func newAuthedRouter(t *testing.T) *Router {
	t.Helper()
	hash, err := util.HashPassword("hunter2")
	require.NoError(t, err)

	authCfg := config.AuthConfig{
		Enabled:      true,
		Username:     "sam",
		PasswordHash: hash,
		JWTSecret:    "test-secret",
	}

	path := filepath.Join(t.TempDir(), "habits.json")
	store := storage.NewFileStore(path, zap.NewNop())
	tracker := service.NewTrackerService(store, "file", nil, zap.NewNop())
	require.NoError(t, tracker.Hydrate(context.Background()))

	return NewRouter(NewHabitHandler(tracker), NewAuthHandler(authCfg), authCfg, nil, nil)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newAuthedRouter(t)

	w := doJSON(r, "GET", "/habits", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("GET", "/habits", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w2 := httptest.NewRecorder()
	r.Engine.ServeHTTP(w2, req)
	require.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestLoginAndAccess(t *testing.T) {
	r := newAuthedRouter(t)

	w := doJSON(r, "POST", "/login", gin.H{"username": "sam", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "POST", "/login", gin.H{"username": "sam", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest("GET", "/habits", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w2 := httptest.NewRecorder()
	r.Engine.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)
}

func TestHealthStaysPublicWithAuth(t *testing.T) {
	r := newAuthedRouter(t)

	w := doJSON(r, "GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"parley-chat/config"
	"parley-chat/internal/domain/user"
	"parley-chat/internal/handler"
	"parley-chat/internal/repository"
	"parley-chat/internal/server"
	"parley-chat/internal/services"
	"parley-chat/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	t      *testing.T
	srv    *server.Server
	db     *gorm.DB
	realm  user.Realm
	tokens map[string]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.InitSchema(db))

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	cfg := &config.Config{
		AppPort:      "0",
		AppMode:      server.TestMode,
		JWTSecret:    "test-secret",
		JWTExpiryMin: 60,
	}

	authService := services.NewAuthService(userRepo, cfg)
	authz := services.NewAuthorizer(userRepo)
	groupService := services.NewGroupService(db, groupRepo, userRepo, authz, nil, nil, logger.NewNop())

	srv := server.New(cfg, logger.NewNop())
	srv.SetupRoutes(&server.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Groups: handler.NewGroupHandler(groupService),
	}, authService, nil)

	env := &testEnv{t: t, srv: srv, db: db, tokens: map[string]string{}}
	env.realm = user.Realm{Name: "acme", GroupEditPolicy: user.GroupEditPolicyMembers}
	require.NoError(t, userRepo.CreateRealm(context.Background(), &env.realm))
	return env
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(w, req)
	return w
}

// registerUser registers via the HTTP API and caches the access token.
// Returns the new user's id.
func (e *testEnv) registerUser(email string) int64 {
	e.t.Helper()
	w := e.do(http.MethodPost, "/v1/auth/register", "", map[string]interface{}{
		"realm_id":     e.realm.ID,
		"email":        email,
		"password":     "Password1!",
		"display_name": email,
	})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
			User        struct {
				ID int64 `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(e.t, resp.Success)
	e.tokens[email] = resp.Data.AccessToken
	return resp.Data.User.ID
}

type groupListing struct {
	Success bool `json:"success"`
	Data    struct {
		UserGroups []struct {
			ID          int64   `json:"id"`
			Name        string  `json:"name"`
			Description string  `json:"description"`
			Members     []int64 `json:"members"`
		} `json:"user_groups"`
	} `json:"data"`
}

func (e *testEnv) listGroups(token string) groupListing {
	e.t.Helper()
	w := e.do(http.MethodGet, "/v1/user-groups", token, nil)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	var listing groupListing
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &listing))
	return listing
}

func TestGroupLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	creatorID := env.registerUser("creator@acme.test")
	memberID := env.registerUser("member@acme.test")
	token := env.tokens["creator@acme.test"]

	// Create with an initial member list.
	w := env.do(http.MethodPost, "/v1/user-groups", token, map[string]interface{}{
		"name":        "backend",
		"description": "Backend team",
		"members":     []int64{creatorID, memberID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	listing := env.listGroups(token)
	require.Len(t, listing.Data.UserGroups, 1)
	g := listing.Data.UserGroups[0]
	assert.Equal(t, "backend", g.Name)
	assert.Equal(t, "Backend team", g.Description)
	assert.ElementsMatch(t, []int64{creatorID, memberID}, g.Members)

	// Edit description only.
	w = env.do(http.MethodPatch, fmt.Sprintf("/v1/user-groups/%d", g.ID), token, map[string]interface{}{
		"description": "Platform and backend",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	listing = env.listGroups(token)
	assert.Equal(t, "backend", listing.Data.UserGroups[0].Name)
	assert.Equal(t, "Platform and backend", listing.Data.UserGroups[0].Description)

	// Delete.
	w = env.do(http.MethodDelete, fmt.Sprintf("/v1/user-groups/%d", g.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	listing = env.listGroups(token)
	assert.Empty(t, listing.Data.UserGroups)
}

func TestEditGroupNoNewDataOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser("creator@acme.test")
	token := env.tokens["creator@acme.test"]

	w := env.do(http.MethodPost, "/v1/user-groups", token, map[string]interface{}{"name": "backend"})
	require.Equal(t, http.StatusOK, w.Code)
	g := env.listGroups(token).Data.UserGroups[0]

	w = env.do(http.MethodPatch, fmt.Sprintf("/v1/user-groups/%d", g.ID), token, map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No new data supplied")
}

func TestUpdateMembersOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	creatorID := env.registerUser("creator@acme.test")
	memberID := env.registerUser("member@acme.test")
	token := env.tokens["creator@acme.test"]

	w := env.do(http.MethodPost, "/v1/user-groups", token, map[string]interface{}{
		"name":    "backend",
		"members": []int64{creatorID},
	})
	require.Equal(t, http.StatusOK, w.Code)
	g := env.listGroups(token).Data.UserGroups[0]
	membersPath := fmt.Sprintf("/v1/user-groups/%d/members", g.ID)

	// Nothing to do.
	w = env.do(http.MethodPost, membersPath, token, map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Nothing to do")

	// Add.
	w = env.do(http.MethodPost, membersPath, token, map[string]interface{}{
		"add": []int64{memberID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, env.listGroups(token).Data.UserGroups[0].Members, memberID)

	// Adding again conflicts.
	w = env.do(http.MethodPost, membersPath, token, map[string]interface{}{
		"add": []int64{memberID},
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("User %d is already a member", memberID))

	// Remove.
	w = env.do(http.MethodPost, membersPath, token, map[string]interface{}{
		"delete": []int64{memberID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, env.listGroups(token).Data.UserGroups[0].Members, memberID)

	// Removing again conflicts.
	w = env.do(http.MethodPost, membersPath, token, map[string]interface{}{
		"delete": []int64{memberID},
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("There is no member '%d'", memberID))
}

func TestGroupEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/user-groups", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/v1/user-groups", "not-a-token", map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthReportsUnavailableDatabase(t *testing.T) {
	env := newTestEnv(t)

	// The global connection is never established in tests.
	w := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database not connected")
}

func TestDeleteUnknownGroupOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser("creator@acme.test")
	token := env.tokens["creator@acme.test"]

	w := env.do(http.MethodDelete, "/v1/user-groups/12345", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

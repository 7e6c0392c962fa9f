package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"posts/internal/config"
	"posts/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.Connect(&config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "posts.db"),
	})
	require.NoError(t, err)

	s, err := NewServerWithDeps(&config.Config{AllowedOrigins: "*"}, db, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	return s.App()
}

type response struct {
	status int
	body   string
	header http.Header
}

func do(t *testing.T, app *fiber.App, method, path, body string) response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: string(raw), header: resp.Header}
}

func TestScenario_CreateUser(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodPost, "/user", `{"name":"Jill","email":"jill@test.com"}`)
	assert.Equal(t, http.StatusCreated, resp.status)
	assert.JSONEq(t, `{"id":1,"name":"Jill","email":"jill@test.com"}`, resp.body)

	resp = do(t, app, http.MethodGet, "/user/1", "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `{"id":1,"name":"Jill","email":"jill@test.com"}`, resp.body)
}

func TestScenario_CreatePostForMissingUser(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodPost, "/user/1/post", `{"title":"A","body":"B"}`)
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.JSONEq(t, `{"error":"No such user found."}`, resp.body)
}

func TestScenario_UpdatePostWithEmptyPayload(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodPut, "/user/1/post/5", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.JSONEq(t, `{"error":"No data was provided."}`, resp.body)
}

func TestScenario_DeleteUserCascadesToPosts(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/user", `{"name":"Jill","email":"jill@test.com"}`).status)
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/user/1/post", `{"title":"A","body":"B"}`).status)
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/user/1/post", `{"title":"C","body":"D"}`).status)

	resp := do(t, app, http.MethodDelete, "/user/1", "")
	assert.Equal(t, http.StatusNoContent, resp.status)
	assert.Empty(t, resp.body)

	resp = do(t, app, http.MethodGet, "/user/1/post", "")
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.JSONEq(t, `{"error":"No such user found."}`, resp.body)

	for _, path := range []string{"/user/1/post/1", "/user/1/post/2"} {
		assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, path, "").status, path)
	}

	// Re-creating the user must not resurrect the posts.
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/user", `{"name":"Jill","email":"jill@test.com"}`).status)
	resp = do(t, app, http.MethodGet, "/user/2/post", "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `[]`, resp.body)
}

func TestUsers_ListOrderedByID(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/user", "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `[]`, resp.body)

	do(t, app, http.MethodPost, "/user", `{"name":"Jill","email":"jill@test.com"}`)
	do(t, app, http.MethodPost, "/user", `{"name":"Jack","email":"jack@test.com"}`)

	resp = do(t, app, http.MethodGet, "/user", "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `[
		{"id":1,"name":"Jill","email":"jill@test.com"},
		{"id":2,"name":"Jack","email":"jack@test.com"}
	]`, resp.body)
}

func TestUsers_CreateValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"No body", "", "No data was provided."},
		{"Empty object", `{}`, "No data was provided."},
		{"No name", `{"email":"jill@test.com"}`, "No name was provided."},
		{"Empty name", `{"name":"","email":"jill@test.com"}`, "No name was provided."},
		{"No email", `{"name":"Jill"}`, "No email was provided."},
		{"Invalid email", `{"name":"Jill","email":"jill"}`, "An invalid email was provided."},
		{"Malformed JSON", `{"name":`, "Invalid request body."},
		{"Non-string field", `{"name":1,"email":"jill@test.com"}`, "Invalid request body."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, http.MethodPost, "/user", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.status)
			assert.JSONEq(t, `{"error":"`+tt.expected+`"}`, resp.body)
		})
	}

	resp := do(t, app, http.MethodGet, "/user", "")
	assert.JSONEq(t, `[]`, resp.body, "failed creates must not persist anything")
}

func TestUsers_DuplicateEmailLeavesFirstIntact(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/user", `{"name":"Jill","email":"jill@test.com"}`).status)

	resp := do(t, app, http.MethodPost, "/user", `{"name":"Other","email":"jill@test.com"}`)
	assert.Equal(t, http.StatusConflict, resp.status)
	assert.JSONEq(t, `{"error":"A user with that email already exists."}`, resp.body)

	resp = do(t, app, http.MethodGet, "/user", "")
	assert.JSONEq(t, `[{"id":1,"name":"Jill","email":"jill@test.com"}]`, resp.body)

	// Updating another user onto a taken email conflicts too.
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/user", `{"name":"Jack","email":"jack@test.com"}`).status)
	resp = do(t, app, http.MethodPut, "/user/2", `{"email":"jill@test.com"}`)
	assert.Equal(t, http.StatusConflict, resp.status)
	resp = do(t, app, http.MethodGet, "/user/2", "")
	assert.JSONEq(t, `{"id":2,"name":"Jack","email":"jack@test.com"}`, resp.body)
}

func TestUsers_PartialUpdate(t *testing.T) {
	app := newTestApp(t)
	do(t, app, http.MethodPost, "/user", `{"name":"Jill","email":"jill@test.com"}`)

	resp := do(t, app, http.MethodPut, "/user/1", `{"name":"Jillian"}`)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `{"id":1,"name":"Jillian","email":"jill@test.com"}`, resp.body)

	resp = do(t, app, http.MethodPut, "/user/1", `{"email":"jillian@test.com","name":""}`)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `{"id":1,"name":"Jillian","email":"jillian@test.com"}`, resp.body)

	tests := []struct {
		name     string
		path     string
		body     string
		status   int
		expected string
	}{
		{"No fields", "/user/1", `{"nickname":"J"}`, http.StatusBadRequest, "No data was provided."},
		{"Invalid email", "/user/1", `{"email":"nope"}`, http.StatusBadRequest, "An invalid email was provided."},
		{"Unknown user", "/user/9", `{"name":"X"}`, http.StatusNotFound, "No such user found."},
		{"Invalid id", "/user/abc", `{"name":"X"}`, http.StatusBadRequest, "Invalid user ID."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.status)
			assert.JSONEq(t, `{"error":"`+tt.expected+`"}`, resp.body)
		})
	}
}

func TestUsers_DeleteMissing(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodDelete, "/user/3", "")
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.JSONEq(t, `{"error":"No such user found."}`, resp.body)
}

func TestPosts_Lifecycle(t *testing.T) {
	app := newTestApp(t)
	do(t, app, http.MethodPost, "/user", `{"name":"Jill","email":"jill@test.com"}`)

	resp := do(t, app, http.MethodPost, "/user/1/post", `{"title":"A","body":"B"}`)
	assert.Equal(t, http.StatusCreated, resp.status)
	assert.JSONEq(t, `{"id":1,"title":"A","body":"B"}`, resp.body)

	resp = do(t, app, http.MethodPost, "/user/1/post", `{"title":"C","body":"D"}`)
	require.Equal(t, http.StatusCreated, resp.status)

	resp = do(t, app, http.MethodGet, "/user/1/post", "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `[{"id":1,"title":"A","body":"B"},{"id":2,"title":"C","body":"D"}]`, resp.body)

	resp = do(t, app, http.MethodPut, "/user/1/post/1", `{"body":"new body"}`)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `{"id":1,"title":"A","body":"new body"}`, resp.body)

	resp = do(t, app, http.MethodGet, "/user/1/post/1", "")
	assert.JSONEq(t, `{"id":1,"title":"A","body":"new body"}`, resp.body)

	resp = do(t, app, http.MethodDelete, "/user/1/post/1", "")
	assert.Equal(t, http.StatusNoContent, resp.status)

	resp = do(t, app, http.MethodGet, "/user/1/post/1", "")
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.JSONEq(t, `{"error":"No such post found."}`, resp.body)

	resp = do(t, app, http.MethodDelete, "/user/1/post/1", "")
	assert.Equal(t, http.StatusNotFound, resp.status)
}

func TestPosts_CreateValidationOrder(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name     string
		body     string
		status   int
		expected string
	}{
		{"No data beats missing user", `{}`, http.StatusBadRequest, "No data was provided."},
		{"No title", `{"body":"B"}`, http.StatusBadRequest, "No post title was provided."},
		{"No body", `{"title":"A"}`, http.StatusBadRequest, "No post body was provided."},
		{"Then the user check", `{"title":"A","body":"B"}`, http.StatusNotFound, "No such user found."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, http.MethodPost, "/user/1/post", tt.body)
			assert.Equal(t, tt.status, resp.status)
			assert.JSONEq(t, `{"error":"`+tt.expected+`"}`, resp.body)
		})
	}
}

func TestPosts_CrossUserLookup(t *testing.T) {
	app := newTestApp(t)
	do(t, app, http.MethodPost, "/user", `{"name":"Jill","email":"jill@test.com"}`)
	do(t, app, http.MethodPost, "/user", `{"name":"Jack","email":"jack@test.com"}`)
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/user/1/post", `{"title":"A","body":"B"}`).status)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp := do(t, app, method, "/user/2/post/1", "")
		assert.Equal(t, http.StatusNotFound, resp.status, method)
		assert.JSONEq(t, `{"error":"No such post found."}`, resp.body)
	}
	resp := do(t, app, http.MethodPut, "/user/2/post/1", `{"title":"stolen"}`)
	assert.Equal(t, http.StatusNotFound, resp.status)

	resp = do(t, app, http.MethodGet, "/user/1/post/1", "")
	assert.JSONEq(t, `{"id":1,"title":"A","body":"B"}`, resp.body)

	resp = do(t, app, http.MethodGet, "/user/2/post", "")
	assert.JSONEq(t, `[]`, resp.body)
}

func TestPosts_InvalidIDs(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		path     string
		expected string
	}{
		{"/user/abc/post", "Invalid user ID."},
		{"/user/0/post", "Invalid user ID."},
		{"/user/-1/post/1", "Invalid user ID."},
		{"/user/1/post/xyz", "Invalid post ID."},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := do(t, app, http.MethodGet, tt.path, "")
			assert.Equal(t, http.StatusBadRequest, resp.status)
			assert.JSONEq(t, `{"error":"`+tt.expected+`"}`, resp.body)
		})
	}
}

func TestRoutes_APIPrefix(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodPost, "/api/user", `{"name":"Jill","email":"jill@test.com"}`)
	assert.Equal(t, http.StatusCreated, resp.status)

	resp = do(t, app, http.MethodPost, "/api/user/1/post", `{"title":"A","body":"B"}`)
	assert.Equal(t, http.StatusCreated, resp.status)

	// Both prefixes address the same store.
	resp = do(t, app, http.MethodGet, "/user/1/post/1", "")
	assert.JSONEq(t, `{"id":1,"title":"A","body":"B"}`, resp.body)
}

func TestRoutes_RootAndHealth(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "Hello", resp.body)

	resp = do(t, app, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.status)

	resp = do(t, app, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, resp.status)
	var ready map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.body), &ready))
	assert.Equal(t, "healthy", ready["status"])
	assert.Equal(t, map[string]any{"database": "healthy", "redis": "disabled"}, ready["checks"])

	do(t, app, http.MethodGet, "/user", "")
	resp = do(t, app, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, resp.body, "posts_store_sessions_total")
}

func TestRoutes_UnknownRouteIsJSON(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Contains(t, resp.header.Get("Content-Type"), "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.body), &body))
	assert.Contains(t, body, "error")
}

func TestHumanizeParam(t *testing.T) {
	tests := map[string]string{
		"id":         "ID",
		"userId":     "user ID",
		"postId":     "post ID",
		"blogPostId": "blog post ID",
		"slug":       "slug",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, humanizeParam(in), in)
	}
}

func TestRateLimit_AppliesToResourcesOnly(t *testing.T) {
	db, err := database.Connect(&config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "posts.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	s, err := NewServerWithDeps(&config.Config{AllowedOrigins: "*", RateLimitPerMinute: 2}, db, nil)
	require.NoError(t, err)
	app := s.App()

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/health/live", "").status)
		assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/metrics", "").status)
	}

	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/user", "").status)
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/user", "").status)

	resp := do(t, app, http.MethodGet, "/user", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.status)
	assert.JSONEq(t, `{"error":"Too many requests, please try again later."}`, resp.body)

	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/health/ready", "").status)
}

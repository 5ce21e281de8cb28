package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdeck/promptdeck-server/internal/config"
	"github.com/promptdeck/promptdeck-server/internal/export"
	"github.com/promptdeck/promptdeck-server/internal/importer"
	"github.com/promptdeck/promptdeck-server/internal/search"
	"github.com/promptdeck/promptdeck-server/internal/service"
	"github.com/promptdeck/promptdeck-server/internal/store"
	"github.com/promptdeck/promptdeck-server/internal/store/sqlite"
)

const (
	testToken  = "test-token"
	testAuth   = "Authorization: Bearer " + testToken
	testUserID = "usr-test"
)

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api humatest.TestAPI
	st  store.Store
}

// setupTestServer creates a fully wired server over temp storage.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search"),
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetSearchIndexer(index)

	cfg := &config.Config{
		Server: config.ServerConfig{Name: "PromptDeck Test"},
		Auth: config.AuthConfig{
			APIToken: testToken,
			UserID:   testUserID,
		},
	}

	services := &Services{
		Category: service.NewCategoryService(st, logger),
		Group:    service.NewGroupService(st, logger),
		Prompt:   service.NewPromptService(st, logger),
		Project:  service.NewProjectService(st, logger),
		Settings: service.NewSettingsService(st, logger),
		Import:   service.NewImportService(st, importer.New(st, logger), logger),
		Export:   export.New(st, logger),
		Search:   service.NewSearchService(st, index, logger),
	}

	s := NewServer(cfg, st, services, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		st:     st,
	}
}

func decodeBody[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func (ts *testServer) createCategory(t *testing.T, name string) CategoryResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/categories", testAuth, map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decodeBody[CategoryResponse](t, resp.Body.Bytes())
}

func (ts *testServer) createPrompt(t *testing.T, content string) PromptResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/prompts", testAuth, map[string]any{"content": content})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decodeBody[PromptResponse](t, resp.Body.Bytes())
}

func TestAuthRequired(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/prompts")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/prompts", "Authorization: Bearer wrong-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/prompts", testAuth)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestHealthIsPublic(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", body.Status)
}

func TestPromptLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	created := ts.createPrompt(t, "Write a verse about the sea")
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Write a verse about the sea...", created.Title)

	resp := ts.api.Get("/api/v1/prompts/"+created.ID, testAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Patch("/api/v1/prompts/"+created.ID, testAuth, map[string]any{
		"title": "Sea verse",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	updated := decodeBody[PromptResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Sea verse", updated.Title)

	resp = ts.api.Delete("/api/v1/prompts/"+created.ID, testAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/prompts/"+created.ID, testAuth)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListPromptsMeritocraticOrder(t *testing.T) {
	ts := setupTestServer(t)

	low := ts.createPrompt(t, "low rated prompt")
	high := ts.createPrompt(t, "high rated prompt")

	resp := ts.api.Put("/api/v1/prompts/"+high.ID+"/rating", testAuth, map[string]any{"rating": 5})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Put("/api/v1/prompts/"+low.ID+"/rating", testAuth, map[string]any{"rating": 1})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/prompts", testAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	list := decodeBody[ListPromptsResponse](t, resp.Body.Bytes())
	require.Len(t, list.Prompts, 2)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, high.ID, list.Prompts[0].ID)
	assert.Equal(t, low.ID, list.Prompts[1].ID)
}

func TestRatingClampedOverHTTP(t *testing.T) {
	ts := setupTestServer(t)

	p := ts.createPrompt(t, "clamp me")

	resp := ts.api.Put("/api/v1/prompts/"+p.ID+"/rating", testAuth, map[string]any{"rating": 99})
	require.Equal(t, http.StatusOK, resp.Code)

	rated := decodeBody[PromptResponse](t, resp.Body.Bytes())
	assert.Equal(t, 5.0, rated.Rating)
}

func TestCopyAppliesPrefixes(t *testing.T) {
	ts := setupTestServer(t)

	p := ts.createPrompt(t, "the body")

	resp := ts.api.Patch("/api/v1/settings", testAuth, map[string]any{"prefixes_enabled": true})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/settings/prefixes", testAuth, map[string]any{"text": "Be brief."})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/prompts/"+p.ID+"/copy", testAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	copied := decodeBody[CopyPromptResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Be brief.\n\nthe body", copied.Text)
	assert.Equal(t, 1, copied.Prompt.UsageCount)
}

func TestBulkDelete(t *testing.T) {
	ts := setupTestServer(t)

	p1 := ts.createPrompt(t, "one")
	p2 := ts.createPrompt(t, "two")
	ts.createPrompt(t, "survivor")

	resp := ts.api.Post("/api/v1/prompts/bulk-delete", testAuth, map[string]any{
		"ids": []string{p1.ID, p2.ID, "prm-missing"},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody[BulkDeletePromptsResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, body.Deleted)

	resp = ts.api.Get("/api/v1/prompts", testAuth)
	list := decodeBody[ListPromptsResponse](t, resp.Body.Bytes())
	assert.Len(t, list.Prompts, 1)
}

func TestFavoriteFilter(t *testing.T) {
	ts := setupTestServer(t)

	fav := ts.createPrompt(t, "favorite")
	ts.createPrompt(t, "ordinary")

	resp := ts.api.Put("/api/v1/prompts/"+fav.ID+"/favorite", testAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/prompts?favorites=true", testAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	list := decodeBody[ListPromptsResponse](t, resp.Body.Bytes())
	require.Len(t, list.Prompts, 1)
	assert.Equal(t, fav.ID, list.Prompts[0].ID)

	resp = ts.api.Delete("/api/v1/prompts/"+fav.ID+"/favorite", testAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/prompts?favorites=true", testAuth)
	list = decodeBody[ListPromptsResponse](t, resp.Body.Bytes())
	assert.Empty(t, list.Prompts)
}

func TestCategoryAndGroupRoutes(t *testing.T) {
	ts := setupTestServer(t)

	cat := ts.createCategory(t, "Música")
	assert.Equal(t, "musica", cat.Slug)

	resp := ts.api.Post("/api/v1/groups", testAuth, map[string]any{
		"name":        "Selecionados",
		"category_id": cat.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	group := decodeBody[GroupResponse](t, resp.Body.Bytes())

	resp = ts.api.Get("/api/v1/categories/"+cat.ID+"/groups", testAuth)
	require.Equal(t, http.StatusOK, resp.Code)
	groups := decodeBody[ListGroupsResponse](t, resp.Body.Bytes())
	require.Len(t, groups.Groups, 1)
	assert.Equal(t, group.ID, groups.Groups[0].ID)

	// Duplicate category slug conflicts.
	resp = ts.api.Post("/api/v1/categories", testAuth, map[string]any{"name": "Música"})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestProjectRoutes(t *testing.T) {
	ts := setupTestServer(t)

	p := ts.createPrompt(t, "project material")

	resp := ts.api.Post("/api/v1/projects", testAuth, map[string]any{"name": "Album"})
	require.Equal(t, http.StatusOK, resp.Code)
	project := decodeBody[ProjectResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/projects/"+project.ID+"/prompts", testAuth, map[string]any{
		"prompt_ids": []string{p.ID},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	added := decodeBody[AddProjectPromptsResponse](t, resp.Body.Bytes())
	assert.Equal(t, 1, added.Added)

	resp = ts.api.Get("/api/v1/projects/"+project.ID+"/prompts", testAuth)
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeBody[ListPromptsResponse](t, resp.Body.Bytes())
	require.Len(t, list.Prompts, 1)

	resp = ts.api.Delete("/api/v1/projects/"+project.ID+"/prompts/"+p.ID, testAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/projects/"+project.ID+"/prompts", testAuth)
	list = decodeBody[ListPromptsResponse](t, resp.Body.Bytes())
	assert.Empty(t, list.Prompts)
}

func TestSearchRoute(t *testing.T) {
	ts := setupTestServer(t)

	ts.createPrompt(t, "A melancholic verse about rain")
	ts.createPrompt(t, "An upbeat chorus full of sunshine")

	resp := ts.api.Get("/api/v1/search?q=melancholic", testAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	result := decodeBody[SearchResponse](t, resp.Body.Bytes())
	require.Len(t, result.Hits, 1)
	assert.Contains(t, result.Hits[0].Title, "melancholic")
}

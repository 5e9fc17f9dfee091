package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-matcher/internal/core/ai/cache"
	"recipe-matcher/internal/core/image"
	"recipe-matcher/internal/core/matching"
	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

func testConfig() *config.Config {
	d := matching.DefaultConfig()
	return &config.Config{
		App:    config.AppConfig{Version: "test"},
		Server: config.ServerConfig{Mode: gin.TestMode, BodyLimit: 1 << 20},
		Matching: config.MatchingConfig{
			SimilarityThreshold: d.SimilarityThreshold,
			NormalThreshold:     d.NormalThreshold,
			LooseThreshold:      d.LooseThreshold,
			SurpriseMin:         d.SurpriseMin,
			SurpriseMax:         d.SurpriseMax,
			RelaxedMissing:      d.RelaxedMissing,
			LooseMaxMissing:     d.LooseMaxMissing,
			Strategy:            matching.StrategyScored,
			Seed:                42,
		},
		Unsplash:    config.UnsplashConfig{BaseURL: "http://127.0.0.1:1"},
		DedupWindow: time.Millisecond,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, mutate ...func(*Services)) *gin.Engine {
	t.Helper()
	svcs, err := NewServices(cfg, nil)
	require.NoError(t, err)
	for _, m := range mutate {
		m(svcs)
	}
	return NewRouter(cfg, svcs)
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error common.ErrorResponse `json:"error"`
	}
	decode(t, w, &body)
	return body.Error.Code
}

type stubBackend struct{ text string }

func (s stubBackend) GenerateText(context.Context, string) (string, error) {
	return s.text, nil
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, testConfig())

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := do(router, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)

		var body struct {
			Status     string `json:"status"`
			Version    string `json:"version"`
			Components struct {
				Corpus    string `json:"corpus"`
				Generator bool   `json:"generator"`
				Cache     string `json:"cache"`
			} `json:"components"`
		}
		decode(t, w, &body)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "test", body.Version)
		assert.Equal(t, "static", body.Components.Corpus)
		assert.False(t, body.Components.Generator)
		assert.Equal(t, "disabled", body.Components.Cache)
	}
}

type matchBody struct {
	Matches []common.RecipeMatch `json:"matches"`
	Count   int                  `json:"count"`
	Mode    string               `json:"mode"`
}

func TestMatchNormal(t *testing.T) {
	router := newTestRouter(t, testConfig())

	w := do(router, http.MethodPost, "/api/v1/recipes/match",
		`{"ingredients":["2 eggs","butter","salt","pepper"],"mode":"normal"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body matchBody
	decode(t, w, &body)
	assert.Equal(t, "normal", body.Mode)
	require.NotEmpty(t, body.Matches)
	assert.Equal(t, len(body.Matches), body.Count)
	assert.Equal(t, "4", body.Matches[0].Recipe.ID)
	assert.Empty(t, body.Matches[0].MissingIngredients)
	for _, m := range body.Matches {
		assert.GreaterOrEqual(t, m.MatchScore, 0.6)
		assert.LessOrEqual(t, m.MatchScore, 1.0)
	}
}

func TestMatchDefaultsToNormalMode(t *testing.T) {
	router := newTestRouter(t, testConfig())

	w := do(router, http.MethodPost, "/api/v1/recipes/match", `{"ingredients":["bread","cheese","butter"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body matchBody
	decode(t, w, &body)
	assert.Equal(t, "normal", body.Mode)
	require.NotEmpty(t, body.Matches)
	assert.Equal(t, "6", body.Matches[0].Recipe.ID)
}

func TestMatchFiltersAndStrategy(t *testing.T) {
	router := newTestRouter(t, testConfig())

	w := do(router, http.MethodPost, "/api/v1/recipes/match",
		`{"ingredients":["eggs","butter"],"mode":"loose","cuisine":"american","strategy":"rules"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body matchBody
	decode(t, w, &body)
	require.NotEmpty(t, body.Matches)
	for _, m := range body.Matches {
		assert.Equal(t, "American", m.Recipe.Cuisine)
	}
}

func TestMatchStrictDietary(t *testing.T) {
	router := newTestRouter(t, testConfig())

	w := do(router, http.MethodPost, "/api/v1/recipes/match",
		`{"ingredients":["eggs","butter","cheese","bread"],"mode":"surprise","strict_dietary":true,"preferences":{"dietary":["dairy-free"]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body matchBody
	decode(t, w, &body)
	for _, m := range body.Matches {
		assert.NotContains(t, []string{"2", "4", "6", "8"}, m.Recipe.ID)
	}
}

func TestMatchWithSavedRecipes(t *testing.T) {
	router := newTestRouter(t, testConfig())

	scoreOf := func(body, id string) float64 {
		w := do(router, http.MethodPost, "/api/v1/recipes/match", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp matchBody
		decode(t, w, &resp)
		for _, m := range resp.Matches {
			if m.Recipe.ID == id {
				return m.MatchScore
			}
		}
		t.Fatalf("recipe %s not matched", id)
		return 0
	}

	plain := scoreOf(`{"ingredients":["tomato","onion","garlic","olive oil"],"mode":"loose"}`, "3")
	withHistory := scoreOf(`{"ingredients":["tomato","onion","garlic","olive oil"],"mode":"loose","saved_recipe_ids":["3","7","missing"]}`, "3")
	assert.Greater(t, withHistory, plain)
}

func TestMatchRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"ingredients":`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"missing ingredients", `{"mode":"normal"}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"blank ingredients", `{"ingredients":["  ","1 cup"]}`, http.StatusBadRequest, "NO_INGREDIENTS"},
		{"unknown mode", `{"ingredients":["rice"],"mode":"chaotic"}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"unknown strategy", `{"ingredients":["rice"],"strategy":"neural"}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"spice level out of range", `{"ingredients":["rice"],"preferences":{"spiceLevel":11}}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, testConfig())
			w := do(router, http.MethodPost, "/api/v1/recipes/match", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

type generateBody struct {
	Recipe    *common.Recipe       `json:"recipe"`
	Matches   []common.RecipeMatch `json:"matches"`
	Generated bool                 `json:"generated"`
}

func TestGenerateFallsBackToCorpus(t *testing.T) {
	router := newTestRouter(t, testConfig())

	w := do(router, http.MethodPost, "/api/v1/recipes/generate", `{"ingredients":["eggs","butter"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body generateBody
	decode(t, w, &body)
	assert.False(t, body.Generated)
	assert.Nil(t, body.Recipe)
	assert.NotEmpty(t, body.Matches)
}

func TestGenerateWithBackend(t *testing.T) {
	text := "```json\n" + `{"title":"Egg Toast","ingredients":["eggs","bread"],"instructions":["Toast","Top"],"cookTime":10,"cuisine":"American","dietary":[],"difficulty":"Easy"}` + "\n```"
	router := newTestRouter(t, testConfig(), func(s *Services) {
		s.Generator = recipeService.NewGenerator(stubBackend{text: text}, s.Images)
	})

	w := do(router, http.MethodPost, "/api/v1/recipes/generate", `{"ingredients":["eggs","bread"],"cuisines":["American"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body generateBody
	decode(t, w, &body)
	assert.True(t, body.Generated)
	require.NotNil(t, body.Recipe)
	assert.Equal(t, "Egg Toast", body.Recipe.Title)
	assert.True(t, strings.HasPrefix(body.Recipe.ID, "ai-"))
	assert.Equal(t, image.DefaultImageURL, body.Recipe.Image)
}

func TestGetRecipe(t *testing.T) {
	router := newTestRouter(t, testConfig())

	w := do(router, http.MethodGet, "/api/v1/recipes/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Recipe common.Recipe `json:"recipe"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Simple Salad", body.Recipe.Title)

	w = do(router, http.MethodGet, "/api/v1/recipes/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RECIPE_NOT_FOUND", errorCode(t, w))
}

func TestImages(t *testing.T) {
	router := newTestRouter(t, testConfig())

	w := do(router, http.MethodPost, "/api/v1/recipes/images",
		`{"recipes":[{"id":"1","title":"Soup"},{"id":"2","title":"Stew","cuisine":"French"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Images map[string]string `json:"images"`
	}
	decode(t, w, &body)
	assert.Equal(t, map[string]string{
		"1": image.DefaultImageURL,
		"2": image.CuisineDefaultImage("French"),
	}, body.Images)

	w = do(router, http.MethodPost, "/api/v1/recipes/images", `{"recipes":[{"id":"1"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var items []string
	for i := 0; i <= 20; i++ {
		items = append(items, `{"id":"x","title":"y"}`)
	}
	w = do(router, http.MethodPost, "/api/v1/recipes/images", `{"recipes":[`+strings.Join(items, ",")+`]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngredientSearch(t *testing.T) {
	router := newTestRouter(t, testConfig())

	w := do(router, http.MethodGet, "/api/v1/ingredients/search?q=tom&limit=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Ingredients []struct {
			Name string `json:"name"`
		} `json:"ingredients"`
	}
	decode(t, w, &body)
	require.Len(t, body.Ingredients, 3)
	assert.Equal(t, "tomato", body.Ingredients[0].Name)

	w = do(router, http.MethodGet, "/api/v1/ingredients/search?q=tom&limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDuplicateRequestsRejected(t *testing.T) {
	cfg := testConfig()
	cfg.DedupWindow = time.Minute
	router := newTestRouter(t, cfg)

	body := `{"ingredients":["rice"],"mode":"loose"}`
	first := do(router, http.MethodPost, "/api/v1/recipes/match", body)
	assert.Equal(t, http.StatusOK, first.Code)

	second := do(router, http.MethodPost, "/api/v1/recipes/match", body)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, common.ErrCodeConflict, errorCode(t, second))

	other := do(router, http.MethodPost, "/api/v1/recipes/match", `{"ingredients":["rice","beans"],"mode":"loose"}`)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}
	router := newTestRouter(t, cfg)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/ingredients/search?q=a", "").Code)

	w := do(router, http.MethodGet, "/api/v1/ingredients/search?q=b", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// 健康檢查不受限流影響
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/health", "").Code)
}

func TestBodySizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.BodyLimit = 16
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/match",
		bytes.NewReader([]byte(`{"ingredients":["rice","beans","onion"]}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, common.ErrCodeRequestTooLarge, errorCode(t, w))
}

func TestMatchExplain(t *testing.T) {
	router := newTestRouter(t, testConfig())

	w := do(router, http.MethodPost, "/api/v1/recipes/match",
		`{"ingredients":["rice","beans","onion","garlic"],"mode":"loose","explain":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Matches    []common.RecipeMatch          `json:"matches"`
		Breakdowns map[string]matching.Breakdown `json:"breakdowns"`
	}
	decode(t, w, &body)
	require.NotEmpty(t, body.Matches)
	require.Len(t, body.Breakdowns, len(body.Matches))

	b := body.Breakdowns["5"]
	assert.InDelta(t, 0.8, b.Base, 1e-9)
	assert.InDelta(t, body.Matches[0].MatchScore, body.Breakdowns[body.Matches[0].Recipe.ID].Total, 1e-9)
}

func TestHealthReportsCacheStats(t *testing.T) {
	cfg := testConfig()
	cfg.Cache = config.CacheConfig{Enabled: true, Type: "memory", MaxSize: 10, TTL: time.Minute, CleanupInterval: time.Minute}
	store := cache.NewManager(cfg.Cache)
	defer store.Close()

	svcs, err := NewServices(cfg, store)
	require.NoError(t, err)
	router := NewRouter(cfg, svcs)

	w := do(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Components struct {
			Cache string `json:"cache"`
		} `json:"components"`
		CacheStats *cache.Stats `json:"cache_stats"`
	}
	decode(t, w, &body)
	assert.Equal(t, "memory", body.Components.Cache)
	require.NotNil(t, body.CacheStats)
	assert.Equal(t, 10, body.CacheStats.MaxSize)
}

const spoonacularPasta = `{
	"id": 716429, "title": "Garlic Cauliflower Pasta", "readyInMinutes": 25,
	"cuisines": ["Mediterranean"], "diets": [],
	"extendedIngredients": [
		{"original": "pasta"}, {"original": "garlic"}, {"original": "cauliflower"},
		{"original": "scallions"}, {"original": "lemon"}, {"original": "parmesan"}
	],
	"analyzedInstructions": [{"steps": [{"step": "Cook pasta."}, {"step": "Toss with the rest."}]}]
}`

func spoonacularServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/recipes/findByIngredients":
			_, _ = w.Write([]byte(`[{"id":716429}]`))
		case "/recipes/716429/information":
			_, _ = w.Write([]byte(spoonacularPasta))
		case "/food/ingredients/search":
			if r.URL.Query().Get("query") == "chick" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{"results":[{"id":11529,"name":"tomato","image":"tomato.png","aisle":"Produce"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func spoonacularConfig(t *testing.T) *config.Config {
	cfg := testConfig()
	cfg.Spoonacular = config.SpoonacularConfig{
		Enabled:    true,
		APIKey:     "test-key",
		BaseURL:    spoonacularServer(t).URL,
		Timeout:    5 * time.Second,
		MaxResults: 5,
	}
	return cfg
}

func TestSpoonacularCorpus(t *testing.T) {
	router := newTestRouter(t, spoonacularConfig(t))

	w := do(router, http.MethodGet, "/health", "")
	var health struct {
		Components struct {
			Corpus string `json:"corpus"`
		} `json:"components"`
	}
	decode(t, w, &health)
	assert.Equal(t, "spoonacular+static", health.Components.Corpus)

	w = do(router, http.MethodPost, "/api/v1/recipes/match", `{"ingredients":["pasta","garlic","cauliflower"],"mode":"loose"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp matchBody
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "spoonacular-716429", resp.Matches[0].Recipe.ID)

	var body struct {
		Recipe common.Recipe `json:"recipe"`
	}
	w = do(router, http.MethodGet, "/api/v1/recipes/spoonacular-716429", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &body)
	assert.Equal(t, "Garlic Cauliflower Pasta", body.Recipe.Title)

	// 內建 id 不經遠端來源
	w = do(router, http.MethodGet, "/api/v1/recipes/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "Simple Salad", body.Recipe.Title)

	w = do(router, http.MethodGet, "/api/v1/recipes/spoonacular-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RECIPE_NOT_FOUND", errorCode(t, w))
}

func TestMatchWithSavedRemoteRecipes(t *testing.T) {
	router := newTestRouter(t, spoonacularConfig(t))

	scoreOf := func(body string) float64 {
		w := do(router, http.MethodPost, "/api/v1/recipes/match", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp matchBody
		decode(t, w, &resp)
		require.NotEmpty(t, resp.Matches)
		return resp.Matches[0].MatchScore
	}

	plain := scoreOf(`{"ingredients":["pasta","garlic","cauliflower"],"mode":"loose"}`)
	withHistory := scoreOf(`{"ingredients":["pasta","garlic","cauliflower"],"mode":"loose","saved_recipe_ids":["spoonacular-716429"]}`)
	assert.Greater(t, withHistory, plain, "saved remote recipes shape the profile")
}

func TestIngredientSearchRemote(t *testing.T) {
	router := newTestRouter(t, spoonacularConfig(t))

	var body struct {
		Ingredients []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
			Image    string `json:"image"`
		} `json:"ingredients"`
	}

	w := do(router, http.MethodGet, "/api/v1/ingredients/search?q=tom&limit=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	require.Len(t, body.Ingredients, 1)
	assert.Equal(t, "tomato", body.Ingredients[0].Name)
	assert.Equal(t, "Produce", body.Ingredients[0].Category)
	assert.NotEmpty(t, body.Ingredients[0].Image)

	// 遠端失敗時改用本地清單
	w = do(router, http.MethodGet, "/api/v1/ingredients/search?q=chick&limit=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	require.NotEmpty(t, body.Ingredients)
	assert.Equal(t, "chicken", body.Ingredients[0].Name)
	assert.Equal(t, "General", body.Ingredients[0].Category)
}

package image

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-matcher/internal/core/ai/cache"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

func newTestService(url, key string, store cache.Store) *Service {
	return NewService(config.UnsplashConfig{
		AccessKey: key,
		BaseURL:   url,
		Timeout:   5 * time.Second,
	}, store)
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "Pad Thai Thai food food recipe cooking", SearchQuery("Pad Thai", "Thai"))
	assert.Equal(t, "Toast food recipe cooking", SearchQuery("Toast", "International"))
	assert.Equal(t, "Toast food recipe cooking", SearchQuery("Toast", ""))
}

func TestCuisineDefaultImage(t *testing.T) {
	assert.Contains(t, CuisineDefaultImage("Italian"), "photo-1621996346565")
	assert.Equal(t, DefaultImageURL, CuisineDefaultImage("martian"))
}

func TestSearch(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "landscape", r.URL.Query().Get("orientation"))
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Pasta Italian food food recipe cooking", r.URL.Query().Get("query"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":2,"results":[{"id":"a","urls":{"regular":"https://img/a"}},{"id":"b","urls":{"regular":"https://img/b"}}]}`))
	}))
	defer server.Close()

	store := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Hour})
	defer store.Close()
	svc := newTestService(server.URL, "test-key", store)

	url, err := svc.Search(context.Background(), "Pasta", "Italian")
	require.NoError(t, err)
	assert.Equal(t, "https://img/a", url)

	// 第二次命中快取
	url, err = svc.Search(context.Background(), "Pasta", "Italian")
	require.NoError(t, err)
	assert.Equal(t, "https://img/a", url)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"no results", http.StatusOK, `{"total":0,"results":[]}`, common.ErrImageNotFound},
		{"http error", http.StatusForbidden, `{"errors":["denied"]}`, common.ErrImageServiceError},
		{"bad json", http.StatusOK, `not json`, common.ErrImageServiceError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc := newTestService(server.URL, "test-key", nil)
			_, err := svc.Search(context.Background(), "Soup", "")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, DefaultImageURL, svc.ResolveImage(context.Background(), "Soup", ""))
		})
	}
}

func TestSearchWithoutKey(t *testing.T) {
	svc := newTestService("http://127.0.0.1:1", "", nil)
	assert.False(t, svc.Enabled())

	_, err := svc.Search(context.Background(), "Soup", "")
	assert.ErrorIs(t, err, common.ErrImageServiceError)
	assert.Equal(t, DefaultImageURL, svc.ResolveImage(context.Background(), "Soup", ""))
}

func TestSearchRecipeImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "Missing food recipe cooking" {
			_, _ = w.Write([]byte(`{"results":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"urls":{"regular":"https://img/found"}}]}`))
	}))
	defer server.Close()

	svc := NewService(config.UnsplashConfig{
		AccessKey:     "test-key",
		BaseURL:       server.URL,
		Timeout:       5 * time.Second,
		BatchInterval: 20 * time.Millisecond,
	}, nil)

	start := time.Now()
	images := svc.SearchRecipeImages(context.Background(), []BatchItem{
		{ID: "1", Title: "Soup"},
		{ID: "2", Title: "Missing"},
		{ID: "3", Title: "Stew", Cuisine: "French"},
	})

	assert.Equal(t, map[string]string{
		"1": "https://img/found",
		"2": DefaultImageURL,
		"3": "https://img/found",
	}, images)
	// 三筆請求之間至少隔兩個間隔
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestSearchRecipeImagesCancelled(t *testing.T) {
	svc := NewService(config.UnsplashConfig{
		AccessKey:     "test-key",
		BaseURL:       "http://127.0.0.1:1",
		BatchInterval: time.Hour,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	images := svc.SearchRecipeImages(ctx, []BatchItem{{ID: "1", Title: "Soup"}})
	assert.Equal(t, DefaultImageURL, images["1"])
}

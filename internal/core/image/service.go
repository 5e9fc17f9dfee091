package image

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"recipe-matcher/internal/core/ai/cache"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

// DefaultImageURL 搜尋失敗時使用的預設圖片
const DefaultImageURL = "https://images.unsplash.com/photo-1542010589005-d1eacc3918f2?w=400&fit=crop&crop=center"

var cuisineImages = map[string]string{
	"italian":       "https://images.unsplash.com/photo-1621996346565-e3dbc353d2e5?w=400&fit=crop",
	"mexican":       "https://images.unsplash.com/photo-1551504734-5ee1c4a1479b?w=400&fit=crop",
	"asian":         "https://images.unsplash.com/photo-1603133872878-684f208fb84b?w=400&fit=crop",
	"indian":        "https://images.unsplash.com/photo-1455619452474-d2be8b1e70cd?w=400&fit=crop",
	"mediterranean": "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=400&fit=crop",
	"american":      "https://images.unsplash.com/photo-1567620905732-2d1ec7ab7445?w=400&fit=crop",
	"french":        "https://images.unsplash.com/photo-1542010589005-d1eacc3918f2?w=400&fit=crop",
	"thai":          "https://images.unsplash.com/photo-1542010589005-d1eacc3918f2?w=400&fit=crop",
}

// CuisineDefaultImage 菜系對應的預設圖片
func CuisineDefaultImage(cuisine string) string {
	if url, ok := cuisineImages[strings.ToLower(strings.TrimSpace(cuisine))]; ok {
		return url
	}
	return DefaultImageURL
}

// BatchItem 批次查詢的單筆食譜
type BatchItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Cuisine string `json:"cuisine"`
}

// Service Unsplash 圖片搜尋服務
type Service struct {
	config  config.UnsplashConfig
	client  *resty.Client
	cache   cache.Store
	limiter *rate.Limiter
}

// NewService 創建圖片搜尋服務，store 可為 nil
func NewService(cfg config.UnsplashConfig, store cache.Store) *Service {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.AccessKey != "" {
		client.SetHeader("Authorization", "Client-ID "+cfg.AccessKey)
	}

	limit := rate.Inf
	if cfg.BatchInterval > 0 {
		limit = rate.Every(cfg.BatchInterval)
	}

	return &Service{
		config:  cfg,
		client:  client,
		cache:   store,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Enabled 是否設定了 Access Key
func (s *Service) Enabled() bool {
	return s.config.AccessKey != ""
}

type searchResponse struct {
	Results []struct {
		ID   string `json:"id"`
		URLs struct {
			Regular string `json:"regular"`
			Small   string `json:"small"`
			Thumb   string `json:"thumb"`
		} `json:"urls"`
	} `json:"results"`
	Total int `json:"total"`
}

// SearchQuery 組合搜尋字串
func SearchQuery(title, cuisine string) string {
	query := strings.TrimSpace(title)
	if c := strings.TrimSpace(cuisine); c != "" && !strings.EqualFold(c, "international") {
		query += " " + c + " food"
	}
	return query + " food recipe cooking"
}

// Search 依標題與菜系搜尋圖片
// 未設定 Access Key 回傳 ErrImageServiceError，沒有結果回傳 ErrImageNotFound
func (s *Service) Search(ctx context.Context, title, cuisine string) (string, error) {
	if !s.Enabled() {
		return "", common.ErrImageServiceError.Wrap(fmt.Errorf("unsplash access key not configured"))
	}

	query := SearchQuery(title, cuisine)
	key := cache.Key("image", query)
	var cached string
	if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
		return cached, nil
	}

	common.LogDebug("Searching images", zap.String("query", query))
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":       query,
			"orientation": "landscape",
			"per_page":    "5",
		}).
		Get("/search/photos")
	if err != nil {
		return "", common.ErrImageServiceError.Wrap(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", common.ErrImageServiceError.Wrap(fmt.Errorf("unsplash returned status %d", resp.StatusCode()))
	}

	var result searchResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", common.ErrImageServiceError.Wrap(fmt.Errorf("failed to parse unsplash response: %w", err))
	}
	if len(result.Results) == 0 || result.Results[0].URLs.Regular == "" {
		return "", common.ErrImageNotFound
	}

	url := result.Results[0].URLs.Regular
	if err := cache.SetJSON(ctx, s.cache, key, url); err != nil {
		common.LogWarn("Failed to cache image url", zap.Error(err))
	}
	return url, nil
}

// ResolveImage 搜尋圖片，任何失敗都回退到菜系預設圖片
func (s *Service) ResolveImage(ctx context.Context, title, cuisine string) string {
	url, err := s.Search(ctx, title, cuisine)
	if err != nil {
		common.LogDebug("Image search fell back to default",
			zap.String("title", title),
			zap.Error(err))
		return CuisineDefaultImage(cuisine)
	}
	return url
}

// SearchRecipeImages 逐筆查詢圖片，請求之間依 batch_interval 節流
// 每筆都會有結果，失敗時為菜系預設圖片
func (s *Service) SearchRecipeImages(ctx context.Context, items []BatchItem) map[string]string {
	start := time.Now()
	images := make(map[string]string, len(items))
	for _, item := range items {
		if err := s.limiter.Wait(ctx); err != nil {
			images[item.ID] = CuisineDefaultImage(item.Cuisine)
			continue
		}
		images[item.ID] = s.ResolveImage(ctx, item.Title, item.Cuisine)
	}
	common.LogDebug("Batch image lookup finished",
		zap.Int("count", len(items)),
		zap.Duration("duration", time.Since(start)))
	return images
}

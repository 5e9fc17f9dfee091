package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-matcher/internal/core/ai/cache"
	"recipe-matcher/internal/pkg/common"
)

// Components 外部協作服務的狀態
type Components struct {
	Corpus    string `json:"corpus"`
	Generator bool   `json:"generator"`
	Images    bool   `json:"images"`
	Cache     string `json:"cache"`
}

// StatsProvider 可回報統計的快取
type StatsProvider interface {
	GetStats() cache.Stats
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Components Components             `json:"components"`
	CacheStats *cache.Stats           `json:"cache_stats,omitempty"`
	Runtime    map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	version    string
	components Components
	stats      StatsProvider
	now        func() time.Time
}

// NewHandler 創建健康檢查處理器，stats 可為 nil
func NewHandler(version string, components Components, stats StatsProvider) *Handler {
	return &Handler{
		version:    version,
		components: components,
		stats:      stats,
		now:        time.Now,
	}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:     "ok",
		Timestamp:  h.now(),
		Version:    h.version,
		Components: h.components,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":  m.Alloc,
				"sys":    m.Sys,
				"num_gc": m.NumGC,
			},
		},
	}

	if h.stats != nil {
		s := h.stats.GetStats()
		response.CacheStats = &s
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

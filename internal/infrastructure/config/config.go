package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"recipe-matcher/internal/core/matching"
)

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Matching    MatchingConfig    `mapstructure:"matching"`
	OpenRouter  OpenRouterConfig  `mapstructure:"openrouter"`
	Unsplash    UnsplashConfig    `mapstructure:"unsplash"`
	MealDB      MealDBConfig      `mapstructure:"mealdb"`
	Spoonacular SpoonacularConfig `mapstructure:"spoonacular"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Redis       RedisConfig       `mapstructure:"redis"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	DedupWindow time.Duration     `mapstructure:"dedup_window"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	BodyLimit    int64         `mapstructure:"body_limit"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

// MatchingConfig 配對引擎設定
type MatchingConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	NormalThreshold     float64 `mapstructure:"normal_threshold"`
	LooseThreshold      float64 `mapstructure:"loose_threshold"`
	SurpriseMin         float64 `mapstructure:"surprise_min"`
	SurpriseMax         float64 `mapstructure:"surprise_max"`
	RelaxedNormal       bool    `mapstructure:"relaxed_normal"`
	RelaxedMissing      int     `mapstructure:"relaxed_missing"`
	LooseMaxMissing     int     `mapstructure:"loose_max_missing"`
	Strategy            string  `mapstructure:"strategy"`
	Seed                uint64  `mapstructure:"seed"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// UnsplashConfig 圖片搜尋設定
type UnsplashConfig struct {
	AccessKey     string        `mapstructure:"access_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	BatchInterval time.Duration `mapstructure:"batch_interval"`
}

// MealDBConfig 遠端食譜來源設定
type MealDBConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SpoonacularConfig Spoonacular 食譜與食材 API 設定
type SpoonacularConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxResults int           `mapstructure:"max_results"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Type            string        `mapstructure:"type"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 可有可無
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("openrouter.model", "OPENROUTER_MODEL")
	_ = v.BindEnv("openrouter.max_tokens", "MODEL_MAX_TOKENS")
	_ = v.BindEnv("unsplash.access_key", "UNSPLASH_ACCESS_KEY")
	_ = v.BindEnv("spoonacular.api_key", "SPOONACULAR_API_KEY")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("server.port", "PORT")

	// 設定設定檔名稱和路徑
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration",
		"openrouter_api_key:", maskAPIKey(v.GetString("openrouter.api_key")),
		"openrouter_model:", v.GetString("openrouter.model"),
		"unsplash_access_key:", maskAPIKey(v.GetString("unsplash.access_key")),
		"spoonacular_api_key:", maskAPIKey(v.GetString("spoonacular.api_key")))

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 有 API Key 才啟用生成服務
	if config.OpenRouter.APIKey == "" {
		config.OpenRouter.Enabled = false
	}
	if config.Spoonacular.APIKey == "" {
		config.Spoonacular.Enabled = false
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Engine 轉換為配對引擎參數
func (m MatchingConfig) Engine() matching.Config {
	cfg := matching.DefaultConfig()
	cfg.SimilarityThreshold = m.SimilarityThreshold
	cfg.NormalThreshold = m.NormalThreshold
	cfg.LooseThreshold = m.LooseThreshold
	cfg.SurpriseMin = m.SurpriseMin
	cfg.SurpriseMax = m.SurpriseMax
	cfg.RelaxedNormal = m.RelaxedNormal
	cfg.RelaxedMissing = m.RelaxedMissing
	cfg.LooseMaxMissing = m.LooseMaxMissing
	return cfg
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	defaults := matching.DefaultConfig()

	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-matcher")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// 日誌設定
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")

	// 配對設定
	v.SetDefault("matching.similarity_threshold", defaults.SimilarityThreshold)
	v.SetDefault("matching.normal_threshold", defaults.NormalThreshold)
	v.SetDefault("matching.loose_threshold", defaults.LooseThreshold)
	v.SetDefault("matching.surprise_min", defaults.SurpriseMin)
	v.SetDefault("matching.surprise_max", defaults.SurpriseMax)
	v.SetDefault("matching.relaxed_normal", false)
	v.SetDefault("matching.relaxed_missing", defaults.RelaxedMissing)
	v.SetDefault("matching.loose_max_missing", defaults.LooseMaxMissing)
	v.SetDefault("matching.strategy", matching.StrategyScored)
	v.SetDefault("matching.seed", 0)

	// OpenRouter 設定
	v.SetDefault("openrouter.enabled", true)
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "google/gemini-2.0-flash-001")
	v.SetDefault("openrouter.max_tokens", 1000)
	v.SetDefault("openrouter.temperature", 0.8)
	v.SetDefault("openrouter.timeout", "60s")
	v.SetDefault("openrouter.min_interval", "500ms")

	// 圖片搜尋設定
	v.SetDefault("unsplash.base_url", "https://api.unsplash.com")
	v.SetDefault("unsplash.timeout", "10s")
	v.SetDefault("unsplash.batch_interval", "100ms")

	// 遠端食譜來源
	v.SetDefault("mealdb.enabled", false)
	v.SetDefault("mealdb.base_url", "https://www.themealdb.com/api/json/v1/1")
	v.SetDefault("mealdb.timeout", "10s")
	v.SetDefault("spoonacular.enabled", true)
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	v.SetDefault("spoonacular.timeout", "10s")
	v.SetDefault("spoonacular.max_results", 20)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Redis 設定
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	switch config.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode %q", config.Server.Mode)
	}
	if config.Server.BodyLimit <= 0 {
		return fmt.Errorf("invalid server body limit")
	}

	// 驗證配對設定
	if err := config.Matching.Engine().Validate(); err != nil {
		return err
	}
	switch config.Matching.Strategy {
	case matching.StrategyScored, matching.StrategyRules:
	default:
		return fmt.Errorf("unknown matching strategy %q", config.Matching.Strategy)
	}

	if config.Spoonacular.Enabled && config.Spoonacular.MaxResults <= 0 {
		return fmt.Errorf("invalid spoonacular max results")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Type {
		case "memory", "redis":
		default:
			return fmt.Errorf("unknown cache type %q", config.Cache.Type)
		}
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證限流設定
	if config.RateLimit.Enabled && (config.RateLimit.RequestsPerSecond <= 0 || config.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}

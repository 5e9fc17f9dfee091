package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-matcher/internal/api/handlers/health"
	recipeHandler "recipe-matcher/internal/api/handlers/recipe"
	"recipe-matcher/internal/api/middleware"
	"recipe-matcher/internal/core/ai/cache"
	aiService "recipe-matcher/internal/core/ai/service"
	"recipe-matcher/internal/core/corpus"
	"recipe-matcher/internal/core/image"
	"recipe-matcher/internal/core/matching"
	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/core/service"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

// 超時設置
const timeoutDuration = 120 * time.Second

// Services 路由使用的服務
type Services struct {
	Engine    *matching.Engine
	Corpus    corpus.Provider
	Static    *corpus.Static
	Finder    corpus.Finder
	Generator *recipeService.Generator
	Images    *image.Service
	CacheType string

	// Ingredients 未啟用遠端食材搜尋時為 nil
	Ingredients corpus.IngredientSearcher

	// CacheStats 僅記憶體快取提供
	CacheStats health.StatsProvider
}

// NewServices 依設定建立服務，store 可為 nil
func NewServices(cfg *config.Config, store cache.Store) (*Services, error) {
	engine, err := matching.NewEngine(matching.DefaultTables(), cfg.Matching.Engine(),
		matching.WithRandom(matching.NewRandom(cfg.Matching.Seed)),
		matching.WithStrategy(cfg.Matching.Strategy),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize matching engine: %w", err)
	}

	// 備援鏈為 Spoonacular → TheMealDB → 內建食譜，單筆查詢先查內建食譜
	static := corpus.NewStatic(nil)
	var provider corpus.Provider = static
	finder := corpus.FinderChain{static}
	var ingredients corpus.IngredientSearcher
	if cfg.MealDB.Enabled {
		mealDB := corpus.NewMealDB(cfg.MealDB, store)
		provider = corpus.NewFallbackProvider(mealDB, provider)
		finder = append(finder, mealDB)
	}
	if cfg.Spoonacular.Enabled {
		spoonacular := corpus.NewSpoonacular(cfg.Spoonacular, store)
		provider = corpus.NewFallbackProvider(spoonacular, provider)
		finder = append(finder, spoonacular)
		ingredients = spoonacular
	}

	images := image.NewService(cfg.Unsplash, store)

	// 未設定 API Key 時不建立生成服務，呼叫端改走語料庫配對
	var backend recipeService.TextBackend
	if cfg.OpenRouter.Enabled {
		backend = aiService.NewService(service.NewOpenRouterService(cfg.OpenRouter), aiService.Options{
			MinInterval: cfg.OpenRouter.MinInterval,
			MaxTokens:   cfg.OpenRouter.MaxTokens,
			Temperature: cfg.OpenRouter.Temperature,
		})
	}

	svcs := &Services{
		Engine:    engine,
		Corpus:    provider,
		Static:    static,
		Finder:    finder,
		Generator: recipeService.NewGenerator(backend, images),
		Images:    images,
		CacheType: "disabled",

		Ingredients: ingredients,
	}
	if store != nil {
		svcs.CacheType = cfg.Cache.Type
	}
	if m, ok := store.(*cache.Manager); ok {
		svcs.CacheStats = m
	}
	return svcs, nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.String("mode", cfg.Server.Mode),
	)

	svcs, err := NewServices(cfg, store)
	if err != nil {
		return nil, err
	}

	common.LogInfo("Services initialized",
		zap.String("corpus", svcs.Corpus.Name()),
		zap.String("strategy", cfg.Matching.Strategy),
		zap.Bool("generator_enabled", svcs.Generator.Enabled()),
		zap.Bool("images_enabled", svcs.Images.Enabled()),
		zap.String("cache", svcs.CacheType),
	)

	return NewRouter(cfg, svcs), nil
}

// NewRouter 以既有服務建立路由
func NewRouter(cfg *config.Config, svcs *Services) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.BodyLimit))
	router.Use(middleware.Timeout(timeoutDuration))

	healthHandler := health.NewHandler(cfg.App.Version, health.Components{
		Corpus:    svcs.Corpus.Name(),
		Generator: svcs.Generator.Enabled(),
		Images:    svcs.Images.Enabled(),
		Cache:     svcs.CacheType,
	}, svcs.CacheStats)
	router.GET("/health", healthHandler.HealthCheck)

	// API 路由組
	api := router.Group("/api/v1")
	api.GET("/health", healthHandler.HealthCheck)

	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}
	api.Use(middleware.Deduplication(cfg.DedupWindow))

	h := recipeHandler.NewHandler(recipeHandler.Dependencies{
		Engine:      svcs.Engine,
		Corpus:      svcs.Corpus,
		Static:      svcs.Static,
		Finder:      svcs.Finder,
		Generator:   svcs.Generator,
		Images:      svcs.Images,
		Ingredients: svcs.Ingredients,
	})
	recipes := api.Group("/recipes")
	{
		recipes.POST("/match", h.HandleMatch)
		recipes.POST("/generate", h.HandleGenerate)
		recipes.POST("/images", h.HandleImages)
		recipes.GET("/:id", h.HandleGetRecipe)
	}
	api.GET("/ingredients/search", h.HandleIngredientSearch)

	return router
}

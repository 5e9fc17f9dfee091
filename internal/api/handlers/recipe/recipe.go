package recipe

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-matcher/internal/api/middleware"
	"recipe-matcher/internal/core/corpus"
	"recipe-matcher/internal/core/image"
	"recipe-matcher/internal/core/matching"
	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/pkg/common"
)

// MaxImageBatch 單次圖片批次查詢的上限
const MaxImageBatch = 20

// MatchRequest 以使用者食材配對食譜
type MatchRequest struct {
	Ingredients    []string                `json:"ingredients" binding:"required"`
	Mode           string                  `json:"mode"`
	Preferences    *common.UserPreferences `json:"preferences,omitempty"`
	SavedRecipeIDs []string                `json:"saved_recipe_ids,omitempty"` // 已收藏食譜，用於推算隱含偏好
	Cuisine        string                  `json:"cuisine,omitempty"`          // "all" 或空字串表示不篩選
	Dietary        string                  `json:"dietary,omitempty"`
	StrictDietary  bool                    `json:"strict_dietary,omitempty"` // 排除含禁止食材的食譜
	Search         string                  `json:"search,omitempty"`
	Strategy       string                  `json:"strategy,omitempty"`
	Explain        bool                    `json:"explain,omitempty"` // 附上各項加分明細
}

// MatchResponse 配對結果
type MatchResponse struct {
	Matches    []common.RecipeMatch          `json:"matches"`
	Count      int                           `json:"count"`
	Mode       common.Mode                   `json:"mode"`
	Breakdowns map[string]matching.Breakdown `json:"breakdowns,omitempty"`
}

// GenerateRequest 生成食譜請求
type GenerateRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
	Cuisines    []string `json:"cuisines,omitempty"`
	Dietary     []string `json:"dietary,omitempty"`
}

// GenerateResponse 生成結果，generated 為 false 時 matches 為語料庫配對
type GenerateResponse struct {
	Recipe    *common.Recipe       `json:"recipe,omitempty"`
	Matches   []common.RecipeMatch `json:"matches,omitempty"`
	Generated bool                 `json:"generated"`
}

// ImagesRequest 批次圖片查詢
type ImagesRequest struct {
	Recipes []image.BatchItem `json:"recipes" binding:"required"`
}

// Dependencies 處理程序使用的服務
type Dependencies struct {
	Engine    *matching.Engine
	Corpus    corpus.Provider
	Static    *corpus.Static
	Finder    corpus.Finder
	Generator *recipeService.Generator
	Images    *image.Service

	// Ingredients 為 nil 時只使用本地食材清單
	Ingredients corpus.IngredientSearcher
}

// Handler 食譜處理程序
type Handler struct {
	engine      *matching.Engine
	corpus      corpus.Provider
	static      *corpus.Static
	finder      corpus.Finder
	ingredients corpus.IngredientSearcher
	generator   *recipeService.Generator
	images      *image.Service
}

// NewHandler 創建新的食譜處理程序，未指定 Finder 時只查內建食譜
func NewHandler(deps Dependencies) *Handler {
	finder := deps.Finder
	if finder == nil {
		finder = deps.Static
	}
	return &Handler{
		engine:      deps.Engine,
		corpus:      deps.Corpus,
		static:      deps.Static,
		finder:      finder,
		ingredients: deps.Ingredients,
		generator:   deps.Generator,
		images:      deps.Images,
	}
}

// HandleMatch 配對食譜
func (h *Handler) HandleMatch(c *gin.Context) {
	requestID := requestid.Get(c)

	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", requestID))
		middleware.Abort(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	mode, err := common.ParseMode(req.Mode)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	normalized := matching.NormalizeAll(req.Ingredients)
	if len(normalized) == 0 {
		middleware.Abort(c, common.ErrNoIngredients)
		return
	}
	if req.Preferences != nil {
		if err := req.Preferences.Validate(); err != nil {
			middleware.Abort(c, err)
			return
		}
	}

	ctx := c.Request.Context()
	recipes, err := h.corpus.Recipes(ctx, corpus.Query{
		Search:      req.Search,
		Ingredients: normalized,
		Mode:        mode,
	})
	if err != nil {
		common.LogError("取得食譜失敗", zap.Error(err), zap.String("request_id", requestID))
		middleware.Abort(c, common.ErrCorpusUnavailable.Wrap(err))
		return
	}
	recipes = corpus.FilterByCuisine(recipes, req.Cuisine)
	recipes = corpus.FilterByDietary(recipes, req.Dietary)

	prefs := h.preferences(ctx, req.Preferences, req.SavedRecipeIDs)
	if prefs != nil {
		recipes = corpus.ExcludeIngredients(recipes, prefs.DislikedIngredients, h.engine.Matcher())
	}
	if req.StrictDietary {
		recipes = corpus.ExcludeForbidden(recipes, strictDiets(prefs, req.Dietary), h.engine)
	}

	matches, err := h.engine.MatchWith(req.Strategy, recipes, req.Ingredients, mode, prefs)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	if matches == nil {
		matches = []common.RecipeMatch{}
	}

	common.LogInfo("食譜配對完成",
		zap.String("request_id", requestID),
		zap.String("mode", string(mode)),
		zap.Int("candidates", len(recipes)),
		zap.Int("matches", len(matches)),
	)

	resp := MatchResponse{
		Matches: matches,
		Count:   len(matches),
		Mode:    mode,
	}
	if req.Explain {
		resp.Breakdowns = h.breakdowns(matches, req.Ingredients, prefs)
	}
	c.JSON(http.StatusOK, resp)
}

// breakdowns 重新計算未經 surprise 擾動的分數明細
func (h *Handler) breakdowns(matches []common.RecipeMatch, ingredients []string, prefs *common.UserPreferences) map[string]matching.Breakdown {
	calc := h.engine.Calculator()
	out := make(map[string]matching.Breakdown, len(matches))
	for _, m := range matches {
		out[m.Recipe.ID] = calc.Explain(m.Recipe, ingredients, prefs)
	}
	return out
}

// preferences 合併明確偏好與收藏食譜推算的隱含偏好
// 找不到的收藏 id 直接略過
func (h *Handler) preferences(ctx context.Context, explicit *common.UserPreferences, savedIDs []string) *common.UserPreferences {
	var history []common.Recipe
	for _, id := range savedIDs {
		r, err := h.finder.RecipeByID(ctx, id)
		if err != nil {
			common.LogDebug("Saved recipe not found", zap.String("id", id), zap.Error(err))
			continue
		}
		history = append(history, *r)
	}
	if len(history) == 0 {
		return explicit
	}

	implicit := matching.BuildProfile(history)
	if explicit == nil {
		return &implicit
	}
	combined := matching.CombinePreferences(implicit, *explicit)
	return &combined
}

func strictDiets(prefs *common.UserPreferences, dietary string) []string {
	var diets []string
	if prefs != nil {
		diets = append(diets, prefs.Dietary...)
	}
	if d := strings.TrimSpace(dietary); d != "" && !strings.EqualFold(d, "all") {
		diets = append(diets, d)
	}
	return diets
}

// HandleGenerate 生成食譜，生成失敗時改以 surprise 模式配對語料庫
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := requestid.Get(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", requestID))
		middleware.Abort(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	normalized := matching.NormalizeAll(req.Ingredients)
	if len(normalized) == 0 {
		middleware.Abort(c, common.ErrNoIngredients)
		return
	}

	if r := h.generator.GenerateRecipe(c.Request.Context(), recipeService.GenerateRequest{
		Ingredients: req.Ingredients,
		Cuisines:    req.Cuisines,
		Dietary:     req.Dietary,
	}); r != nil {
		c.JSON(http.StatusOK, GenerateResponse{Recipe: r, Generated: true})
		return
	}

	common.LogInfo("生成失敗，改用語料庫配對", zap.String("request_id", requestID))
	prefs := &common.UserPreferences{Cuisines: req.Cuisines, Dietary: req.Dietary}
	matches := h.engine.Match(h.fallbackRecipes(c.Request.Context(), normalized), req.Ingredients, common.ModeSurprise, prefs)
	if matches == nil {
		matches = []common.RecipeMatch{}
	}
	c.JSON(http.StatusOK, GenerateResponse{Matches: matches, Generated: false})
}

func (h *Handler) fallbackRecipes(ctx context.Context, ingredients []string) []common.Recipe {
	recipes, err := h.corpus.Recipes(ctx, corpus.Query{Ingredients: ingredients, Mode: common.ModeSurprise})
	if err != nil || len(recipes) == 0 {
		return h.static.All()
	}
	return recipes
}

// HandleGetRecipe 依 id 取得食譜，先查內建食譜再查遠端來源
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	r, err := h.finder.RecipeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": r})
}

// HandleImages 批次查詢食譜圖片
func (h *Handler) HandleImages(c *gin.Context) {
	var req ImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	if len(req.Recipes) > MaxImageBatch {
		middleware.Abort(c, common.NewValidationError("recipes", fmt.Sprintf("at most %d recipes per request", MaxImageBatch)))
		return
	}
	for i, item := range req.Recipes {
		if strings.TrimSpace(item.ID) == "" || strings.TrimSpace(item.Title) == "" {
			middleware.Abort(c, common.NewValidationError(fmt.Sprintf("recipes[%d]", i), "id and title are required"))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"images": h.images.SearchRecipeImages(c.Request.Context(), req.Recipes)})
}

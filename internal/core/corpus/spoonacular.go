package corpus

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-matcher/internal/core/ai/cache"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

// SpoonacularIDPrefix 區隔 Spoonacular 與其他來源的數字 id
const SpoonacularIDPrefix = "spoonacular-"

const (
	spoonacularDefaultCookTime = 30
	spoonacularIngredientImage = "https://spoonacular.com/cdn/ingredients_100x100/"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// Spoonacular 遠端食譜與食材來源
type Spoonacular struct {
	client     *resty.Client
	cache      cache.Store
	maxResults int
}

// NewSpoonacular 創建 Spoonacular 來源，store 可為 nil
func NewSpoonacular(cfg config.SpoonacularConfig, store cache.Store) *Spoonacular {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetQueryParam("apiKey", cfg.APIKey)

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	return &Spoonacular{
		client:     client,
		cache:      store,
		maxResults: maxResults,
	}
}

// Name 來源名稱
func (s *Spoonacular) Name() string {
	return "spoonacular"
}

type spoonacularSummary struct {
	ID int `json:"id"`
}

type spoonacularSearchResponse struct {
	Results []spoonacularSummary `json:"results"`
}

type spoonacularRecipe struct {
	ID                  int      `json:"id"`
	Title               string   `json:"title"`
	Image               string   `json:"image"`
	ReadyInMinutes      int      `json:"readyInMinutes"`
	Cuisines            []string `json:"cuisines"`
	Diets               []string `json:"diets"`
	Instructions        string   `json:"instructions"`
	ExtendedIngredients []struct {
		Name     string `json:"name"`
		Original string `json:"original"`
	} `json:"extendedIngredients"`
	AnalyzedInstructions []struct {
		Steps []struct {
			Step string `json:"step"`
		} `json:"steps"`
	} `json:"analyzedInstructions"`
}

type spoonacularIngredientResponse struct {
	Results []struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Image string `json:"image"`
		Aisle string `json:"aisle"`
	} `json:"results"`
}

// spoonacularRanking 依模式決定 findByIngredients 的 ranking 與 ignorePantry
func spoonacularRanking(mode common.Mode) (string, string) {
	switch mode {
	case common.ModeLoose:
		return "2", "false"
	case common.ModeSurprise:
		return "3", "false"
	default:
		return "1", "true"
	}
}

// Recipes 有搜尋字串時走 complexSearch，否則以使用者食材查詢
// 清單中個別食譜取得失敗時略過
func (s *Spoonacular) Recipes(ctx context.Context, q Query) ([]common.Recipe, error) {
	search := strings.TrimSpace(q.Search)

	var key string
	var lookup func() ([]int, error)
	if search == "" && len(q.Ingredients) > 0 {
		ingredients := strings.Join(q.Ingredients, ",")
		ranking, ignorePantry := spoonacularRanking(q.Mode)
		key = cache.Key("spoonacular", "ingredients", ingredients, ranking)
		lookup = func() ([]int, error) { return s.findByIngredients(ctx, ingredients, ranking, ignorePantry) }
	} else {
		key = cache.Key("spoonacular", "search", strings.ToLower(search))
		lookup = func() ([]int, error) { return s.complexSearch(ctx, search) }
	}

	var cached []common.Recipe
	if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
		return cached, nil
	}

	ids, err := lookup()
	if err != nil {
		return nil, err
	}

	recipes := make([]common.Recipe, 0, len(ids))
	for _, id := range ids {
		recipe, err := s.information(ctx, strconv.Itoa(id))
		if err != nil {
			if ctx.Err() != nil {
				return nil, common.ErrCorpusUnavailable.Wrap(ctx.Err())
			}
			common.LogWarn("Skipping spoonacular recipe",
				zap.Int("id", id),
				zap.Error(err))
			continue
		}
		recipes = append(recipes, *recipe)
	}
	recipes = validRecipes(s.Name(), recipes)

	common.LogDebug("Fetched spoonacular recipes",
		zap.String("search", search),
		zap.Int("ingredients", len(q.Ingredients)),
		zap.Int("count", len(recipes)))

	if len(recipes) > 0 {
		if err := cache.SetJSON(ctx, s.cache, key, recipes); err != nil {
			common.LogWarn("Failed to cache spoonacular recipes", zap.Error(err))
		}
	}
	return recipes, nil
}

// RecipeByID 只處理帶 Spoonacular 前綴的 id
func (s *Spoonacular) RecipeByID(ctx context.Context, id string) (*common.Recipe, error) {
	raw := strings.TrimPrefix(id, SpoonacularIDPrefix)
	if raw == id {
		return nil, common.ErrRecipeNotFound
	}
	if _, err := strconv.Atoi(raw); err != nil {
		return nil, common.ErrRecipeNotFound
	}
	return s.information(ctx, raw)
}

// SearchIngredients 食材自動完成
func (s *Spoonacular) SearchIngredients(ctx context.Context, query string, limit int) ([]Ingredient, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	key := cache.Key("spoonacular", "autocomplete", query, strconv.Itoa(limit))

	var cached []Ingredient
	if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
		return cached, nil
	}

	var result spoonacularIngredientResponse
	params := map[string]string{
		"query":       query,
		"number":      strconv.Itoa(limit),
		"addChildren": "true",
	}
	if err := s.get(ctx, "/food/ingredients/search", params, &result); err != nil {
		return nil, err
	}

	ingredients := make([]Ingredient, 0, len(result.Results))
	for _, item := range result.Results {
		ingredient := Ingredient{
			ID:       strconv.Itoa(item.ID),
			Name:     item.Name,
			Category: item.Aisle,
		}
		if item.Image != "" {
			ingredient.Image = spoonacularIngredientImage + item.Image
		}
		ingredients = append(ingredients, ingredient)
	}

	if len(ingredients) > 0 {
		if err := cache.SetJSON(ctx, s.cache, key, ingredients); err != nil {
			common.LogWarn("Failed to cache spoonacular ingredients", zap.Error(err))
		}
	}
	return ingredients, nil
}

func (s *Spoonacular) findByIngredients(ctx context.Context, ingredients, ranking, ignorePantry string) ([]int, error) {
	var result []spoonacularSummary
	params := map[string]string{
		"ingredients":  ingredients,
		"ranking":      ranking,
		"ignorePantry": ignorePantry,
		"number":       strconv.Itoa(s.maxResults),
	}
	if err := s.get(ctx, "/recipes/findByIngredients", params, &result); err != nil {
		return nil, err
	}
	return summaryIDs(result), nil
}

func (s *Spoonacular) complexSearch(ctx context.Context, search string) ([]int, error) {
	var result spoonacularSearchResponse
	params := map[string]string{
		"query":  search,
		"number": strconv.Itoa(s.maxResults),
	}
	if err := s.get(ctx, "/recipes/complexSearch", params, &result); err != nil {
		return nil, err
	}
	return summaryIDs(result.Results), nil
}

// information 取得完整食譜，結果以原始 id 快取
func (s *Spoonacular) information(ctx context.Context, raw string) (*common.Recipe, error) {
	key := cache.Key("spoonacular", "recipe", raw)
	var cached common.Recipe
	if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
		return &cached, nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", raw).
		Get("/recipes/{id}/information")
	if err != nil {
		return nil, common.ErrCorpusUnavailable.Wrap(err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, common.ErrRecipeNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.ErrCorpusUnavailable.Wrap(fmt.Errorf("spoonacular returned status %d", resp.StatusCode()))
	}

	var detail spoonacularRecipe
	if err := common.ParseJSONBytes(resp.Body(), &detail); err != nil {
		return nil, common.ErrCorpusUnavailable.Wrap(fmt.Errorf("failed to parse spoonacular recipe: %w", err))
	}

	recipe := spoonacularToRecipe(detail)
	if err := recipe.Validate(); err != nil {
		return nil, common.ErrCorpusUnavailable.Wrap(err)
	}

	if err := cache.SetJSON(ctx, s.cache, key, recipe); err != nil {
		common.LogWarn("Failed to cache spoonacular recipe", zap.Error(err))
	}
	return &recipe, nil
}

func (s *Spoonacular) get(ctx context.Context, path string, params map[string]string, v interface{}) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return common.ErrCorpusUnavailable.Wrap(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return common.ErrCorpusUnavailable.Wrap(fmt.Errorf("spoonacular returned status %d", resp.StatusCode()))
	}
	if err := common.ParseJSONBytes(resp.Body(), v); err != nil {
		return common.ErrCorpusUnavailable.Wrap(fmt.Errorf("failed to parse spoonacular response: %w", err))
	}
	return nil
}

func summaryIDs(results []spoonacularSummary) []int {
	ids := make([]int, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

// spoonacularToRecipe 缺少烹飪時間時視為 30 分鐘，缺少菜系時為 International
func spoonacularToRecipe(r spoonacularRecipe) common.Recipe {
	var ingredients []string
	for _, ing := range r.ExtendedIngredients {
		text := strings.TrimSpace(ing.Original)
		if text == "" {
			text = strings.TrimSpace(ing.Name)
		}
		if text != "" {
			ingredients = append(ingredients, text)
		}
	}

	var instructions []string
	for _, block := range r.AnalyzedInstructions {
		for _, step := range block.Steps {
			if text := strings.TrimSpace(step.Step); text != "" {
				instructions = append(instructions, text)
			}
		}
	}
	if len(instructions) == 0 {
		plain := htmlTag.ReplaceAllString(r.Instructions, "\n")
		for _, line := range strings.Split(plain, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				instructions = append(instructions, line)
			}
		}
	}

	cookTime := r.ReadyInMinutes
	if cookTime <= 0 {
		cookTime = spoonacularDefaultCookTime
	}

	cuisine := "International"
	if len(r.Cuisines) > 0 && strings.TrimSpace(r.Cuisines[0]) != "" {
		cuisine = strings.TrimSpace(r.Cuisines[0])
	}

	dietary := r.Diets
	if dietary == nil {
		dietary = []string{}
	}

	return common.Recipe{
		ID:           SpoonacularIDPrefix + strconv.Itoa(r.ID),
		Title:        strings.TrimSpace(r.Title),
		Image:        r.Image,
		Ingredients:  ingredients,
		Instructions: instructions,
		CookTime:     cookTime,
		Cuisine:      cuisine,
		Dietary:      dietary,
		Difficulty:   common.DifficultyForCookTime(cookTime),
	}
}

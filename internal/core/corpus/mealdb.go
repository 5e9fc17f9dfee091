package corpus

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-matcher/internal/core/ai/cache"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

// mealDBCookTime TheMealDB 不提供烹飪時間
const mealDBCookTime = 30

const mealDBMaxIngredients = 20

// MealDB TheMealDB 遠端食譜來源
type MealDB struct {
	client *resty.Client
	cache  cache.Store
}

// NewMealDB 創建 TheMealDB 來源，store 可為 nil
func NewMealDB(cfg config.MealDBConfig, store cache.Store) *MealDB {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &MealDB{
		client: client,
		cache:  store,
	}
}

// Name 來源名稱
func (m *MealDB) Name() string {
	return "mealdb"
}

type mealsResponse struct {
	Meals []map[string]interface{} `json:"meals"`
}

// Recipes 依搜尋字串查詢，沒有搜尋字串時取一道隨機食譜
// 隨機結果不寫入快取
func (m *MealDB) Recipes(ctx context.Context, q Query) ([]common.Recipe, error) {
	search := strings.TrimSpace(q.Search)
	key := cache.Key("mealdb", strings.ToLower(search))
	if search != "" {
		var cached []common.Recipe
		if err := cache.GetJSON(ctx, m.cache, key, &cached); err == nil {
			return cached, nil
		}
	}

	params := map[string]string{}
	path := "/random.php"
	if search != "" {
		params["s"] = search
		path = "/search.php"
	}

	recipes, err := m.fetch(ctx, path, params)
	if err != nil {
		return nil, err
	}
	recipes = validRecipes(m.Name(), recipes)

	common.LogDebug("Fetched mealdb recipes",
		zap.String("search", search),
		zap.Int("count", len(recipes)))

	if search != "" && len(recipes) > 0 {
		if err := cache.SetJSON(ctx, m.cache, key, recipes); err != nil {
			common.LogWarn("Failed to cache mealdb recipes", zap.Error(err))
		}
	}
	return recipes, nil
}

// RecipeByID 以 idMeal 查詢單一食譜，非數字 id 直接視為找不到
func (m *MealDB) RecipeByID(ctx context.Context, id string) (*common.Recipe, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return nil, common.ErrRecipeNotFound
	}

	key := cache.Key("mealdb", "id", id)
	var cached common.Recipe
	if err := cache.GetJSON(ctx, m.cache, key, &cached); err == nil {
		return &cached, nil
	}

	recipes, err := m.fetch(ctx, "/lookup.php", map[string]string{"i": id})
	if err != nil {
		return nil, err
	}
	recipes = validRecipes(m.Name(), recipes)
	if len(recipes) == 0 {
		return nil, common.ErrRecipeNotFound
	}

	if err := cache.SetJSON(ctx, m.cache, key, recipes[0]); err != nil {
		common.LogWarn("Failed to cache mealdb recipe", zap.Error(err))
	}
	return &recipes[0], nil
}

// fetch 呼叫 TheMealDB 並轉換 meals 陣列
func (m *MealDB) fetch(ctx context.Context, path string, params map[string]string) ([]common.Recipe, error) {
	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, common.ErrCorpusUnavailable.Wrap(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.ErrCorpusUnavailable.Wrap(fmt.Errorf("mealdb returned status %d", resp.StatusCode()))
	}

	var result mealsResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, common.ErrCorpusUnavailable.Wrap(fmt.Errorf("failed to parse mealdb response: %w", err))
	}

	recipes := make([]common.Recipe, 0, len(result.Meals))
	for _, meal := range result.Meals {
		recipes = append(recipes, mealToRecipe(meal))
	}
	return recipes, nil
}

// mealToRecipe 轉換 TheMealDB 的扁平欄位
func mealToRecipe(meal map[string]interface{}) common.Recipe {
	var ingredients []string
	for i := 1; i <= mealDBMaxIngredients; i++ {
		name := field(meal, fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		if measure := field(meal, fmt.Sprintf("strMeasure%d", i)); measure != "" {
			name = measure + " " + name
		}
		ingredients = append(ingredients, name)
	}

	var instructions []string
	for _, step := range strings.Split(field(meal, "strInstructions"), "\n") {
		if step = strings.TrimSpace(step); step != "" {
			instructions = append(instructions, step)
		}
	}

	cuisine := field(meal, "strArea")
	if cuisine == "" {
		cuisine = "International"
	}

	return common.Recipe{
		ID:           field(meal, "idMeal"),
		Title:        field(meal, "strMeal"),
		Image:        field(meal, "strMealThumb"),
		Ingredients:  ingredients,
		Instructions: instructions,
		CookTime:     mealDBCookTime,
		Cuisine:      cuisine,
		Dietary:      []string{},
		Difficulty:   common.DifficultyForCookTime(mealDBCookTime),
	}
}

func field(meal map[string]interface{}, key string) string {
	s, _ := meal[key].(string)
	return strings.TrimSpace(s)
}

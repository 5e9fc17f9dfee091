package matching

import (
	"strings"

	"recipe-matcher/internal/pkg/common"
)

// Breakdown 配對分數的組成
type Breakdown struct {
	Base          float64 `json:"base"`
	Compatibility float64 `json:"compatibility"`
	Substitution  float64 `json:"substitution"`
	Preference    float64 `json:"preference"`
	Cuisine       float64 `json:"cuisine"`
	Total         float64 `json:"total"`
}

// Calculator 計算單一食譜與使用者食材的配對結果
type Calculator struct {
	tables  *Tables
	matcher Matcher
	advisor *Advisor
	weights Weights
}

// NewCalculator 創建配對計算器
func NewCalculator(tables *Tables, cfg Config) *Calculator {
	m := cfg.matcher()
	return &Calculator{
		tables:  tables,
		matcher: m,
		advisor: NewAdvisor(tables, m),
		weights: cfg.Weights,
	}
}

// Calculate 計算配對，userIngredients 可為未正規化的原始字串
func (c *Calculator) Calculate(recipe *common.Recipe, userIngredients []string, prefs *common.UserPreferences) common.RecipeMatch {
	match, _ := c.calculate(recipe, NormalizeAll(userIngredients), prefs)
	return match
}

// Explain 回傳配對分數的各項組成
func (c *Calculator) Explain(recipe *common.Recipe, userIngredients []string, prefs *common.UserPreferences) Breakdown {
	_, b := c.calculate(recipe, NormalizeAll(userIngredients), prefs)
	return b
}

func (c *Calculator) calculate(recipe *common.Recipe, user []string, prefs *common.UserPreferences) (common.RecipeMatch, Breakdown) {
	ingredients := NormalizeAll(recipe.Ingredients)

	matched := make([]string, 0, len(ingredients))
	missing := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if c.matcher.AnySimilar(ing, user) {
			matched = append(matched, ing)
		} else {
			missing = append(missing, ing)
		}
	}

	var b Breakdown
	if len(ingredients) > 0 {
		b.Base = float64(len(matched)) / float64(len(ingredients))
	}
	b.Compatibility = c.compatibilityBonus(matched)

	suggestions := make([]string, 0, len(missing))
	substituted := 0
	for _, m := range missing {
		if sub, ok := c.advisor.Suggest(m, user); ok {
			substituted++
			suggestions = append(suggestions, SuggestionText(sub, m))
		}
	}
	if len(missing) > 0 {
		b.Substitution = 0.5 * float64(substituted) / float64(len(missing))
	}

	if prefs != nil {
		b.Preference = c.preferenceBonus(recipe, ingredients, prefs)
	}
	b.Cuisine = c.cuisineBonus(recipe.Cuisine, matched)

	if len(ingredients) > 0 {
		b.Total = min(1.0, b.Base+
			c.weights.Compatibility*b.Compatibility+
			c.weights.Substitution*b.Substitution+
			c.weights.Preference*b.Preference+
			c.weights.Cuisine*b.Cuisine)
	}

	return common.RecipeMatch{
		Recipe:                  recipe,
		MatchScore:              b.Total,
		MatchedIngredients:      matched,
		MissingIngredients:      missing,
		SubstitutionSuggestions: suggestions,
	}, b
}

// 已配對食材兩兩之間出現在搭配表中的比例
func (c *Calculator) compatibilityBonus(matched []string) float64 {
	if len(matched) < 2 {
		return 0
	}
	points, pairs := 0, 0
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			if c.tables.Compatible(matched[i], matched[j]) {
				points++
			}
			pairs++
		}
	}
	return float64(points) / float64(pairs)
}

func (c *Calculator) preferenceBonus(recipe *common.Recipe, ingredients []string, prefs *common.UserPreferences) float64 {
	bonus := 0.0
	if containsFold(prefs.Cuisines, recipe.Cuisine) {
		bonus += 0.3
	}
	for _, d := range recipe.Dietary {
		if containsFold(prefs.Dietary, d) {
			bonus += 0.3
			break
		}
	}
	if containsFold(prefs.Difficulties, recipe.Difficulty) {
		bonus += 0.2
	}
	if recipe.CookTime <= prefs.CookTime {
		bonus += 0.2
	}

	favorites := NormalizeAll(prefs.FavoriteIngredients)
	if len(favorites) > 0 {
		found := 0
		for _, f := range favorites {
			if c.matcher.AnySimilar(f, ingredients) {
				found++
			}
		}
		bonus += 0.2 * float64(found) / float64(len(favorites))
	}
	return bonus
}

// 已配對食材中屬於該菜系代表食材的比例
func (c *Calculator) cuisineBonus(cuisine string, matched []string) float64 {
	typical := c.tables.CuisineIngredients(cuisine)
	if len(typical) == 0 || len(matched) == 0 {
		return 0
	}
	found := 0
	for _, m := range matched {
		if c.matcher.AnySimilar(m, typical) {
			found++
		}
	}
	return float64(found) / float64(len(matched))
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

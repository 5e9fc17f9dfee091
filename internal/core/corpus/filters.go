package corpus

import (
	"strings"

	"recipe-matcher/internal/core/matching"
	"recipe-matcher/internal/pkg/common"
)

// filterAll 表示不篩選
const filterAll = "all"

// DietChecker 判斷食譜是否違反飲食限制
type DietChecker interface {
	ViolatesDiet(recipe *common.Recipe, diets []string) bool
}

func passthrough(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, filterAll)
}

// FilterByCuisine 依菜系篩選，"all" 或空字串回傳全部
func FilterByCuisine(recipes []common.Recipe, cuisine string) []common.Recipe {
	if passthrough(cuisine) {
		return recipes
	}
	var out []common.Recipe
	for _, r := range recipes {
		if strings.EqualFold(r.Cuisine, strings.TrimSpace(cuisine)) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByDietary 依飲食標籤篩選，"all" 或空字串回傳全部
func FilterByDietary(recipes []common.Recipe, dietary string) []common.Recipe {
	if passthrough(dietary) {
		return recipes
	}
	var out []common.Recipe
	for i := range recipes {
		if recipes[i].HasDietary(strings.TrimSpace(dietary)) {
			out = append(out, recipes[i])
		}
	}
	return out
}

// ExcludeIngredients 排除含有不喜歡食材的食譜
func ExcludeIngredients(recipes []common.Recipe, disliked []string, matcher matching.Matcher) []common.Recipe {
	disliked = matching.NormalizeAll(disliked)
	if len(disliked) == 0 {
		return recipes
	}
	var out []common.Recipe
	for _, r := range recipes {
		if !containsAnySimilar(matching.NormalizeAll(r.Ingredients), disliked, matcher) {
			out = append(out, r)
		}
	}
	return out
}

func containsAnySimilar(ingredients, disliked []string, matcher matching.Matcher) bool {
	for _, d := range disliked {
		if matcher.AnySimilar(d, ingredients) {
			return true
		}
	}
	return false
}

// ExcludeForbidden 排除含有飲食限制禁止食材的食譜
func ExcludeForbidden(recipes []common.Recipe, diets []string, checker DietChecker) []common.Recipe {
	if len(diets) == 0 {
		return recipes
	}
	var out []common.Recipe
	for i := range recipes {
		if !checker.ViolatesDiet(&recipes[i], diets) {
			out = append(out, recipes[i])
		}
	}
	return out
}

package matching

import (
	"math"
	"sort"
	"strings"

	"recipe-matcher/internal/pkg/common"
)

const (
	profileCuisines     = 3
	profileDifficulties = 2
	profileFavorites    = 10
	profileCookTime     = 30
)

// BuildProfile 依使用者收藏過的食譜推算隱含偏好
func BuildProfile(history []common.Recipe) common.UserPreferences {
	cuisines := newCounter()
	difficulties := newCounter()
	ingredients := newCounter()
	total := 0

	for i := range history {
		r := &history[i]
		cuisines.add(r.Cuisine)
		difficulties.add(r.Difficulty)
		total += r.CookTime
		for _, ing := range NormalizeAll(r.Ingredients) {
			ingredients.add(ing)
		}
	}

	cookTime := profileCookTime
	if len(history) > 0 {
		cookTime = int(math.Round(float64(total) / float64(len(history))))
	}

	return common.UserPreferences{
		Cuisines:            cuisines.top(profileCuisines),
		Dietary:             []string{},
		Difficulties:        difficulties.top(profileDifficulties),
		CookTime:            cookTime,
		FavoriteIngredients: ingredients.top(profileFavorites),
		SpiceLevel:          common.NewSpiceLevel(common.DefaultSpiceLevel),
		DislikedIngredients: []string{},
	}
}

// CombinePreferences 合併隱含與明確偏好
// 飲食限制、辣度與不喜歡的食材以明確偏好為準，烹飪時間取較小的正值
// 明確偏好未設定辣度時沿用隱含偏好，兩者皆未設定時為預設值
func CombinePreferences(implicit, explicit common.UserPreferences) common.UserPreferences {
	cookTime := implicit.CookTime
	if explicit.CookTime > 0 && (cookTime <= 0 || explicit.CookTime < cookTime) {
		cookTime = explicit.CookTime
	}
	spice := implicit.Spice()
	if explicit.SpiceLevel != nil {
		spice = explicit.Spice()
	}
	return common.UserPreferences{
		Cuisines:            union(implicit.Cuisines, explicit.Cuisines),
		Dietary:             explicit.Dietary,
		Difficulties:        union(implicit.Difficulties, explicit.Difficulties),
		CookTime:            cookTime,
		FavoriteIngredients: union(implicit.FavoriteIngredients, explicit.FavoriteIngredients),
		SpiceLevel:          common.NewSpiceLevel(spice),
		DislikedIngredients: explicit.DislikedIngredients,
	}
}

func union(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, list := range lists {
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// 保留首次出現順序的計數器
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if key == "" {
		return
	}
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) top(n int) []string {
	keys := append([]string{}, c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

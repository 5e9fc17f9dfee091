package common

import (
	"fmt"
	"strings"
)

// Mode 配對嚴格程度
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeLoose    Mode = "loose"
	ModeSurprise Mode = "surprise"
)

// ParseMode 解析模式字串，空字串視為 normal
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNormal:
		return ModeNormal, nil
	case ModeLoose:
		return ModeLoose, nil
	case ModeSurprise:
		return ModeSurprise, nil
	}
	return "", NewValidationError("mode", fmt.Sprintf("unknown mode %q", s))
}

// 難度標籤
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// ParseDifficulty 將難度字串正規化為 Easy/Medium/Hard
func ParseDifficulty(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	}
	return "", false
}

// DifficultyForCookTime 依烹飪時間推算難度
func DifficultyForCookTime(minutes int) string {
	switch {
	case minutes <= 15:
		return DifficultyEasy
	case minutes <= 45:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// Recipe 食譜
// 由語料庫或生成器建立後即不再修改
type Recipe struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Image        string   `json:"image"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CookTime     int      `json:"cookTime"`
	Cuisine      string   `json:"cuisine"`
	Dietary      []string `json:"dietary"`
	Difficulty   string   `json:"difficulty"`
}

// Validate 在語料庫與生成器邊界檢查食譜結構
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return NewValidationError("id", "recipe id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return NewValidationError("title", "recipe title is required")
	}
	if r.CookTime <= 0 {
		return NewValidationError("cookTime", "cook time must be a positive number of minutes")
	}
	if _, ok := ParseDifficulty(r.Difficulty); !ok {
		return NewValidationError("difficulty", fmt.Sprintf("unknown difficulty %q", r.Difficulty))
	}
	return nil
}

// HasDietary 食譜是否帶有指定的飲食標籤（不分大小寫）
func (r *Recipe) HasDietary(tag string) bool {
	for _, d := range r.Dietary {
		if strings.EqualFold(d, tag) {
			return true
		}
	}
	return false
}

// 辣度範圍
const (
	MinSpiceLevel     = 0
	MaxSpiceLevel     = 10
	DefaultSpiceLevel = 5
)

// UserPreferences 使用者偏好，僅用於加權
type UserPreferences struct {
	Cuisines            []string `json:"cuisine"`
	Dietary             []string `json:"dietary"`
	Difficulties        []string `json:"difficulty"`
	CookTime            int      `json:"cookTime"`
	FavoriteIngredients []string `json:"favoriteIngredients"`
	SpiceLevel          *int     `json:"spiceLevel,omitempty"` // nil 表示未設定
	DislikedIngredients []string `json:"dislikedIngredients"`
}

// Validate 檢查明確偏好的數值範圍
func (p *UserPreferences) Validate() error {
	if p.SpiceLevel != nil && (*p.SpiceLevel < MinSpiceLevel || *p.SpiceLevel > MaxSpiceLevel) {
		return NewValidationError("spiceLevel",
			fmt.Sprintf("spice level must be between %d and %d", MinSpiceLevel, MaxSpiceLevel))
	}
	return nil
}

// Spice 未設定時為 DefaultSpiceLevel，超出範圍時取邊界值
func (p *UserPreferences) Spice() int {
	if p.SpiceLevel == nil {
		return DefaultSpiceLevel
	}
	return clampSpice(*p.SpiceLevel)
}

// NewSpiceLevel 取得範圍內的辣度指標
func NewSpiceLevel(level int) *int {
	level = clampSpice(level)
	return &level
}

func clampSpice(level int) int {
	if level < MinSpiceLevel {
		return MinSpiceLevel
	}
	if level > MaxSpiceLevel {
		return MaxSpiceLevel
	}
	return level
}

// RecipeMatch 單次配對結果
type RecipeMatch struct {
	Recipe                  *Recipe  `json:"recipe"`
	MatchScore              float64  `json:"matchScore"`
	MatchedIngredients      []string `json:"matchedIngredients"`
	MissingIngredients      []string `json:"missingIngredients"`
	SubstitutionSuggestions []string `json:"substitutionSuggestions"`
}

// StringSliceToString 將字符串切片轉換為逗號分隔的字符串
func StringSliceToString(slice []string) string {
	if len(slice) == 0 {
		return ""
	}
	return strings.Join(slice, ", ")
}

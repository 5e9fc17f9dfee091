package matching

import "fmt"

// Advisor 替代食材建議
type Advisor struct {
	tables  *Tables
	matcher Matcher
}

// NewAdvisor 創建替代建議器
func NewAdvisor(tables *Tables, matcher Matcher) *Advisor {
	return &Advisor{tables: tables, matcher: matcher}
}

// Suggest 為缺少的食材找出使用者已擁有的替代品
// 依替代表順序，第一個符合的候選即採用
func (a *Advisor) Suggest(missing string, owned []string) (string, bool) {
	for _, sub := range a.tables.Substitutions() {
		if !a.matcher.Similar(missing, sub.Ingredient) {
			continue
		}
		for _, candidate := range sub.Candidates {
			if a.matcher.AnySimilar(candidate, owned) {
				return candidate, true
			}
		}
	}
	return "", false
}

// SuggestionText 替代建議的顯示文字
func SuggestionText(substitute, missing string) string {
	return fmt.Sprintf("Use %s instead of %s", substitute, missing)
}

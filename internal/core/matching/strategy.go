package matching

import (
	"strings"

	"recipe-matcher/internal/pkg/common"
)

// 策略名稱
const (
	StrategyScored = "scored"
	StrategyRules  = "rules"
)

// Strategy 將語料庫轉為排序後的配對結果
type Strategy interface {
	Name() string
	Rank(recipes []common.Recipe, userIngredients []string, mode common.Mode, prefs *common.UserPreferences) []common.RecipeMatch
}

// ScoredStrategy 加權分數策略：逐一計算配對分數後交由 Ranker 過濾
type ScoredStrategy struct {
	calculator *Calculator
	ranker     *Ranker
}

// NewScoredStrategy 創建加權分數策略
func NewScoredStrategy(calculator *Calculator, ranker *Ranker) *ScoredStrategy {
	return &ScoredStrategy{calculator: calculator, ranker: ranker}
}

func (s *ScoredStrategy) Name() string { return StrategyScored }

func (s *ScoredStrategy) Rank(recipes []common.Recipe, userIngredients []string, mode common.Mode, prefs *common.UserPreferences) []common.RecipeMatch {
	user := NormalizeAll(userIngredients)
	matches := make([]common.RecipeMatch, 0, len(recipes))
	for i := range recipes {
		m, _ := s.calculator.calculate(&recipes[i], user, prefs)
		matches = append(matches, m)
	}
	return s.ranker.Rank(matches, mode)
}

// RuleStrategy 規則策略，適用於沒有豐富中繼資料的小型語料庫
//   - normal: 食材完全相同，不允許缺少（RelaxedNormal 時允許 RelaxedMissing 項）
//   - loose: 子字串比對，最多缺少 LooseMaxMissing 項
//   - surprise: 至少一項重疊後隨機排列
//
// 三種模式都要求至少一項食材相符，分數為相符比例
type RuleStrategy struct {
	relaxed         bool
	relaxedMissing  int
	looseMaxMissing int
	advisor         *Advisor
	rnd             Random
}

// NewRuleStrategy 創建規則策略
func NewRuleStrategy(tables *Tables, cfg Config, rnd Random) *RuleStrategy {
	return &RuleStrategy{
		relaxed:         cfg.RelaxedNormal,
		relaxedMissing:  cfg.RelaxedMissing,
		looseMaxMissing: cfg.LooseMaxMissing,
		advisor:         NewAdvisor(tables, cfg.matcher()),
		rnd:             rnd,
	}
}

func (s *RuleStrategy) Name() string { return StrategyRules }

func (s *RuleStrategy) Rank(recipes []common.Recipe, userIngredients []string, mode common.Mode, _ *common.UserPreferences) []common.RecipeMatch {
	user := NormalizeAll(userIngredients)

	same := substringMatch
	maxMissing := -1
	switch mode {
	case common.ModeNormal:
		same = exactMatch
		maxMissing = 0
		if s.relaxed {
			maxMissing = s.relaxedMissing
		}
	case common.ModeLoose:
		maxMissing = s.looseMaxMissing
	}

	out := make([]common.RecipeMatch, 0, len(recipes))
	for i := range recipes {
		m := s.evaluate(&recipes[i], user, same)
		if len(m.MatchedIngredients) == 0 {
			continue
		}
		if maxMissing >= 0 && len(m.MissingIngredients) > maxMissing {
			continue
		}
		out = append(out, m)
	}

	if mode == common.ModeSurprise {
		s.rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
	sortByScore(out)
	return out
}

func (s *RuleStrategy) evaluate(recipe *common.Recipe, user []string, same func(a, b string) bool) common.RecipeMatch {
	ingredients := NormalizeAll(recipe.Ingredients)
	m := common.RecipeMatch{
		Recipe:                  recipe,
		MatchedIngredients:      make([]string, 0, len(ingredients)),
		MissingIngredients:      make([]string, 0, len(ingredients)),
		SubstitutionSuggestions: []string{},
	}
	for _, ing := range ingredients {
		if anyOf(ing, user, same) {
			m.MatchedIngredients = append(m.MatchedIngredients, ing)
			continue
		}
		m.MissingIngredients = append(m.MissingIngredients, ing)
		if sub, ok := s.advisor.Suggest(ing, user); ok {
			m.SubstitutionSuggestions = append(m.SubstitutionSuggestions, SuggestionText(sub, ing))
		}
	}
	if len(ingredients) > 0 {
		m.MatchScore = float64(len(m.MatchedIngredients)) / float64(len(ingredients))
	}
	return m
}

func exactMatch(a, b string) bool { return a == b }

func substringMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func anyOf(s string, list []string, same func(a, b string) bool) bool {
	for _, v := range list {
		if same(s, v) {
			return true
		}
	}
	return false
}

package matching

import (
	"fmt"

	"go.uber.org/zap"

	"recipe-matcher/internal/pkg/common"
)

// Engine 食材配對引擎
type Engine struct {
	tables          *Tables
	matcher         Matcher
	calculator      *Calculator
	strategies      map[string]Strategy
	defaultStrategy string
}

type options struct {
	rnd      Random
	strategy string
}

// Option 引擎選項
type Option func(*options)

// WithRandom 指定 surprise 模式的亂數來源
func WithRandom(rnd Random) Option {
	return func(o *options) { o.rnd = rnd }
}

// WithStrategy 指定預設策略
func WithStrategy(name string) Option {
	return func(o *options) { o.strategy = name }
}

// NewEngine 創建配對引擎
func NewEngine(tables *Tables, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching config: %w", err)
	}
	o := options{strategy: StrategyScored}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rnd == nil {
		o.rnd = NewRandom(0)
	}
	if tables == nil {
		tables = DefaultTables()
	}

	calc := NewCalculator(tables, cfg)
	e := &Engine{
		tables:     tables,
		matcher:    cfg.matcher(),
		calculator: calc,
		strategies: map[string]Strategy{
			StrategyScored: NewScoredStrategy(calc, NewRanker(cfg, o.rnd)),
			StrategyRules:  NewRuleStrategy(tables, cfg, o.rnd),
		},
	}
	if _, ok := e.strategies[o.strategy]; !ok {
		return nil, fmt.Errorf("unknown matching strategy %q", o.strategy)
	}
	e.defaultStrategy = o.strategy
	return e, nil
}

// Match 以預設策略配對
func (e *Engine) Match(recipes []common.Recipe, userIngredients []string, mode common.Mode, prefs *common.UserPreferences) []common.RecipeMatch {
	matches, _ := e.MatchWith(e.defaultStrategy, recipes, userIngredients, mode, prefs)
	return matches
}

// MatchWith 以指定策略配對，策略名稱為空時使用預設策略
func (e *Engine) MatchWith(strategy string, recipes []common.Recipe, userIngredients []string, mode common.Mode, prefs *common.UserPreferences) ([]common.RecipeMatch, error) {
	if strategy == "" {
		strategy = e.defaultStrategy
	}
	s, ok := e.strategies[strategy]
	if !ok {
		return nil, common.NewValidationError("strategy", fmt.Sprintf("unknown matching strategy %q", strategy))
	}

	matches := s.Rank(recipes, userIngredients, mode, prefs)
	common.LogDebug("食譜配對完成",
		zap.String("strategy", s.Name()),
		zap.String("mode", string(mode)),
		zap.Int("corpus", len(recipes)),
		zap.Int("accepted", len(matches)),
	)
	return matches, nil
}

// Calculator 取得配對計算器
func (e *Engine) Calculator() *Calculator {
	return e.calculator
}

// Matcher 取得相似度判斷器
func (e *Engine) Matcher() Matcher {
	return e.matcher
}

// ViolatesDiet 食譜是否含有任一飲食限制禁止的食材
// 未知的飲食限制不會排除任何食譜
func (e *Engine) ViolatesDiet(recipe *common.Recipe, diets []string) bool {
	ingredients := NormalizeAll(recipe.Ingredients)
	for _, diet := range diets {
		rule, ok := e.tables.Diet(diet)
		if !ok {
			continue
		}
		for _, forbidden := range rule.Forbidden {
			if e.matcher.AnySimilar(forbidden, ingredients) {
				return true
			}
		}
	}
	return false
}

package corpus

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"recipe-matcher/internal/pkg/common"
)

// Query 語料庫查詢條件
type Query struct {
	Search string
	// Ingredients 已正規化的使用者食材，供支援食材查詢的來源使用
	Ingredients []string
	Mode        common.Mode
}

// Provider 食譜語料庫來源
type Provider interface {
	Name() string
	Recipes(ctx context.Context, q Query) ([]common.Recipe, error)
}

// Finder 依 id 取得單一食譜，找不到時回傳 common.ErrRecipeNotFound
type Finder interface {
	RecipeByID(ctx context.Context, id string) (*common.Recipe, error)
}

// IngredientSearcher 食材自動完成來源
type IngredientSearcher interface {
	SearchIngredients(ctx context.Context, query string, limit int) ([]Ingredient, error)
}

// FinderChain 依序查詢，第一個找到的來源勝出
type FinderChain []Finder

// RecipeByID 取得食譜
func (c FinderChain) RecipeByID(ctx context.Context, id string) (*common.Recipe, error) {
	for _, f := range c {
		recipe, err := f.RecipeByID(ctx, id)
		if err == nil {
			return recipe, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, common.ErrRecipeNotFound) {
			common.LogWarn("Recipe lookup failed, trying next source",
				zap.String("id", id),
				zap.Error(err))
		}
	}
	return nil, common.ErrRecipeNotFound
}

// FallbackProvider 主要來源失敗或沒有結果時改用備援來源
type FallbackProvider struct {
	primary  Provider
	fallback Provider
}

// NewFallbackProvider 創建備援鏈
func NewFallbackProvider(primary, fallback Provider) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallback: fallback}
}

// Name 來源名稱
func (p *FallbackProvider) Name() string {
	return p.primary.Name() + "+" + p.fallback.Name()
}

// Recipes 取得食譜
func (p *FallbackProvider) Recipes(ctx context.Context, q Query) ([]common.Recipe, error) {
	recipes, err := p.primary.Recipes(ctx, q)
	if err == nil && len(recipes) > 0 {
		return recipes, nil
	}
	if err != nil {
		common.LogWarn("Corpus provider failed, using fallback",
			zap.String("provider", p.primary.Name()),
			zap.String("fallback", p.fallback.Name()),
			zap.Error(err))
	} else {
		common.LogInfo("Corpus provider returned no recipes, using fallback",
			zap.String("provider", p.primary.Name()),
			zap.String("search", q.Search))
	}
	return p.fallback.Recipes(ctx, q)
}

// validRecipes 丟棄結構不完整的食譜
func validRecipes(source string, recipes []common.Recipe) []common.Recipe {
	valid := recipes[:0]
	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			common.LogWarn("Dropping invalid recipe",
				zap.String("source", source),
				zap.String("id", r.ID),
				zap.Error(err))
			continue
		}
		valid = append(valid, r)
	}
	return valid
}

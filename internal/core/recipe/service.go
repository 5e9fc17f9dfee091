package recipe

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"recipe-matcher/internal/core/image"
	"recipe-matcher/internal/pkg/common"
)

// TextBackend 生成式文字後端
type TextBackend interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageResolver 依標題與菜系搜尋圖片
type ImageResolver interface {
	Search(ctx context.Context, title, cuisine string) (string, error)
}

// Generator 以生成式後端產生新食譜
type Generator struct {
	backend TextBackend
	images  ImageResolver
	newID   func() string
}

// NewGenerator 創建食譜生成器，backend 為 nil 表示未設定生成服務
func NewGenerator(backend TextBackend, images ImageResolver) *Generator {
	return &Generator{
		backend: backend,
		images:  images,
		newID:   func() string { return "ai-" + common.GenerateUUID() },
	}
}

// Enabled 是否設定了生成服務
func (g *Generator) Enabled() bool {
	return g.backend != nil
}

// Generate 生成食譜並回傳失敗原因
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*common.Recipe, error) {
	if g.backend == nil {
		return nil, common.ErrAINotConfigured
	}
	if len(nonEmpty(req.Ingredients)) == 0 {
		return nil, common.ErrNoIngredients
	}

	text, err := g.backend.GenerateText(ctx, BuildPrompt(req))
	if err != nil {
		return nil, err
	}

	r, err := ParseRecipe(text)
	if err != nil {
		return nil, err
	}
	r.ID = g.newID()
	r.Image = g.resolveImage(ctx, r.Title, r.Cuisine)

	if err := r.Validate(); err != nil {
		return nil, malformed("generated recipe failed validation", err)
	}
	return r, nil
}

// GenerateRecipe 生成食譜，任何失敗都回傳 nil，呼叫端需自行退回語料庫配對
func (g *Generator) GenerateRecipe(ctx context.Context, req GenerateRequest) *common.Recipe {
	r, err := g.Generate(ctx, req)
	if err != nil {
		common.LogWarn("Recipe generation failed",
			zap.Strings("ingredients", req.Ingredients),
			zap.Error(err))
		return nil
	}
	common.LogInfo("Recipe generated",
		zap.String("id", r.ID),
		zap.String("title", r.Title))
	return r
}

func (g *Generator) resolveImage(ctx context.Context, title, cuisine string) string {
	if g.images == nil {
		return image.DefaultImageURL
	}
	url, err := g.images.Search(ctx, title, cuisine)
	if err != nil || strings.TrimSpace(url) == "" {
		return image.DefaultImageURL
	}
	return url
}

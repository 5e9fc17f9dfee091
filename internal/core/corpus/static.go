package corpus

import (
	"context"

	"recipe-matcher/internal/pkg/common"
)

// Static 內建食譜
type Static struct {
	recipes []common.Recipe
	byID    map[string]int
}

// NewStatic 以給定食譜建立語料庫，recipes 為 nil 時使用內建資料
func NewStatic(recipes []common.Recipe) *Static {
	if recipes == nil {
		recipes = builtinRecipes
	}
	s := &Static{
		recipes: validRecipes("static", append([]common.Recipe(nil), recipes...)),
		byID:    make(map[string]int, len(recipes)),
	}
	for i, r := range s.recipes {
		s.byID[r.ID] = i
	}
	return s
}

// Name 來源名稱
func (s *Static) Name() string {
	return "static"
}

// Recipes 回傳全部內建食譜，搜尋字串不影響結果
func (s *Static) Recipes(_ context.Context, _ Query) ([]common.Recipe, error) {
	return s.All(), nil
}

// All 全部食譜的副本
func (s *Static) All() []common.Recipe {
	return append([]common.Recipe(nil), s.recipes...)
}

// GetByID 以 id 取得食譜
func (s *Static) GetByID(id string) (*common.Recipe, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, common.ErrRecipeNotFound
	}
	r := s.recipes[i]
	return &r, nil
}

// RecipeByID 實作 Finder
func (s *Static) RecipeByID(_ context.Context, id string) (*common.Recipe, error) {
	return s.GetByID(id)
}

var builtinRecipes = []common.Recipe{
	{
		ID:          "1",
		Title:       "Chicken Stir Fry",
		Image:       "https://images.unsplash.com/photo-1603133872878-684f208fb84b?w=400",
		Ingredients: []string{"chicken", "onion", "garlic", "bell pepper", "soy sauce"},
		Instructions: []string{
			"Cut chicken into bite-sized pieces",
			"Chop vegetables",
			"Heat oil in a large pan",
			"Cook chicken until golden",
			"Add vegetables and stir fry",
			"Add soy sauce and serve",
		},
		CookTime:   20,
		Cuisine:    "Asian",
		Dietary:    []string{"gluten-free"},
		Difficulty: common.DifficultyEasy,
	},
	{
		ID:          "2",
		Title:       "Pasta Carbonara",
		Image:       "https://images.unsplash.com/photo-1621996346565-e3dbc353d2e5?w=400",
		Ingredients: []string{"pasta", "eggs", "cheese", "garlic", "pepper"},
		Instructions: []string{
			"Cook pasta according to package",
			"Beat eggs with cheese",
			"Sauté garlic",
			"Combine pasta with egg mixture",
			"Add pepper and serve",
		},
		CookTime:   15,
		Cuisine:    "Italian",
		Dietary:    []string{"vegetarian"},
		Difficulty: common.DifficultyMedium,
	},
	{
		ID:          "3",
		Title:       "Simple Salad",
		Image:       "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=400",
		Ingredients: []string{"lettuce", "tomato", "cucumber", "olive oil", "salt"},
		Instructions: []string{
			"Wash and chop vegetables",
			"Combine in a bowl",
			"Drizzle with olive oil",
			"Season with salt and serve",
		},
		CookTime:   5,
		Cuisine:    "Mediterranean",
		Dietary:    []string{"vegan", "gluten-free"},
		Difficulty: common.DifficultyEasy,
	},
	{
		ID:          "4",
		Title:       "Scrambled Eggs",
		Image:       "https://images.unsplash.com/photo-1482049016688-2d3e1b311543?w=400",
		Ingredients: []string{"eggs", "butter", "salt", "pepper"},
		Instructions: []string{
			"Crack eggs into a bowl",
			"Whisk until combined",
			"Heat butter in pan",
			"Pour in eggs and scramble",
			"Season and serve",
		},
		CookTime:   10,
		Cuisine:    "American",
		Dietary:    []string{"gluten-free"},
		Difficulty: common.DifficultyEasy,
	},
	{
		ID:          "5",
		Title:       "Rice and Beans",
		Image:       "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=400",
		Ingredients: []string{"rice", "beans", "onion", "garlic", "salt"},
		Instructions: []string{
			"Cook rice according to package",
			"Sauté onion and garlic",
			"Add beans and heat through",
			"Combine with rice",
			"Season and serve",
		},
		CookTime:   25,
		Cuisine:    "Mexican",
		Dietary:    []string{"vegan", "gluten-free"},
		Difficulty: common.DifficultyEasy,
	},
	{
		ID:          "6",
		Title:       "Grilled Cheese Sandwich",
		Image:       "https://images.unsplash.com/photo-1528735602781-4a98ef4a30c3?w=400",
		Ingredients: []string{"bread", "cheese", "butter"},
		Instructions: []string{
			"Butter one side of each bread slice",
			"Place cheese between bread slices",
			"Heat pan over medium heat",
			"Cook until golden brown on both sides",
			"Serve hot",
		},
		CookTime:   8,
		Cuisine:    "American",
		Dietary:    []string{"vegetarian"},
		Difficulty: common.DifficultyEasy,
	},
	{
		ID:          "7",
		Title:       "Tomato Soup",
		Image:       "https://images.unsplash.com/photo-1547592166-23ac45744acd?w=400",
		Ingredients: []string{"tomato", "onion", "garlic", "olive oil", "salt", "pepper"},
		Instructions: []string{
			"Chop tomatoes and onion",
			"Sauté onion and garlic in olive oil",
			"Add tomatoes and cook until soft",
			"Blend until smooth",
			"Season with salt and pepper",
		},
		CookTime:   30,
		Cuisine:    "Mediterranean",
		Dietary:    []string{"vegan", "gluten-free"},
		Difficulty: common.DifficultyEasy,
	},
	{
		ID:          "8",
		Title:       "Pancakes",
		Image:       "https://images.unsplash.com/photo-1567620905732-2d1ec7ab7445?w=400",
		Ingredients: []string{"flour", "eggs", "milk", "butter", "sugar", "salt"},
		Instructions: []string{
			"Mix dry ingredients in a bowl",
			"Whisk wet ingredients separately",
			"Combine wet and dry ingredients",
			"Heat pan with butter",
			"Pour batter and cook until bubbles form",
			"Flip and cook other side",
		},
		CookTime:   20,
		Cuisine:    "American",
		Dietary:    []string{"vegetarian"},
		Difficulty: common.DifficultyEasy,
	},
}

package matching

import "recipe-matcher/internal/pkg/common"

// sequenceRandom 依序回傳預設的亂數值，Shuffle 將順序反轉
type sequenceRandom struct {
	values []float64
	next   int
}

func (s *sequenceRandom) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceRandom) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func recipe(id string, cuisine string, ingredients ...string) common.Recipe {
	return common.Recipe{
		ID:           id,
		Title:        "Recipe " + id,
		Ingredients:  ingredients,
		Instructions: []string{"cook"},
		CookTime:     20,
		Cuisine:      cuisine,
		Dietary:      []string{},
		Difficulty:   common.DifficultyEasy,
	}
}

func ids(matches []common.RecipeMatch) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Recipe.ID)
	}
	return out
}

func testCorpus() []common.Recipe {
	return []common.Recipe{
		recipe("1", "Asian", "chicken", "onion", "garlic", "bell pepper", "soy sauce"),
		recipe("2", "Italian", "pasta", "eggs", "cheese", "garlic", "pepper"),
		recipe("3", "Mediterranean", "lettuce", "tomato", "cucumber", "olive oil", "salt"),
		recipe("4", "American", "eggs", "butter", "salt", "pepper"),
		recipe("5", "Mexican", "rice", "beans", "onion", "garlic", "salt"),
		recipe("6", "American", "bread", "cheese", "butter"),
		recipe("7", "Mediterranean", "2 cups chopped tomato", "1 onion", "garlic", "olive oil", "salt", "pepper"),
		recipe("8", "American", "flour", "eggs", "milk", "butter", "sugar", "salt"),
		recipe("9", "International"),
	}
}

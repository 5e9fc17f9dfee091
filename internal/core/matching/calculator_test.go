package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-matcher/internal/pkg/common"
)

func newTestCalculator() *Calculator {
	return NewCalculator(DefaultTables(), DefaultConfig())
}

func TestCalculateFullCoverage(t *testing.T) {
	r := recipe("r", "International", "2 cups rice", "1 onion", "garlic")

	m := newTestCalculator().Calculate(&r, []string{"rice", "onion", "garlic"}, nil)

	assert.Equal(t, []string{"rice", "onion", "garlic"}, m.MatchedIngredients)
	assert.Empty(t, m.MissingIngredients)
	assert.Empty(t, m.SubstitutionSuggestions)
	assert.GreaterOrEqual(t, m.MatchScore, 0.6)
	assert.Same(t, &r, m.Recipe)

	b := newTestCalculator().Explain(&r, []string{"rice", "onion", "garlic"}, nil)
	assert.InDelta(t, 1.0, b.Base, 1e-9)
}

func TestCalculatePartialCoverage(t *testing.T) {
	r := recipe("r", "International", "2 cups rice", "1 onion", "garlic")

	m := newTestCalculator().Calculate(&r, []string{"rice"}, nil)

	assert.Equal(t, []string{"rice"}, m.MatchedIngredients)
	assert.Equal(t, []string{"onion", "garlic"}, m.MissingIngredients)
	assert.InDelta(t, 1.0/3.0, m.MatchScore, 1e-9)
}

func TestCalculateEmptyRecipe(t *testing.T) {
	r := recipe("empty", "Italian")
	prefs := &common.UserPreferences{Cuisines: []string{"Italian"}, CookTime: 60}

	m := newTestCalculator().Calculate(&r, []string{"rice"}, prefs)

	assert.Zero(t, m.MatchScore)
	assert.Empty(t, m.MatchedIngredients)
	assert.Empty(t, m.MissingIngredients)
}

func TestCompatibilityBonus(t *testing.T) {
	r := recipe("r", "International", "chicken", "onion", "garlic", "lemon")

	b := newTestCalculator().Explain(&r, []string{"chicken", "onion", "garlic"}, nil)

	// chicken-onion 與 chicken-garlic 在搭配表中，onion-garlic 不在
	assert.InDelta(t, 0.75, b.Base, 1e-9)
	assert.InDelta(t, 2.0/3.0, b.Compatibility, 1e-9)
	assert.Zero(t, b.Substitution)
	assert.InDelta(t, 0.75+0.2*2.0/3.0, b.Total, 1e-9)
}

func TestSubstitutionBonus(t *testing.T) {
	r := recipe("r", "International", "butter", "flour", "sugar")

	calc := newTestCalculator()
	m := calc.Calculate(&r, []string{"margarine", "flour"}, nil)
	b := calc.Explain(&r, []string{"margarine", "flour"}, nil)

	assert.Equal(t, []string{"flour"}, m.MatchedIngredients)
	assert.Equal(t, []string{"butter", "sugar"}, m.MissingIngredients)
	assert.Equal(t, []string{"Use margarine instead of butter"}, m.SubstitutionSuggestions)
	assert.InDelta(t, 0.25, b.Substitution, 1e-9)
	assert.InDelta(t, 1.0/3.0+0.15*0.25, m.MatchScore, 1e-9)
}

func TestPreferenceBonus(t *testing.T) {
	r := recipe("r", "Italian", "pasta", "tomato")
	r.Dietary = []string{"vegetarian"}

	t.Run("all terms", func(t *testing.T) {
		prefs := &common.UserPreferences{
			Cuisines:            []string{"italian"},
			Dietary:             []string{"Vegetarian"},
			Difficulties:        []string{"easy"},
			CookTime:            30,
			FavoriteIngredients: []string{"tomato", "beef"},
		}
		b := newTestCalculator().Explain(&r, []string{"pasta"}, prefs)
		assert.InDelta(t, 1.1, b.Preference, 1e-9)
	})

	t.Run("no favorites", func(t *testing.T) {
		prefs := &common.UserPreferences{Cuisines: []string{"Italian"}}
		b := newTestCalculator().Explain(&r, []string{"pasta"}, prefs)
		assert.InDelta(t, 0.3, b.Preference, 1e-9)
	})

	t.Run("absent preferences", func(t *testing.T) {
		b := newTestCalculator().Explain(&r, []string{"pasta"}, nil)
		assert.Zero(t, b.Preference)
	})
}

func TestCuisineBonus(t *testing.T) {
	r := recipe("r", "Italian", "pasta", "tomato", "chicken")

	b := newTestCalculator().Explain(&r, []string{"pasta", "tomato", "chicken"}, nil)

	assert.InDelta(t, 2.0/3.0, b.Cuisine, 1e-9)
	assert.InDelta(t, 1.0/3.0, b.Compatibility, 1e-9)
	assert.InDelta(t, 1.0, b.Total, 1e-9)
}

func TestCalculatePartitionAndBounds(t *testing.T) {
	calc := newTestCalculator()
	prefs := &common.UserPreferences{
		Cuisines:            []string{"American", "Italian"},
		Dietary:             []string{"vegetarian"},
		Difficulties:        []string{"Easy"},
		CookTime:            60,
		FavoriteIngredients: []string{"cheese", "eggs"},
	}
	inventories := [][]string{
		nil,
		{"eggs", "butter", "salt", "pepper", "cheese"},
		{"rice", "beans"},
		{"almond milk", "margarine", "flour"},
	}

	for _, r := range testCorpus() {
		for _, inv := range inventories {
			for _, p := range []*common.UserPreferences{nil, prefs} {
				m := calc.Calculate(&r, inv, p)
				require.GreaterOrEqual(t, m.MatchScore, 0.0)
				require.LessOrEqual(t, m.MatchScore, 1.0)

				all := append(append([]string{}, m.MatchedIngredients...), m.MissingIngredients...)
				assert.ElementsMatch(t, NormalizeAll(r.Ingredients), all, "recipe %s", r.ID)
				for _, ing := range m.MatchedIngredients {
					assert.NotContains(t, m.MissingIngredients, ing)
				}
			}
		}
	}
}

package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quantity unit and prep words", "2 cups chopped fresh basil", "basil"},
		{"bare quantity", "1 onion", "onion"},
		{"already clean", "garlic", "garlic"},
		{"fraction with unit", "1/2 tsp ground black pepper", "black pepper"},
		{"unit without space", "250g spaghetti", "spaghetti"},
		{"connector words", "Salt and pepper", "salt pepper"},
		{"punctuation and trailing prep", "1 lb chicken breast, diced", "chicken breast"},
		{"unicode fraction", "½ cup Milk", "milk"},
		{"diacritics folded", "Jalapeño", "jalapeno"},
		{"unit letter inside word kept", "2 garlic cloves", "garlic cloves"},
		{"blank", "   ", ""},
		{"only noise", "2 tbsp chopped", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"onion",
		"2 cups chopped fresh basil",
		"1 lb chicken breast, diced",
		"extra-virgin olive oil",
		"salt & pepper to taste",
		"3-4 large eggs",
		"Crème fraîche",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeAllDropsEmpty(t *testing.T) {
	got := NormalizeAll([]string{"2 cups", "Rice", "chopped", "1 onion"})
	assert.Equal(t, []string{"rice", "onion"}, got)
	assert.Empty(t, NormalizeAll(nil))
}

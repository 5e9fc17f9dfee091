package matching

import "strings"

// Substitution 一組可互換的食材，Candidates 依優先順序排列
type Substitution struct {
	Ingredient string
	Candidates []string
}

// DietaryRule 飲食限制規則
type DietaryRule struct {
	Allowed   []string
	Forbidden []string
}

// Tables 配對計算使用的靜態查詢表
// 啟動時建立一次，之後唯讀共享
type Tables struct {
	compatibility map[string][]string
	cuisines      map[string][]string
	dietary       map[string]DietaryRule
	substitutions []Substitution
}

// NewTables 以給定資料建立查詢表，鍵一律轉小寫
func NewTables(compatibility, cuisines map[string][]string, dietary map[string]DietaryRule, substitutions []Substitution) *Tables {
	t := &Tables{
		compatibility: make(map[string][]string, len(compatibility)),
		cuisines:      make(map[string][]string, len(cuisines)),
		dietary:       make(map[string]DietaryRule, len(dietary)),
		substitutions: make([]Substitution, len(substitutions)),
	}
	for k, v := range compatibility {
		t.compatibility[strings.ToLower(k)] = append([]string(nil), v...)
	}
	for k, v := range cuisines {
		t.cuisines[strings.ToLower(k)] = append([]string(nil), v...)
	}
	for k, v := range dietary {
		t.dietary[strings.ToLower(k)] = DietaryRule{
			Allowed:   append([]string(nil), v.Allowed...),
			Forbidden: append([]string(nil), v.Forbidden...),
		}
	}
	for i, s := range substitutions {
		t.substitutions[i] = Substitution{
			Ingredient: strings.ToLower(s.Ingredient),
			Candidates: append([]string(nil), s.Candidates...),
		}
	}
	return t
}

// DefaultTables 內建的搭配、菜系、飲食限制與替代表
func DefaultTables() *Tables {
	return NewTables(defaultCompatibility, defaultCuisines, defaultDietary, defaultSubstitutions)
}

// Compatible 兩項食材是否出現在彼此的搭配清單中
func (t *Tables) Compatible(a, b string) bool {
	return contains(t.compatibility[a], b) || contains(t.compatibility[b], a)
}

// CuisineIngredients 菜系的代表性食材
func (t *Tables) CuisineIngredients(cuisine string) []string {
	return t.cuisines[strings.ToLower(cuisine)]
}

// Diet 取得飲食限制規則
func (t *Tables) Diet(diet string) (DietaryRule, bool) {
	r, ok := t.dietary[strings.ToLower(diet)]
	return r, ok
}

// Substitutions 替代表，依宣告順序
func (t *Tables) Substitutions() []Substitution {
	return t.substitutions
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var defaultCompatibility = map[string][]string{
	"chicken":  {"onion", "garlic", "herbs", "lemon", "olive oil", "salt", "pepper"},
	"beef":     {"onion", "garlic", "herbs", "red wine", "butter", "salt", "pepper"},
	"salmon":   {"lemon", "dill", "garlic", "butter", "olive oil", "salt", "pepper"},
	"tomato":   {"basil", "garlic", "onion", "olive oil", "cheese", "salt", "pepper"},
	"pasta":    {"tomato", "garlic", "olive oil", "cheese", "basil", "salt", "pepper"},
	"rice":     {"onion", "garlic", "butter", "herbs", "salt", "pepper"},
	"potato":   {"onion", "garlic", "butter", "herbs", "salt", "pepper", "cheese"},
	"egg":      {"cheese", "milk", "butter", "salt", "pepper", "herbs"},
	"mushroom": {"garlic", "onion", "butter", "herbs", "salt", "pepper", "wine"},
	"spinach":  {"garlic", "onion", "olive oil", "lemon", "salt", "pepper", "cheese"},
}

var defaultCuisines = map[string][]string{
	"italian":       {"tomato", "basil", "olive oil", "garlic", "onion", "parmesan", "mozzarella", "pasta"},
	"mexican":       {"tomato", "onion", "garlic", "cilantro", "lime", "chili", "tortilla", "cheese"},
	"asian":         {"soy sauce", "ginger", "garlic", "sesame oil", "rice", "noodles", "vegetables"},
	"indian":        {"onion", "garlic", "ginger", "turmeric", "cumin", "coriander", "rice", "lentils"},
	"mediterranean": {"olive oil", "garlic", "lemon", "herbs", "tomato", "cheese", "vegetables"},
	"american":      {"butter", "onion", "garlic", "cheese", "potato", "bread", "meat"},
	"french":        {"butter", "wine", "garlic", "onion", "herbs", "cheese", "cream"},
	"thai":          {"coconut milk", "fish sauce", "lime", "garlic", "ginger", "chili", "rice"},
}

var defaultDietary = map[string]DietaryRule{
	"vegetarian": {
		Allowed:   []string{"vegetables", "fruits", "grains", "dairy", "eggs", "nuts", "seeds"},
		Forbidden: []string{"meat", "fish", "poultry", "bacon", "sausage", "ham"},
	},
	"vegan": {
		Allowed:   []string{"vegetables", "fruits", "grains", "nuts", "seeds", "legumes"},
		Forbidden: []string{"meat", "fish", "poultry", "dairy", "eggs", "honey"},
	},
	"gluten-free": {
		Allowed:   []string{"rice", "quinoa", "corn", "potato", "vegetables", "fruits", "meat", "fish"},
		Forbidden: []string{"wheat", "barley", "rye", "bread", "pasta", "flour"},
	},
	"dairy-free": {
		Allowed:   []string{"vegetables", "fruits", "grains", "meat", "fish", "nuts", "seeds"},
		Forbidden: []string{"milk", "cheese", "yogurt", "butter", "cream"},
	},
	"keto": {
		Allowed:   []string{"meat", "fish", "eggs", "dairy", "vegetables", "nuts", "seeds"},
		Forbidden: []string{"grains", "sugar", "fruits", "potato", "bread", "pasta"},
	},
	"paleo": {
		Allowed:   []string{"meat", "fish", "eggs", "vegetables", "fruits", "nuts", "seeds"},
		Forbidden: []string{"grains", "dairy", "legumes", "processed foods"},
	},
}

var defaultSubstitutions = []Substitution{
	{Ingredient: "milk", Candidates: []string{"almond milk", "soy milk", "oat milk", "coconut milk"}},
	{Ingredient: "butter", Candidates: []string{"olive oil", "coconut oil", "margarine"}},
	{Ingredient: "eggs", Candidates: []string{"flax eggs", "chia eggs", "banana"}},
	{Ingredient: "flour", Candidates: []string{"almond flour", "coconut flour", "oat flour"}},
	{Ingredient: "sugar", Candidates: []string{"honey", "maple syrup", "stevia"}},
	{Ingredient: "cheese", Candidates: []string{"nutritional yeast", "cashew cheese"}},
	{Ingredient: "meat", Candidates: []string{"tofu", "tempeh", "seitan", "beans"}},
	{Ingredient: "pasta", Candidates: []string{"zucchini noodles", "spaghetti squash", "rice"}},
	{Ingredient: "rice", Candidates: []string{"quinoa", "cauliflower rice", "couscous"}},
	{Ingredient: "bread", Candidates: []string{"lettuce wraps", "tortillas", "collard greens"}},
}

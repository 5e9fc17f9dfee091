package corpus

import (
	"strconv"
	"strings"
)

// 本地食材搜尋的筆數限制
const (
	DefaultIngredientLimit = 10
	MaxIngredientLimit     = 50
)

// Ingredient 食材搜尋結果
type Ingredient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
}

// SearchIngredients 在常見食材清單中搜尋，前綴符合的排在前面
func SearchIngredients(query string, limit int) []Ingredient {
	if limit <= 0 {
		limit = DefaultIngredientLimit
	}
	if limit > MaxIngredientLimit {
		limit = MaxIngredientLimit
	}
	query = strings.ToLower(strings.TrimSpace(query))

	var prefix, contains []string
	for _, name := range commonIngredients {
		switch {
		case strings.HasPrefix(name, query):
			prefix = append(prefix, name)
		case strings.Contains(name, query):
			contains = append(contains, name)
		}
	}

	names := append(prefix, contains...)
	if len(names) > limit {
		names = names[:limit]
	}
	results := make([]Ingredient, len(names))
	for i, name := range names {
		results[i] = Ingredient{ID: strconv.Itoa(i), Name: name, Category: "General"}
	}
	return results
}

var commonIngredients = []string{
	"chicken", "beef", "pork", "lamb", "turkey", "duck", "bacon", "ham", "sausage", "hot dog",
	"salmon", "tuna", "cod", "shrimp", "crab", "lobster", "mussels", "clams", "tilapia", "mackerel",
	"eggs", "tofu", "tempeh", "seitan", "chickpeas", "lentils", "black beans", "kidney beans",
	"pinto beans", "navy beans", "milk", "cheese", "cheddar", "mozzarella", "parmesan", "feta",
	"cream cheese", "cottage cheese", "yogurt", "sour cream", "butter", "margarine", "heavy cream",
	"half and half", "buttermilk", "almond milk", "soy milk", "oat milk", "coconut milk", "olive oil",
	"vegetable oil", "canola oil", "coconut oil", "sesame oil", "avocado oil", "ghee", "lard",
	"onion", "garlic", "ginger", "shallot", "leek", "scallion", "chive", "tomato", "cherry tomato",
	"sun-dried tomato", "tomato paste", "tomato sauce", "potato", "sweet potato", "yam",
	"russet potato", "red potato", "fingerling potato", "carrot", "celery", "bell pepper", "jalapeño",
	"habanero", "poblano", "anaheim pepper", "broccoli", "cauliflower", "brussels sprouts", "cabbage",
	"red cabbage", "sauerkraut", "spinach", "kale", "lettuce", "romaine", "iceberg lettuce",
	"arugula", "watercress", "mushroom", "button mushroom", "portobello", "shiitake",
	"oyster mushroom", "cremini", "cucumber", "zucchini", "yellow squash", "eggplant", "asparagus",
	"artichoke", "corn", "peas", "green beans", "wax beans", "snow peas", "sugar snap peas", "beet",
	"turnip", "radish", "daikon", "parsnip", "rutabaga", "pumpkin", "butternut squash",
	"acorn squash", "spaghetti squash", "rice", "white rice", "brown rice", "basmati rice",
	"jasmine rice", "wild rice", "arborio rice", "pasta", "spaghetti", "penne", "rigatoni",
	"fettuccine", "linguine", "lasagna", "macaroni", "bread", "white bread", "whole wheat bread",
	"sourdough", "rye bread", "pita bread", "tortilla", "flour", "all-purpose flour",
	"whole wheat flour", "bread flour", "cake flour", "almond flour", "coconut flour", "quinoa",
	"couscous", "bulgur", "farro", "barley", "oats", "oatmeal", "steel cut oats", "apple", "banana",
	"orange", "lemon", "lime", "grapefruit", "tangerine", "clementine", "strawberry", "blueberry",
	"raspberry", "blackberry", "cranberry", "gooseberry", "grape", "raisin", "prune", "date", "fig",
	"apricot", "peach", "nectarine", "plum", "pineapple", "mango", "papaya", "kiwi", "dragon fruit",
	"passion fruit", "avocado", "coconut", "pomegranate", "persimmon", "guava", "lychee", "pear",
	"quince", "cherry", "olive", "capers", "almond", "walnut", "pecan", "cashew", "pistachio",
	"macadamia", "hazelnut", "pine nut", "peanut", "peanut butter", "almond butter", "cashew butter",
	"sunflower seed", "pumpkin seed", "chia seed", "flax seed", "sesame seed", "poppy seed",
	"hemp seed", "sugar", "brown sugar", "powdered sugar", "honey", "maple syrup", "agave nectar",
	"stevia", "molasses", "corn syrup", "simple syrup", "confectioners sugar", "salt", "pepper",
	"black pepper", "white pepper", "cayenne pepper", "red pepper flakes", "vinegar", "white vinegar",
	"apple cider vinegar", "balsamic vinegar", "red wine vinegar", "rice vinegar", "soy sauce",
	"tamari", "fish sauce", "oyster sauce", "hoisin sauce", "sriracha", "hot sauce", "ketchup",
	"mustard", "dijon mustard", "yellow mustard", "whole grain mustard", "mayonnaise", "aioli",
	"ranch dressing", "blue cheese dressing", "vinaigrette", "worcestershire sauce", "tabasco",
	"chili sauce", "barbecue sauce", "teriyaki sauce", "basil", "oregano", "thyme", "rosemary",
	"sage", "marjoram", "bay leaf", "tarragon", "parsley", "cilantro", "dill", "mint", "green onion",
	"cumin", "coriander", "cardamom", "cinnamon", "nutmeg", "allspice", "clove", "turmeric",
	"curry powder", "garam masala", "paprika", "smoked paprika", "chili powder", "onion powder",
	"garlic powder", "celery salt", "seasoning salt", "cajun seasoning", "baking soda",
	"baking powder", "yeast", "active dry yeast", "instant yeast", "vanilla extract",
	"almond extract", "lemon extract", "orange extract", "cocoa powder", "chocolate chips",
	"dark chocolate", "milk chocolate", "white chocolate", "cornstarch", "arrowroot", "gelatin",
	"agar agar", "xanthan gum", "canned tomato", "canned beans", "canned corn", "canned tuna",
	"canned salmon", "pickles", "pickled jalapeños", "olives", "sun-dried tomatoes", "jam", "jelly",
	"preserves", "marmalade", "fruit preserves", "chicken broth", "beef broth", "vegetable broth",
	"fish stock", "mushroom broth", "breadcrumbs", "panko", "crackers", "chips", "popcorn", "cereal",
	"granola", "noodles", "ramen", "udon", "soba", "rice noodles", "egg noodles", "salsa",
	"guacamole", "hummus", "tzatziki", "pesto", "chimichurri", "cream of mushroom soup",
	"cream of chicken soup", "tomato soup", "bacon bits", "croutons", "sunflower seeds",
	"pumpkin seeds", "dried fruit", "raisins", "cranberries", "apricots", "prunes", "dates",
	"coconut flakes", "shredded coconut", "coconut cream",
}

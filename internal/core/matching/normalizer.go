package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// 數量加單位，例如 "2 cups"、"1/2 tsp"、"1.5kg"、"½ cup"
	quantityUnitPattern = regexp.MustCompile(`(?:\b\d+(?:[./]\d+)?|[½¼¾⅓⅔⅛])(?:\s*-\s*\d+(?:[./]\d+)?)?\s*(?:cups?|tbsps?|tsps?|oz|g|kg|lbs?|ml|l|pounds?|grams?|ounces?|teaspoons?|tablespoons?)\b`)

	// 單字以外的符號一律視為分隔
	separatorPattern = regexp.MustCompile(`[^\p{L}\p{N}\s'-]+`)

	numericTokenPattern = regexp.MustCompile(`^[\d./½¼¾⅓⅔⅛-]+$`)
)

var connectorWords = toSet(
	"of", "and", "or", "with", "to", "for", "in", "on", "at", "by", "from", "into", "during",
	"a", "an", "the", "some", "about", "plus", "as", "needed",
)

var preparationWords = toSet(
	"chopped", "diced", "minced", "sliced", "grated", "shredded", "crushed", "ground",
	"fresh", "dried", "frozen", "canned", "raw", "cooked", "roasted", "grilled", "fried",
	"baked", "steamed", "boiled", "finely", "roughly", "thinly", "freshly", "peeled",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Normalize 清理單一食材字串，移除數量、單位、連接詞與處理方式形容詞
// 對已正規化的字串再次處理結果不變
func Normalize(raw string) string {
	s := strings.ToLower(foldDiacritics(raw))
	s = quantityUnitPattern.ReplaceAllString(s, " ")
	s = separatorPattern.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		w = strings.Trim(w, "'-")
		if w == "" || numericTokenPattern.MatchString(w) {
			continue
		}
		if _, ok := connectorWords[w]; ok {
			continue
		}
		if _, ok := preparationWords[w]; ok {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// NormalizeAll 逐項正規化，結果為空字串者捨棄
func NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if n := Normalize(r); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// transform.Transformer 帶有狀態，每次呼叫重新建立
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

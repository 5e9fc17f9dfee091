package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultSimilarityThreshold 視為同一食材的相似度下限（嚴格大於）
const DefaultSimilarityThreshold = 0.7

// Similarity 計算兩個已正規化字串的相似度，範圍 [0,1]
// 逐一比較兩邊的單字，取最高的編輯距離相似度
func Similarity(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 {
		wordsA = []string{""}
	}
	if len(wordsB) == 0 {
		wordsB = []string{""}
	}

	best := 0.0
	for _, wa := range wordsA {
		for _, wb := range wordsB {
			if s := wordSimilarity(wa, wb); s > best {
				best = s
				if best == 1 {
					return best
				}
			}
		}
	}
	return best
}

func wordSimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return float64(longest-d) / float64(longest)
}

// Matcher 以相似度門檻判斷兩個食材是否相同
type Matcher struct {
	Threshold float64
}

// Similar 相似度是否超過門檻
func (m Matcher) Similar(a, b string) bool {
	return Similarity(a, b) > m.Threshold
}

// AnySimilar 清單中是否有任一項與 s 相似
func (m Matcher) AnySimilar(s string, list []string) bool {
	for _, v := range list {
		if m.Similar(s, v) {
			return true
		}
	}
	return false
}

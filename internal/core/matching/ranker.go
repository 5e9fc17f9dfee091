package matching

import (
	"sort"

	"recipe-matcher/internal/pkg/common"
)

// Ranker 依模式排序並過濾配對結果
type Ranker struct {
	normalThreshold float64
	looseThreshold  float64
	surpriseMin     float64
	surpriseMax     float64
	rnd             Random
}

// NewRanker 創建排序器
func NewRanker(cfg Config, rnd Random) *Ranker {
	return &Ranker{
		normalThreshold: cfg.NormalThreshold,
		looseThreshold:  cfg.LooseThreshold,
		surpriseMin:     cfg.SurpriseMin,
		surpriseMax:     cfg.SurpriseMax,
		rnd:             rnd,
	}
}

// Rank 分數由高到低排序後套用模式規則，不修改輸入
// 分數不大於 0 的配對在所有模式下都會被排除，surprise 模式也是先排除再擾動，
// 因此沒有任何共同食材的食譜（包含沒有食材的食譜）不會被隨機倍數帶回結果
func (r *Ranker) Rank(matches []common.RecipeMatch, mode common.Mode) []common.RecipeMatch {
	out := make([]common.RecipeMatch, 0, len(matches))
	for _, m := range matches {
		if m.MatchScore > 0 {
			out = append(out, m)
		}
	}
	sortByScore(out)

	switch mode {
	case common.ModeNormal:
		return keepAtLeast(out, r.normalThreshold)
	case common.ModeLoose:
		return keepAtLeast(out, r.looseThreshold)
	case common.ModeSurprise:
		return r.perturb(out)
	}
	return out
}

// 分數乘上 [surpriseMin, surpriseMax) 的隨機倍數後重新排序，上限維持 1.0
func (r *Ranker) perturb(matches []common.RecipeMatch) []common.RecipeMatch {
	span := r.surpriseMax - r.surpriseMin
	for i := range matches {
		factor := r.surpriseMin + r.rnd.Float64()*span
		matches[i].MatchScore = min(1.0, matches[i].MatchScore*factor)
	}
	sortByScore(matches)
	return matches
}

func keepAtLeast(matches []common.RecipeMatch, threshold float64) []common.RecipeMatch {
	kept := matches[:0]
	for _, m := range matches {
		if m.MatchScore >= threshold {
			kept = append(kept, m)
		}
	}
	return kept
}

// 同分時保留原本順序
func sortByScore(matches []common.RecipeMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
}

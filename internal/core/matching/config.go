package matching

import "fmt"

// Weights 各項加分的權重
type Weights struct {
	Compatibility float64
	Substitution  float64
	Preference    float64
	Cuisine       float64
}

// Config 配對引擎參數
type Config struct {
	SimilarityThreshold float64
	NormalThreshold     float64
	LooseThreshold      float64
	SurpriseMin         float64
	SurpriseMax         float64
	// 規則策略：normal 放寬時允許缺少的數量，loose 允許缺少的上限
	RelaxedNormal   bool
	RelaxedMissing  int
	LooseMaxMissing int
	Weights         Weights
}

// DefaultConfig 預設參數
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		NormalThreshold:     0.6,
		LooseThreshold:      0.3,
		SurpriseMin:         0.7,
		SurpriseMax:         1.3,
		RelaxedMissing:      1,
		LooseMaxMissing:     3,
		Weights: Weights{
			Compatibility: 0.2,
			Substitution:  0.15,
			Preference:    0.25,
			Cuisine:       0.1,
		},
	}
}

// Validate 檢查參數範圍
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"similarity_threshold": c.SimilarityThreshold,
		"normal_threshold":     c.NormalThreshold,
		"loose_threshold":      c.LooseThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	if c.SurpriseMin < 0 || c.SurpriseMin > c.SurpriseMax {
		return fmt.Errorf("surprise range [%v,%v) is invalid", c.SurpriseMin, c.SurpriseMax)
	}
	if c.RelaxedMissing < 0 || c.LooseMaxMissing < 0 {
		return fmt.Errorf("missing ingredient limits must not be negative")
	}
	return nil
}

func (c Config) matcher() Matcher {
	return Matcher{Threshold: c.SimilarityThreshold}
}

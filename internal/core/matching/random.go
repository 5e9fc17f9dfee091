package matching

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Random surprise 模式使用的亂數來源，*rand.Rand 即符合
type Random interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRandom 以種子建立亂數來源，seed 為 0 時以當下時間為種子
// 回傳的來源可在多個請求間共用
func NewRandom(seed uint64) Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRandom{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type lockedRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRandom) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRandom) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

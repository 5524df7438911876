package heuristic

import (
	"math"
	"sync"
)

// Process-wide precomputed tables, pure functions of array index.
// xlog2Table[n] = n·log₂n feeds the entropy sum; costTable[n] is the
// monotone remaining-cost estimator E(n) for the expected-cost mode:
// E(0)=E(1)=0, E(2)=1, E(n)=1.5·log₂n for n≥3.
var (
	tablesOnce sync.Once
	xlog2Table []float64
	costTable  []float64
)

// InitTables sizes the tables for bucket sizes up to maxBucket. First call
// wins; the tables are read-only afterwards.
func InitTables(maxBucket int) {
	tablesOnce.Do(func() {
		if maxBucket < 3 {
			maxBucket = 3
		}
		xlog2Table = make([]float64, maxBucket+1)
		costTable = make([]float64, maxBucket+1)
		for n := 2; n <= maxBucket; n++ {
			xlog2Table[n] = float64(n) * math.Log2(float64(n))
		}
		costTable[2] = 1
		for n := 3; n <= maxBucket; n++ {
			costTable[n] = 1.5 * math.Log2(float64(n))
		}
	})
}

func xlog2(n int) float64 {
	if n < len(xlog2Table) {
		return xlog2Table[n]
	}
	return float64(n) * math.Log2(float64(n))
}

func expectedCost(n int) float64 {
	if n < len(costTable) {
		return costTable[n]
	}
	return 1.5 * math.Log2(float64(n))
}

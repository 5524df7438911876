package heuristic

import (
	"fmt"
	"math"

	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/state"
)

// Mode selects the scoring function the builder orders guesses by.
type Mode int

const (
	// ModeEntropy maximizes Shannon information of the bucket distribution.
	ModeEntropy Mode = iota
	// ModeMinExpected minimizes 1 + Σ (n_p/N)·E(n_p), the estimated
	// expected number of remaining guesses.
	ModeMinExpected
)

// ParseMode maps the CLI spelling to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "entropy":
		return ModeEntropy, nil
	case "min_expected":
		return ModeMinExpected, nil
	}
	return 0, fmt.Errorf("unknown heuristic %q (want entropy or min_expected)", s)
}

func (m Mode) String() string {
	if m == ModeMinExpected {
		return "min_expected"
	}
	return "entropy"
}

// Maximize reports whether higher scores are better under this mode.
func (m Mode) Maximize() bool { return m == ModeEntropy }

// Result is one guess's evaluation over a candidate set.
type Result struct {
	Score     float64
	MaxBucket int
}

// Evaluate buckets the candidate set by the guess's feedback row and
// returns the mode's score together with the largest bucket size.
// The histogram streams row P[g,*], testing one bit per live secret.
func Evaluate(c *state.CandidateSet, guessIdx int, t *pattern.Table, mode Mode) Result {
	var counts [pattern.Codes]int
	row := t.Row(guessIdx)

	n := 0
	c.ForEach(func(s int) {
		counts[row[s]]++
		n++
	})
	if n == 0 {
		return Result{}
	}

	maxBucket := 0
	total := float64(n)

	var score float64
	switch mode {
	case ModeEntropy:
		// H = log₂N − (1/N)·Σ n_p·log₂n_p, with n·log₂n from the table.
		sum := 0.0
		for _, cnt := range counts {
			if cnt == 0 {
				continue
			}
			sum += xlog2(cnt)
			if cnt > maxBucket {
				maxBucket = cnt
			}
		}
		score = math.Log2(total) - sum/total
	case ModeMinExpected:
		cost := 1.0
		for _, cnt := range counts {
			if cnt == 0 {
				continue
			}
			cost += float64(cnt) / total * expectedCost(cnt)
			if cnt > maxBucket {
				maxBucket = cnt
			}
		}
		score = cost
	}

	return Result{Score: score, MaxBucket: maxBucket}
}

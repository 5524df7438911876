package heuristic

import (
	"math"
	"testing"

	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/state"
)

var testSecrets = []string{
	"abbey", "apple", "crane", "dwell", "eagle",
	"flint", "grape", "house", "pearl", "spell",
}

var testGuesses = []string{
	"abbey", "apple", "crane", "dwell", "eagle",
	"flint", "grape", "house", "pearl", "salet", "spell", "trace",
}

func fullSet(n int) *state.CandidateSet {
	s := state.New(n)
	for i := 0; i < n; i++ {
		s.Set(i)
	}
	return s
}

// referenceEntropy recomputes the score with a plain scalar loop, no
// precomputed tables, as an independent check of Evaluate.
func referenceEntropy(c *state.CandidateSet, guess int, t *pattern.Table) (float64, int) {
	counts := make(map[uint8]int)
	n := 0
	c.ForEach(func(s int) {
		counts[t.At(guess, s)]++
		n++
	})
	entropy := 0.0
	maxBucket := 0
	for _, cnt := range counts {
		p := float64(cnt) / float64(n)
		entropy -= p * math.Log2(p)
		if cnt > maxBucket {
			maxBucket = cnt
		}
	}
	return entropy, maxBucket
}

func TestEvaluate_EntropyMatchesScalarReference(t *testing.T) {
	InitTables(len(testSecrets))
	table := pattern.Generate(testGuesses, testSecrets)
	c := fullSet(len(testSecrets))

	for g := range testGuesses {
		got := Evaluate(c, g, table, ModeEntropy)
		wantScore, wantMax := referenceEntropy(c, g, table)

		if math.Abs(got.Score-wantScore) > 1e-9 {
			t.Errorf("entropy(%q) = %.12f, reference %.12f", testGuesses[g], got.Score, wantScore)
		}
		if got.MaxBucket != wantMax {
			t.Errorf("maxBucket(%q) = %d, reference %d", testGuesses[g], got.MaxBucket, wantMax)
		}
	}
}

func TestEvaluate_SubsetCandidates(t *testing.T) {
	InitTables(len(testSecrets))
	table := pattern.Generate(testGuesses, testSecrets)

	c := state.New(len(testSecrets))
	for _, i := range []int{1, 4, 6, 9} {
		c.Set(i)
	}

	for g := range testGuesses {
		got := Evaluate(c, g, table, ModeEntropy)
		wantScore, wantMax := referenceEntropy(c, g, table)
		if math.Abs(got.Score-wantScore) > 1e-9 {
			t.Errorf("subset entropy(%q) = %.12f, reference %.12f", testGuesses[g], got.Score, wantScore)
		}
		if got.MaxBucket != wantMax {
			t.Errorf("subset maxBucket(%q) = %d, reference %d", testGuesses[g], got.MaxBucket, wantMax)
		}
	}
}

func TestEvaluate_MinExpected(t *testing.T) {
	InitTables(len(testSecrets))
	table := pattern.Generate(testGuesses, testSecrets)
	c := fullSet(len(testSecrets))

	for g := range testGuesses {
		got := Evaluate(c, g, table, ModeMinExpected)

		// Recompute with the spec's schedule: E(0)=E(1)=0, E(2)=1,
		// E(n)=1.5·log₂n for n≥3.
		counts := make(map[uint8]int)
		n := 0
		c.ForEach(func(s int) {
			counts[table.At(g, s)]++
			n++
		})
		want := 1.0
		for _, cnt := range counts {
			var e float64
			switch {
			case cnt <= 1:
				e = 0
			case cnt == 2:
				e = 1
			default:
				e = 1.5 * math.Log2(float64(cnt))
			}
			want += float64(cnt) / float64(n) * e
		}

		if math.Abs(got.Score-want) > 1e-9 {
			t.Errorf("minExpected(%q) = %.12f, reference %.12f", testGuesses[g], got.Score, want)
		}
		if got.Score < 1.0 {
			t.Errorf("minExpected(%q) = %.4f below the 1-guess floor", testGuesses[g], got.Score)
		}
	}
}

func TestExpectedCost_Monotone(t *testing.T) {
	InitTables(4096)
	prev := expectedCost(0)
	for n := 1; n <= 4096; n++ {
		cur := expectedCost(n)
		if cur < prev {
			t.Fatalf("E(%d) = %.6f < E(%d) = %.6f; estimator must be monotone", n, cur, n-1, prev)
		}
		prev = cur
	}
	if expectedCost(0) != 0 || expectedCost(1) != 0 {
		t.Error("E(0) and E(1) must be 0")
	}
	if expectedCost(2) != 1 {
		t.Error("E(2) must be 1")
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("entropy"); err != nil || m != ModeEntropy {
		t.Errorf("ParseMode(entropy) = %v, %v", m, err)
	}
	if m, err := ParseMode("min_expected"); err != nil || m != ModeMinExpected {
		t.Errorf("ParseMode(min_expected) = %v, %v", m, err)
	}
	if _, err := ParseMode("greedy"); err == nil {
		t.Error("ParseMode accepted an unknown mode")
	}
}

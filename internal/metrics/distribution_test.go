package metrics

import "testing"

func TestGuessDistribution(t *testing.T) {
	// 1×1, 3×2, 4×3, 2×4 guesses: mean (1+6+12+8)/10 = 2.7, max 4.
	depths := []int{1, 2, 2, 2, 3, 3, 3, 3, 4, 4}
	d := GuessDistribution(depths)

	wantCounts := []int{1, 3, 4, 2}
	if len(d.Counts) != len(wantCounts) {
		t.Fatalf("counts = %v, want %v", d.Counts, wantCounts)
	}
	for i := range wantCounts {
		if d.Counts[i] != wantCounts[i] {
			t.Errorf("counts[%d] = %d, want %d", i, d.Counts[i], wantCounts[i])
		}
	}
	if d.Mean != 2.7 {
		t.Errorf("mean = %v, want 2.7", d.Mean)
	}
	if d.Max != 4 {
		t.Errorf("max = %d, want 4", d.Max)
	}
	// 95th percentile of ten games lands in the 4-guess bucket.
	if d.P95 != 4 {
		t.Errorf("p95 = %d, want 4", d.P95)
	}
}

func TestGuessDistribution_Empty(t *testing.T) {
	d := GuessDistribution(nil)
	if len(d.Counts) != 0 || d.Mean != 0 || d.Max != 0 {
		t.Errorf("empty distribution = %+v", d)
	}
}

package metrics

import "github.com/rawblock/wordle-engine/pkg/models"

// GuessDistribution summarizes a set of per-game guess counts into the
// histogram the verifier and benchmark reports attach. Counts[i] is the
// number of games solved in i+1 guesses.
func GuessDistribution(depths []int) *models.Distribution {
	if len(depths) == 0 {
		return &models.Distribution{Counts: []int{}}
	}

	max := 0
	for _, d := range depths {
		if d > max {
			max = d
		}
	}

	counts := make([]int, max)
	total := 0
	for _, d := range depths {
		if d >= 1 {
			counts[d-1]++
			total += d
		}
	}

	return &models.Distribution{
		Counts: counts,
		Mean:   float64(total) / float64(len(depths)),
		P95:    percentile(counts, len(depths), 0.95),
		Max:    max,
	}
}

// percentile walks the histogram until the cumulative share reaches q.
func percentile(counts []int, total int, q float64) int {
	if total == 0 {
		return 0
	}
	threshold := int(q*float64(total) + 0.5)
	cum := 0
	for i, c := range counts {
		cum += c
		if cum >= threshold {
			return i + 1
		}
	}
	return len(counts)
}

package verify

import (
	"fmt"
	"log"

	"github.com/rawblock/wordle-engine/internal/builder"
	"github.com/rawblock/wordle-engine/internal/metrics"
	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/words"
	"github.com/rawblock/wordle-engine/pkg/models"
)

// Report summarizes a full replay of a tree against every secret.
type Report struct {
	Secrets      int
	MaxDepth     int
	TotalGuesses int64
	AvgGuesses   float64
	Distribution *models.Distribution
	Failures     []string
}

// Tree replays the in-memory tree against every secret: walk from the
// root, compute the feedback for the node's guess, stop on all-green,
// otherwise follow the matching edge. Any missing edge or path longer
// than six guesses is a verification failure.
func Tree(root *builder.Node, list *words.List) (*Report, error) {
	if root == nil {
		return nil, fmt.Errorf("nil tree root")
	}

	secrets := list.Secrets()
	guesses := list.Guesses()
	log.Printf("[Verify] Replaying tree against %d secrets", len(secrets))

	packedGuesses := make([]pattern.Packed, len(guesses))
	for i, g := range guesses {
		packedGuesses[i] = pattern.Pack(g)
	}

	rep := &Report{Secrets: len(secrets)}
	depths := make([]int, 0, len(secrets))

	for _, secret := range secrets {
		target := pattern.Pack(secret)
		node := root
		depth := 0
		solved := false
		failed := false

		for node != nil {
			depth++
			p := pattern.Calc(packedGuesses[node.GuessIndex], target)
			if p == pattern.AllGreen {
				solved = true
				break
			}
			if depth >= 6 {
				rep.Failures = append(rep.Failures,
					fmt.Sprintf("%s: depth limit exceeded (last guess %s)", secret, guesses[node.GuessIndex]))
				failed = true
				break
			}
			next := node.Children[p]
			if next == nil {
				rep.Failures = append(rep.Failures,
					fmt.Sprintf("%s: no edge for pattern %s after guess %s", secret, pattern.String(p), guesses[node.GuessIndex]))
				failed = true
				break
			}
			node = next
		}

		if !solved && !failed {
			rep.Failures = append(rep.Failures, fmt.Sprintf("%s: replay did not terminate", secret))
		}
		if depth > rep.MaxDepth {
			rep.MaxDepth = depth
		}
		rep.TotalGuesses += int64(depth)
		depths = append(depths, depth)
	}

	if len(secrets) > 0 {
		rep.AvgGuesses = float64(rep.TotalGuesses) / float64(len(secrets))
	}
	rep.Distribution = metrics.GuessDistribution(depths)

	if len(rep.Failures) > 0 {
		for _, f := range rep.Failures {
			log.Printf("[Verify] FAIL %s", f)
		}
		return rep, fmt.Errorf("verification failed for %d of %d secrets", len(rep.Failures), len(secrets))
	}

	log.Printf("[Verify] Passed. Max depth: %d, average guesses: %.4f", rep.MaxDepth, rep.AvgGuesses)
	return rep, nil
}

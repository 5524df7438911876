package player

import (
	"fmt"
	"log"
	"time"

	"github.com/rawblock/wordle-engine/internal/metrics"
	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/treefile"
	"github.com/rawblock/wordle-engine/internal/words"
	"github.com/rawblock/wordle-engine/pkg/models"
)

// Player replays a loaded serialized tree. It is the runtime half of the
// system: the builder produces the tree offline, the player consumes it
// against a target word, interactive feedback, or the whole secret list.
type Player struct {
	tree          *treefile.Tree
	list          *words.List
	packedGuesses []pattern.Packed
}

// Step is one guess of a replayed game.
type Step struct {
	Guess   string
	Pattern uint8
}

// New binds a tree to a word list. A checksum mismatch means the lists
// may differ from the ones the tree was built against; the tree can still
// function if they are compatible, so this is a warning, not an error.
func New(tree *treefile.Tree, list *words.List) *Player {
	if tree.Checksum != list.Checksum() {
		log.Printf("[Player] Warning: checksum mismatch (tree %016x, word list %016x), word lists may differ",
			tree.Checksum, list.Checksum())
	}
	packed := make([]pattern.Packed, len(list.Guesses()))
	for i, g := range list.Guesses() {
		packed[i] = pattern.Pack(g)
	}
	return &Player{tree: tree, list: list, packedGuesses: packed}
}

// Info describes the loaded tree.
func (p *Player) Info() models.TreeInfo {
	root := p.tree.Node(p.tree.Root)
	return models.TreeInfo{
		NumNodes:  p.tree.NumNodes(),
		RootGuess: p.list.Guesses()[root.GuessIndex],
		Checksum:  fmt.Sprintf("%016x", p.tree.Checksum),
	}
}

// Replay plays the tree against a known target word and returns the
// guess/feedback sequence.
func (p *Player) Replay(secret string) ([]Step, error) {
	if len(secret) != 5 {
		return nil, fmt.Errorf("target word must be 5 characters, got %q", secret)
	}
	target := pattern.Pack(secret)

	var steps []Step
	node := p.tree.Root
	for {
		rec := p.tree.Node(node)
		fb := pattern.Calc(p.packedGuesses[rec.GuessIndex], target)
		steps = append(steps, Step{Guess: p.list.Guesses()[rec.GuessIndex], Pattern: fb})

		if fb == pattern.AllGreen {
			return steps, nil
		}
		if len(steps) >= 6 {
			return steps, fmt.Errorf("%q not solved within 6 guesses, is it in the secret list?", secret)
		}
		next, ok := p.tree.Child(node, fb)
		if !ok {
			return steps, fmt.Errorf("no edge for pattern %s after %q", pattern.String(fb), p.list.Guesses()[rec.GuessIndex])
		}
		node = next
	}
}

// Suggest walks the tree along a feedback history and returns the next
// guess. An all-green final pattern reports the game as solved.
func (p *Player) Suggest(patterns []uint8) (models.SuggestResponse, error) {
	node := p.tree.Root
	for i, fb := range patterns {
		if fb == pattern.AllGreen {
			rec := p.tree.Node(node)
			return models.SuggestResponse{
				Guess:  p.list.Guesses()[rec.GuessIndex],
				Solved: true,
				Depth:  i + 1,
			}, nil
		}
		next, ok := p.tree.Child(node, fb)
		if !ok {
			return models.SuggestResponse{}, fmt.Errorf("impossible pattern %s at turn %d", pattern.String(fb), i+1)
		}
		node = next
	}
	rec := p.tree.Node(node)
	return models.SuggestResponse{
		Guess: p.list.Guesses()[rec.GuessIndex],
		Depth: len(patterns) + 1,
	}, nil
}

// Benchmark replays every secret and aggregates the results.
func (p *Player) Benchmark() (*models.BenchmarkResult, error) {
	secrets := p.list.Secrets()
	start := time.Now()

	var total int64
	maxDepth := 0
	depths := make([]int, 0, len(secrets))

	for _, secret := range secrets {
		steps, err := p.Replay(secret)
		if err != nil {
			return nil, fmt.Errorf("benchmark: %w", err)
		}
		d := len(steps)
		total += int64(d)
		if d > maxDepth {
			maxDepth = d
		}
		depths = append(depths, d)
	}

	res := &models.BenchmarkResult{
		Secrets:      len(secrets),
		TotalGuesses: total,
		MaxDepth:     maxDepth,
		DurationUs:   time.Since(start).Microseconds(),
		Distribution: metrics.GuessDistribution(depths),
	}
	if len(secrets) > 0 {
		res.AvgGuesses = float64(total) / float64(len(secrets))
	}
	return res, nil
}

package builder

import (
	"fmt"
	"log"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/rawblock/wordle-engine/internal/heuristic"
	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/state"
	"github.com/rawblock/wordle-engine/internal/words"
)

// maxTurns is the game's guess budget; no root-to-leaf path may exceed it.
const maxTurns = 6

// parallelScoreThreshold is the admissible-guess count above which one
// solve invocation fans scoring out to worker goroutines.
const parallelScoreThreshold = 100

// beamWidths is the widening schedule: greedy top-K almost always succeeds
// at small K, and the final unbounded pass preserves completeness.
var beamWidths = [3]int{5, 50, math.MaxInt}

// Node is an in-memory decision-tree node. During search nodes form a DAG
// because the memoization cache shares identical subtrees; serialization
// gives each distinct node one index, so shared subtrees stay shared.
type Node struct {
	GuessIndex uint16
	IsLeaf     bool
	Children   [pattern.Codes]*Node
}

// Config is the builder's immutable configuration.
type Config struct {
	Words     *words.List
	Table     *pattern.Table
	StartWord string
	Mode      heuristic.Mode

	// Progress, when non-nil, is invoked periodically from the driver
	// goroutine with the number of solved sets and memo-cache entries.
	Progress func(solved, cached int64)
}

// Builder owns the recursion state for one tree build. A Builder is used
// from a single driver goroutine; only the scoring fan-out inside one
// solve invocation is parallel, and it never touches the cache.
type Builder struct {
	words     *words.List
	table     *pattern.Table
	startWord string
	mode      heuristic.Mode
	progress  func(solved, cached int64)

	secretToGuess []int
	guessMasks    []uint32
	secretMasks   []uint32

	cache        map[uint64][]cacheEntry
	cacheEntries int64
	solved       int64
}

// cacheEntry chains hash collisions; lookups confirm with a structural
// equality check so the candidate set itself is the effective key.
type cacheEntry struct {
	key  *state.CandidateSet
	node *Node
}

type scoredGuess struct {
	index     int
	score     float64
	maxBucket int
}

// New validates the configuration and precomputes the secret→guess index
// map and per-word letter masks. Every secret must exist verbatim in the
// guess list; a miss is a hard input-integrity failure.
func New(cfg Config) (*Builder, error) {
	secrets := cfg.Words.Secrets()
	guesses := cfg.Words.Guesses()

	if cfg.StartWord != "" {
		if _, ok := cfg.Words.GuessIndex(cfg.StartWord); !ok {
			return nil, fmt.Errorf("start word %q not found in guess list", cfg.StartWord)
		}
	}

	b := &Builder{
		words:         cfg.Words,
		table:         cfg.Table,
		startWord:     cfg.StartWord,
		mode:          cfg.Mode,
		progress:      cfg.Progress,
		secretToGuess: make([]int, len(secrets)),
		guessMasks:    make([]uint32, len(guesses)),
		secretMasks:   make([]uint32, len(secrets)),
		cache:         make(map[uint64][]cacheEntry),
	}

	for i, s := range secrets {
		gi, ok := cfg.Words.GuessIndex(s)
		if !ok {
			return nil, fmt.Errorf("secret %q not present in guess list", s)
		}
		b.secretToGuess[i] = gi
		b.secretMasks[i] = letterMask(s)
	}
	for i, g := range guesses {
		b.guessMasks[i] = letterMask(g)
	}

	heuristic.InitTables(len(secrets))
	return b, nil
}

func letterMask(w string) uint32 {
	var mask uint32
	for i := 0; i < len(w); i++ {
		mask |= 1 << (w[i] - 'a')
	}
	return mask
}

// Build runs the search from the full secret set. A nil error guarantees
// the returned root solves every secret within six guesses.
func (b *Builder) Build() (*Node, error) {
	n := len(b.words.Secrets())
	if n == 0 {
		return nil, fmt.Errorf("empty secret list")
	}
	all := state.New(n)
	for i := 0; i < n; i++ {
		all.Set(i)
	}
	root := b.solve(all, 0)
	if root == nil {
		return nil, fmt.Errorf("search infeasible: no tree solves all %d secrets within %d guesses", n, maxTurns)
	}
	return root, nil
}

// solve returns a node whose subtree solves every secret in c within
// 6−depth further guesses, or nil when the budget makes that infeasible.
func (b *Builder) solve(c *state.CandidateSet, depth int) *Node {
	count := c.Count()
	if count == 0 {
		return nil
	}

	if node := b.cacheGet(c); node != nil {
		return node
	}

	// A single live secret is guessed directly; leaves are not cached.
	if count == 1 {
		return &Node{
			GuessIndex: uint16(b.secretToGuess[c.First()]),
			IsLeaf:     true,
		}
	}

	if depth >= maxTurns {
		return nil
	}

	remaining := maxTurns - depth
	candidateGuesses := b.admissibleGuesses(c, depth, remaining)
	scored := b.scoreGuesses(c, candidateGuesses, depth, remaining)

	for _, width := range beamWidths {
		limit := len(scored)
		if width < limit {
			limit = width
		}
		for i := 0; i < limit; i++ {
			if node := b.tryGuess(c, count, scored[i].index, depth); node != nil {
				b.cachePut(c, node)
				b.solved++
				if b.progress != nil && b.solved&0xFF == 0 {
					b.progress(b.solved, b.cacheEntries)
				}
				return node
			}
		}
		if limit == len(scored) {
			break
		}
	}
	return nil
}

// admissibleGuesses enumerates the guesses worth scoring at this node.
// On the last turn only remaining secrets are admissible; otherwise every
// guess sharing at least one letter with a live secret qualifies. The
// letter-mask prune is disabled at the root so the forced start word is
// never eliminated.
func (b *Builder) admissibleGuesses(c *state.CandidateSet, depth, remaining int) []int {
	if remaining == 1 {
		out := make([]int, 0, c.Count())
		c.ForEach(func(s int) {
			out = append(out, b.secretToGuess[s])
		})
		return out
	}

	var activeMask uint32
	c.ForEach(func(s int) {
		activeMask |= b.secretMasks[s]
	})

	out := make([]int, 0, len(b.guessMasks))
	for g, mask := range b.guessMasks {
		if depth == 0 || mask&activeMask != 0 {
			out = append(out, g)
		}
	}
	return out
}

// scoreGuesses evaluates and orders the admissible guesses. At the root
// with a forced start word, scoring is bypassed entirely so builds are
// reproducible. Two context filters apply while collecting:
//
//	R=2: a guess whose max bucket exceeds 1 cannot distinguish every
//	     remaining secret on the final turn and is discarded.
//	R=3: a max bucket above 5 earns a fixed 10.0 demotion.
func (b *Builder) scoreGuesses(c *state.CandidateSet, candidates []int, depth, remaining int) []scoredGuess {
	if depth == 0 && b.startWord != "" {
		idx, _ := b.words.GuessIndex(b.startWord)
		return []scoredGuess{{index: idx, score: 0, maxBucket: 1}}
	}

	var scored []scoredGuess
	if len(candidates) <= parallelScoreThreshold {
		scored = b.scoreChunk(c, candidates, remaining)
	} else {
		workers := runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
		chunk := (len(candidates) + workers - 1) / workers
		results := make([][]scoredGuess, workers)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			start := w * chunk
			end := start + chunk
			if end > len(candidates) {
				end = len(candidates)
			}
			if start >= end {
				break
			}
			wg.Add(1)
			go func(slot int, part []int) {
				defer wg.Done()
				results[slot] = b.scoreChunk(c, part, remaining)
			}(w, candidates[start:end])
		}
		wg.Wait()

		for _, r := range results {
			scored = append(scored, r...)
		}
	}

	if b.mode.Maximize() {
		sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	} else {
		sort.Slice(scored, func(i, j int) bool { return scored[i].score < scored[j].score })
	}
	return scored
}

func (b *Builder) scoreChunk(c *state.CandidateSet, candidates []int, remaining int) []scoredGuess {
	out := make([]scoredGuess, 0, len(candidates))
	for _, g := range candidates {
		r := heuristic.Evaluate(c, g, b.table, b.mode)
		if remaining == 2 && r.MaxBucket > 1 {
			continue
		}
		score := r.Score
		if remaining == 3 && r.MaxBucket > 5 {
			// Demote: large buckets two turns from the deadline are
			// rarely completable, but beam widening still reaches them.
			if b.mode.Maximize() {
				score -= 10.0
			} else {
				score += 10.0
			}
		}
		out = append(out, scoredGuess{index: g, score: score, maxBucket: r.MaxBucket})
	}
	return out
}

// tryGuess buckets c by the guess's feedback row and recursively solves
// every non-terminal bucket. It returns nil as soon as any bucket is
// infeasible, or when the guess gains no information at all.
func (b *Builder) tryGuess(c *state.CandidateSet, count, guessIdx, depth int) *Node {
	var bins [pattern.Codes][]int
	row := b.table.Row(guessIdx)
	c.ForEach(func(s int) {
		p := row[s]
		bins[p] = append(bins[p], s)
	})

	node := &Node{GuessIndex: uint16(guessIdx)}
	for p := 0; p < pattern.Codes; p++ {
		bin := bins[p]
		if len(bin) == 0 {
			continue
		}
		if p != pattern.AllGreen && len(bin) == count {
			// The guess failed to split the set and did not solve it.
			return nil
		}
		if p == pattern.AllGreen {
			// The current guess is itself the solution for this branch.
			continue
		}
		next := state.New(c.Size())
		for _, s := range bin {
			next.Set(s)
		}
		child := b.solve(next, depth+1)
		if child == nil {
			return nil
		}
		node.Children[p] = child
	}
	return node
}

func (b *Builder) cacheGet(c *state.CandidateSet) *Node {
	for _, e := range b.cache[c.Hash()] {
		if e.key.Equal(c) {
			return e.node
		}
	}
	return nil
}

func (b *Builder) cachePut(c *state.CandidateSet, n *Node) {
	h := c.Hash()
	b.cache[h] = append(b.cache[h], cacheEntry{key: c, node: n})
	b.cacheEntries++
}

// CacheEntries reports the memo-cache population, for diagnostics.
func (b *Builder) CacheEntries() int64 { return b.cacheEntries }

// LogSummary prints a one-line build digest the way the CLIs expect it.
func (b *Builder) LogSummary(root *Node) {
	log.Printf("[Builder] Root guess: %s (cache: %d entries)",
		b.words.Guesses()[root.GuessIndex], b.cacheEntries)
}

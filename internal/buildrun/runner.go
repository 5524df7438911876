package buildrun

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rawblock/wordle-engine/internal/builder"
	"github.com/rawblock/wordle-engine/internal/db"
	"github.com/rawblock/wordle-engine/internal/heuristic"
	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/treefile"
	"github.com/rawblock/wordle-engine/internal/verify"
	"github.com/rawblock/wordle-engine/internal/words"
	"github.com/rawblock/wordle-engine/pkg/models"
)

// Runner executes tree builds on a background goroutine, exposing live
// progress to the API and broadcasting it to websocket subscribers.
// One build runs at a time; duplicate requests are rejected.
type Runner struct {
	list      *words.List
	table     *pattern.Table
	dbStore   *db.PostgresStore
	alertFunc func(progress models.BuildProgress) // optional broadcast callback

	isRunning    atomic.Bool
	solvedSets   atomic.Int64
	cacheEntries atomic.Int64
	startedAtMs  atomic.Int64

	runID atomic.Pointer[string]
}

func NewRunner(list *words.List, table *pattern.Table, dbStore *db.PostgresStore, alertFunc func(models.BuildProgress)) *Runner {
	return &Runner{
		list:      list,
		table:     table,
		dbStore:   dbStore,
		alertFunc: alertFunc,
	}
}

// Progress returns the current build state (thread-safe).
func (r *Runner) Progress() models.BuildProgress {
	p := models.BuildProgress{
		Running:      r.isRunning.Load(),
		SolvedSets:   r.solvedSets.Load(),
		CacheEntries: r.cacheEntries.Load(),
	}
	if id := r.runID.Load(); id != nil {
		p.RunID = *id
	}
	if started := r.startedAtMs.Load(); started > 0 {
		p.ElapsedMs = time.Now().UnixMilli() - started
	}
	return p
}

// Start launches a build asynchronously and returns its run ID. The
// request's heuristic and start word are validated synchronously so the
// caller gets an immediate error for bad input.
func (r *Runner) Start(_ context.Context, req models.BuildRequest) (string, error) {
	if !r.isRunning.CompareAndSwap(false, true) {
		return "", fmt.Errorf("a build is already in progress")
	}

	mode, err := heuristic.ParseMode(req.Heuristic)
	if err != nil {
		r.isRunning.Store(false)
		return "", err
	}
	startWord := req.StartWord
	if startWord == "" {
		startWord = "trace"
	}
	if _, ok := r.list.GuessIndex(startWord); !ok {
		r.isRunning.Store(false)
		return "", fmt.Errorf("start word %q not found in guess list", startWord)
	}

	runID := uuid.New().String()
	r.runID.Store(&runID)
	r.solvedSets.Store(0)
	r.cacheEntries.Store(0)
	r.startedAtMs.Store(time.Now().UnixMilli())

	// The build outlives the triggering HTTP request, so it gets its own
	// context rather than inheriting the request's cancellation.
	go func() {
		defer r.isRunning.Store(false)
		r.run(context.Background(), runID, startWord, mode, req)
	}()

	return runID, nil
}

func (r *Runner) run(ctx context.Context, runID, startWord string, mode heuristic.Mode, req models.BuildRequest) {
	log.Printf("[BuildRunner] Starting build %s (start word %q, heuristic %s)", runID, startWord, mode)
	started := time.Now()

	b, err := builder.New(builder.Config{
		Words:     r.list,
		Table:     r.table,
		StartWord: startWord,
		Mode:      mode,
		Progress: func(solved, cached int64) {
			r.solvedSets.Store(solved)
			r.cacheEntries.Store(cached)
			if r.alertFunc != nil {
				r.alertFunc(r.Progress())
			}
		},
	})
	if err != nil {
		log.Printf("[BuildRunner] Build %s rejected: %v", runID, err)
		return
	}

	root, err := b.Build()
	if err != nil {
		log.Printf("[BuildRunner] Build %s failed: %v", runID, err)
		return
	}

	rep, err := verify.Tree(root, r.list)
	if err != nil {
		log.Printf("[BuildRunner] Build %s verification failed: %v", runID, err)
		return
	}

	if req.Output != "" {
		if err := treefile.Write(req.Output, root, r.list.Checksum()); err != nil {
			log.Printf("[BuildRunner] Build %s write failed: %v", runID, err)
			return
		}
	}

	summary := models.BuildSummary{
		ID:         runID,
		StartWord:  startWord,
		Heuristic:  mode.String(),
		Checksum:   fmt.Sprintf("%016x", r.list.Checksum()),
		NumNodes:   countNodes(root),
		MaxDepth:   rep.MaxDepth,
		AvgGuesses: rep.AvgGuesses,
		DurationMs: time.Since(started).Milliseconds(),
	}
	log.Printf("[BuildRunner] Build %s done in %dms: max depth %d, avg %.4f",
		runID, summary.DurationMs, summary.MaxDepth, summary.AvgGuesses)

	if r.alertFunc != nil {
		r.alertFunc(r.Progress())
	}
	if r.dbStore != nil {
		if err := r.dbStore.SaveBuildRun(ctx, summary); err != nil {
			log.Printf("[BuildRunner] Warning: failed to persist build run: %v", err)
		}
	}
}

// countNodes walks the DAG counting distinct nodes, the same population
// the serializer would emit.
func countNodes(root *builder.Node) int {
	seen := map[*builder.Node]bool{root: true}
	queue := []*builder.Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for p := 0; p < pattern.Codes; p++ {
			if c := n.Children[p]; c != nil && !seen[c] {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}
	return len(seen)
}

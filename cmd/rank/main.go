package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/rawblock/wordle-engine/internal/heuristic"
	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/state"
	"github.com/rawblock/wordle-engine/internal/words"
	"gopkg.in/urfave/cli.v1"
)

// Ranks every admissible guess as an opener by its entropy over the full
// secret set. Useful for picking --start-word values worth building with.
func main() {
	app := cli.NewApp()
	app.Name = "wordle-rank"
	app.Usage = "rank opening guesses by first-turn entropy"
	app.ArgsUsage = "<solutions file> <guesses file>"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "top", Value: 100, Usage: "number of openers to print"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.NewExitError("usage: wordle-rank <solutions file> <guesses file> [--top N]", 1)
	}

	list, err := words.Load(c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	log.Println("[Rank] Generating pattern matrix...")
	table := pattern.Generate(list.Guesses(), list.Secrets())
	heuristic.InitTables(len(list.Secrets()))

	all := state.New(len(list.Secrets()))
	for i := range list.Secrets() {
		all.Set(i)
	}

	type scoredWord struct {
		word      string
		entropy   float64
		maxBucket int
	}

	log.Printf("[Rank] Ranking %d openers by entropy...", len(list.Guesses()))
	scored := make([]scoredWord, 0, len(list.Guesses()))
	for g, w := range list.Guesses() {
		r := heuristic.Evaluate(all, g, table, heuristic.ModeEntropy)
		scored = append(scored, scoredWord{word: w, entropy: r.Score, maxBucket: r.MaxBucket})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].entropy > scored[j].entropy })

	top := c.Int("top")
	if top > len(scored) {
		top = len(scored)
	}
	fmt.Printf("%-4s %-8s %-10s %s\n", "#", "word", "entropy", "max bucket")
	for i := 0; i < top; i++ {
		fmt.Printf("%-4d %-8s %-10.4f %d\n", i+1, scored[i].word, scored[i].entropy, scored[i].maxBucket)
	}
	return nil
}

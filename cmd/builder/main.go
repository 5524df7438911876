package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rawblock/wordle-engine/internal/builder"
	"github.com/rawblock/wordle-engine/internal/heuristic"
	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/treefile"
	"github.com/rawblock/wordle-engine/internal/verify"
	"github.com/rawblock/wordle-engine/internal/words"
	"gopkg.in/urfave/cli.v1"
)

func main() {
	app := cli.NewApp()
	app.Name = "wordle-builder"
	app.Usage = "precompute a complete decision tree for the five-letter word game"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "solutions", Usage: "path to the secrets word list"},
		cli.StringFlag{Name: "guesses", Usage: "path to the guesses word list (superset of solutions)"},
		cli.StringFlag{Name: "single-list", Usage: "use one file as both solutions and guesses"},
		cli.StringFlag{Name: "output", Usage: "path for the serialized tree"},
		cli.StringFlag{Name: "start-word", Value: "trace", Usage: "forced root guess"},
		cli.StringFlag{Name: "heuristic", Value: "entropy", Usage: "scoring mode: entropy or min_expected"},
		cli.BoolFlag{Name: "verify", Usage: "replay the tree against every secret after the build"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(c *cli.Context) error {
	sPath := c.String("solutions")
	gPath := c.String("guesses")
	if single := c.String("single-list"); single != "" {
		sPath, gPath = single, single
	}
	if sPath == "" || gPath == "" {
		return cli.NewExitError("either --solutions and --guesses or --single-list is required", 1)
	}

	mode, err := heuristic.ParseMode(c.String("heuristic"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	list, err := words.Load(sPath, gPath)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	log.Printf("[Builder] Loaded %d solutions, %d guesses (checksum %016x)",
		len(list.Secrets()), len(list.Guesses()), list.Checksum())

	log.Println("[Builder] Generating pattern matrix...")
	start := time.Now()
	table := pattern.Generate(list.Guesses(), list.Secrets())
	log.Printf("[Builder] Matrix ready in %v", time.Since(start).Round(time.Millisecond))

	b, err := builder.New(builder.Config{
		Words:     list,
		Table:     table,
		StartWord: c.String("start-word"),
		Mode:      mode,
		Progress: func(solved, cached int64) {
			log.Printf("[Builder] Progress: %d sets solved, %d cached", solved, cached)
		},
	})
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	log.Printf("[Builder] Building tree (start word %q, heuristic %s)...", c.String("start-word"), mode)
	start = time.Now()
	root, err := b.Build()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	log.Printf("[Builder] Build done in %v", time.Since(start).Round(time.Millisecond))
	b.LogSummary(root)

	// Verification runs before writing so a bad tree never reaches disk.
	if c.Bool("verify") {
		rep, err := verify.Tree(root, list)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("verification failed: %v", err), 1)
		}
		log.Printf("[Builder] Verified: max depth %d, average %.4f guesses", rep.MaxDepth, rep.AvgGuesses)
	}

	if out := c.String("output"); out != "" {
		if err := treefile.Write(out, root, list.Checksum()); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		log.Printf("[Builder] Wrote %s", out)
	}
	return nil
}

package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/player"
	"github.com/rawblock/wordle-engine/internal/treefile"
	"github.com/rawblock/wordle-engine/internal/words"
	"gopkg.in/urfave/cli.v1"
)

func main() {
	app := cli.NewApp()
	app.Name = "wordle-runner"
	app.Usage = "play a precomputed decision tree"
	app.ArgsUsage = "<tree file>"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "solutions", Value: "data/solutions.txt", Usage: "path to the secrets word list"},
		cli.StringFlag{Name: "guesses", Value: "data/guesses.txt", Usage: "path to the guesses word list"},
		cli.StringFlag{Name: "single-list", Usage: "use one file as both solutions and guesses"},
		cli.StringFlag{Name: "solve", Usage: "replay against this target word"},
		cli.BoolFlag{Name: "benchmark", Usage: "replay every secret and report totals"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("usage: wordle-runner <tree file> [--solve <word> | --benchmark]", 1)
	}
	treePath := c.Args().Get(0)

	sPath := c.String("solutions")
	gPath := c.String("guesses")
	if single := c.String("single-list"); single != "" {
		sPath, gPath = single, single
	}

	list, err := words.Load(sPath, gPath)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	tree, err := treefile.Load(treePath)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	p := player.New(tree, list)

	switch {
	case c.Bool("benchmark"):
		return benchmark(p, list)
	case c.String("solve") != "":
		return solveTarget(p, c.String("solve"))
	default:
		return interactive(p)
	}
}

func benchmark(p *player.Player, list *words.List) error {
	fmt.Printf("Benchmarking against all %d solutions...\n", len(list.Secrets()))
	res, err := p.Benchmark()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Printf("Solved %d games in %.3f ms\n", res.Secrets, float64(res.DurationUs)/1000.0)
	fmt.Printf("Average guesses: %.4f (max %d)\n", res.AvgGuesses, res.MaxDepth)
	for i, n := range res.Distribution.Counts {
		fmt.Printf("  %d guesses: %d\n", i+1, n)
	}
	return nil
}

func solveTarget(p *player.Player, target string) error {
	fmt.Printf("Solving for target: %s\n", target)
	steps, err := p.Replay(target)
	for i, s := range steps {
		fmt.Printf("Guess %d: %s (%s)\n", i+1, s.Guess, pattern.String(s.Pattern))
	}
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Printf("Solved in %d guesses!\n", len(steps))
	return nil
}

// interactive suggests guesses and reads five-letter GYB feedback lines
// until the game is solved or the input ends.
func interactive(p *player.Player) error {
	fmt.Println("Wordle solver ready.")
	reader := bufio.NewScanner(os.Stdin)

	var history []uint8
	for {
		resp, err := p.Suggest(history)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Printf("Suggestion: %s\n", resp.Guess)
		fmt.Print("Enter feedback (GYB): ")

		if !reader.Scan() {
			return nil
		}
		input := strings.TrimSpace(reader.Text())
		if input == "exit" || input == "quit" {
			return nil
		}

		code, ok := pattern.Parse(input)
		if !ok {
			fmt.Println("Invalid input. Use 5 chars G/Y/B, e.g. GYBBG")
			continue
		}
		if code == pattern.AllGreen {
			fmt.Printf("Solved! The word was %s.\n", resp.Guess)
			return nil
		}
		if _, err := p.Suggest(append(append([]uint8(nil), history...), code)); err != nil {
			fmt.Println("Impossible pattern (not reachable in the tree).")
			continue
		}
		history = append(history, code)
	}
}

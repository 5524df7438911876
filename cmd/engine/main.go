package main

import (
	"log"
	"os"

	"github.com/rawblock/wordle-engine/internal/api"
	"github.com/rawblock/wordle-engine/internal/buildrun"
	"github.com/rawblock/wordle-engine/internal/db"
	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/player"
	"github.com/rawblock/wordle-engine/internal/treefile"
	"github.com/rawblock/wordle-engine/internal/words"
)

func main() {
	log.Println("Starting RawBlock Wordle Tree Engine...")

	sPath := getEnvOrDefault("SOLUTIONS_PATH", "data/solutions.txt")
	gPath := getEnvOrDefault("GUESSES_PATH", "data/guesses.txt")
	if single := os.Getenv("SINGLE_LIST_PATH"); single != "" {
		sPath, gPath = single, single
	}

	list, err := words.Load(sPath, gPath)
	if err != nil {
		log.Fatalf("FATAL: failed to load word lists: %v", err)
	}
	log.Printf("Loaded %d solutions, %d guesses (checksum %016x)",
		len(list.Secrets()), len(list.Guesses()), list.Checksum())

	log.Println("Generating pattern matrix...")
	table := pattern.Generate(list.Guesses(), list.Secrets())

	// Persistence is optional: a down database only costs history.
	var dbConn *db.PostgresStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		dbConn, err = db.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: failed to connect to PostgreSQL, continuing without build-run history. Error: %v", err)
			dbConn = nil
		} else {
			defer dbConn.Close()
			if err := dbConn.InitSchema(); err != nil {
				log.Printf("Warning: DB schema init failed: %v", err)
			}
		}
	} else {
		log.Println("DATABASE_URL not set, running without build-run history")
	}

	// A preloaded tree enables the suggestion and benchmark endpoints.
	var pl *player.Player
	if treePath := os.Getenv("TREE_PATH"); treePath != "" {
		tree, err := treefile.Load(treePath)
		if err != nil {
			log.Printf("Warning: failed to load tree %s: %v, suggestion endpoints disabled", treePath, err)
		} else {
			pl = player.New(tree, list)
			log.Printf("Loaded tree: %d nodes, root guess %q", tree.NumNodes(), pl.Info().RootGuess)
		}
	}

	hub := api.NewProgressHub()
	go hub.Run()

	runner := buildrun.NewRunner(list, table, dbConn, hub.Publish)
	r := api.SetupRouter(dbConn, runner, pl, hub)

	port := getEnvOrDefault("PORT", "5339")
	log.Printf("Engine running on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

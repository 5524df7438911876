package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rawblock/wordle-engine/pkg/models"
)

// PostgresStore persists build and benchmark runs. The compute path never
// depends on it; callers that fail to connect run without persistence.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect initializes the connection pool using pgx.
func Connect(connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}
	log.Println("[DB] Connected to PostgreSQL for build-run persistence")
	return &PostgresStore{pool: pool}, nil
}

// Close gracefully closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema loads and executes the schema.sql file.
func (s *PostgresStore) InitSchema() error {
	schemaBytes, err := os.ReadFile("internal/db/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %v", err)
	}
	if _, err := s.pool.Exec(context.Background(), string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}
	log.Println("[DB] Build-run schema initialized")
	return nil
}

// SaveBuildRun persists one completed build.
func (s *PostgresStore) SaveBuildRun(ctx context.Context, run models.BuildSummary) error {
	sql := `
		INSERT INTO build_runs (id, start_word, heuristic, checksum, num_nodes, max_depth, avg_guesses, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET num_nodes = EXCLUDED.num_nodes, max_depth = EXCLUDED.max_depth,
		    avg_guesses = EXCLUDED.avg_guesses, duration_ms = EXCLUDED.duration_ms;
	`
	_, err := s.pool.Exec(ctx, sql,
		run.ID, run.StartWord, run.Heuristic, run.Checksum,
		run.NumNodes, run.MaxDepth, run.AvgGuesses, run.DurationMs)
	if err != nil {
		return fmt.Errorf("failed to insert build run: %v", err)
	}
	return nil
}

// SaveBenchmarkRun persists one full-replay benchmark.
func (s *PostgresStore) SaveBenchmarkRun(ctx context.Context, run models.BenchmarkResult) error {
	sql := `
		INSERT INTO benchmark_runs (id, secrets, total_guesses, max_depth, avg_guesses, duration_us)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := s.pool.Exec(ctx, sql,
		run.ID, run.Secrets, run.TotalGuesses, run.MaxDepth, run.AvgGuesses, run.DurationUs)
	if err != nil {
		return fmt.Errorf("failed to insert benchmark run: %v", err)
	}
	return nil
}

// RecentBuildRuns returns the latest persisted builds, newest first.
func (s *PostgresStore) RecentBuildRuns(ctx context.Context, limit int) ([]models.BuildSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, start_word, heuristic, checksum, num_nodes, max_depth, avg_guesses, duration_ms,
		       to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM build_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query build runs: %v", err)
	}
	defer rows.Close()

	var out []models.BuildSummary
	for rows.Next() {
		var r models.BuildSummary
		if err := rows.Scan(&r.ID, &r.StartWord, &r.Heuristic, &r.Checksum,
			&r.NumNodes, &r.MaxDepth, &r.AvgGuesses, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan build run: %v", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

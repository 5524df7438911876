package models

// BuildRequest describes a tree build submitted to the engine API.
type BuildRequest struct {
	StartWord string `json:"startWord"`
	Heuristic string `json:"heuristic"`
	Output    string `json:"output,omitempty"`
	Verify    bool   `json:"verify"`
}

// BuildProgress is the live state of a running build, broadcast over the
// websocket hub and served from /api/build/progress.
type BuildProgress struct {
	RunID        string `json:"runId"`
	Running      bool   `json:"running"`
	SolvedSets   int64  `json:"solvedSets"`
	CacheEntries int64  `json:"cacheEntries"`
	ElapsedMs    int64  `json:"elapsedMs"`
}

// BuildSummary is the persisted record of one completed build run.
type BuildSummary struct {
	ID         string  `json:"id"`
	StartWord  string  `json:"startWord"`
	Heuristic  string  `json:"heuristic"`
	Checksum   string  `json:"checksum"` // hex, 16 digits
	NumNodes   int     `json:"numNodes"`
	MaxDepth   int     `json:"maxDepth"`
	AvgGuesses float64 `json:"avgGuesses"`
	DurationMs int64   `json:"durationMs"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

// BenchmarkResult summarizes a full replay of a serialized tree against
// every secret in the word list.
type BenchmarkResult struct {
	ID           string        `json:"id,omitempty"`
	Secrets      int           `json:"secrets"`
	TotalGuesses int64         `json:"totalGuesses"`
	MaxDepth     int           `json:"maxDepth"`
	AvgGuesses   float64       `json:"avgGuesses"`
	DurationUs   int64         `json:"durationUs"`
	Distribution *Distribution `json:"distribution,omitempty"`
}

// Distribution is a guess-count histogram over one replay pass.
type Distribution struct {
	Counts []int   `json:"counts"` // Counts[i] = games solved in i+1 guesses
	Mean   float64 `json:"mean"`
	P95    int     `json:"p95"`
	Max    int     `json:"max"`
}

// SuggestRequest carries the feedback history of a game in progress.
// Each entry is a five-letter GYB string, oldest first.
type SuggestRequest struct {
	Patterns []string `json:"patterns"`
}

// SuggestResponse is the next guess recommended by the loaded tree.
type SuggestResponse struct {
	Guess  string `json:"guess"`
	Solved bool   `json:"solved"`
	Depth  int    `json:"depth"`
}

// TreeInfo describes a loaded serialized tree.
type TreeInfo struct {
	NumNodes  int    `json:"numNodes"`
	RootGuess string `json:"rootGuess"`
	Checksum  string `json:"checksum"`
}

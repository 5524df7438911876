package api

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rawblock/wordle-engine/internal/buildrun"
	"github.com/rawblock/wordle-engine/internal/db"
	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/player"
	"github.com/rawblock/wordle-engine/pkg/models"
)

type APIHandler struct {
	dbStore *db.PostgresStore
	runner  *buildrun.Runner
	player  *player.Player // nil when no tree is loaded
}

// SetupRouter wires the engine API. The player may be nil when the
// service starts without a serialized tree; suggestion endpoints then
// answer 503 while build endpoints stay available.
func SetupRouter(dbStore *db.PostgresStore, runner *buildrun.Runner, pl *player.Player, hub *ProgressHub) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	h := &APIHandler{dbStore: dbStore, runner: runner, player: pl}
	budget := NewComputeBudget()

	r.GET("/ws", hub.Subscribe)
	r.GET("/api/health", h.health)
	r.GET("/api/tree", h.treeInfo)
	r.POST("/api/suggest", h.suggest)
	r.GET("/api/build/progress", h.buildProgress)

	protected := r.Group("/api", RequireAuth())
	protected.POST("/build", budget.Charge(CostBuild), h.startBuild)
	protected.GET("/benchmark", budget.Charge(CostBenchmark), h.benchmark)
	protected.GET("/runs", h.recentRuns)

	return r
}

// corsMiddleware applies the ALLOWED_ORIGINS whitelist. The origin set
// is resolved once at startup; an empty or "*" value opens the API up,
// which suits a local dashboard.
func corsMiddleware() gin.HandlerFunc {
	allowAll := true
	allowed := make(map[string]struct{})
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" && raw != "*" {
		allowAll = false
		for _, o := range strings.Split(raw, ",") {
			allowed[strings.TrimSpace(o)] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		if allowAll {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
		}
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (h *APIHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"treeLoaded": h.player != nil,
		"dbOnline":   h.dbStore != nil,
	})
}

func (h *APIHandler) treeInfo(c *gin.Context) {
	if h.player == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no tree loaded (set TREE_PATH)"})
		return
	}
	c.JSON(http.StatusOK, h.player.Info())
}

func (h *APIHandler) suggest(c *gin.Context) {
	if h.player == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no tree loaded (set TREE_PATH)"})
		return
	}
	var req models.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	codes := make([]uint8, 0, len(req.Patterns))
	for _, s := range req.Patterns {
		code, ok := pattern.Parse(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "patterns must be 5-letter G/Y/B strings"})
			return
		}
		codes = append(codes, code)
	}
	resp, err := h.player.Suggest(codes)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *APIHandler) buildProgress(c *gin.Context) {
	c.JSON(http.StatusOK, h.runner.Progress())
}

func (h *APIHandler) startBuild(c *gin.Context) {
	var req models.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Heuristic == "" {
		req.Heuristic = "entropy"
	}
	runID, err := h.runner.Start(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"runId": runID})
}

func (h *APIHandler) recentRuns(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence disabled (no DATABASE_URL)"})
		return
	}
	runs, err := h.dbStore.RecentBuildRuns(c.Request.Context(), 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (h *APIHandler) benchmark(c *gin.Context) {
	if h.player == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no tree loaded (set TREE_PATH)"})
		return
	}
	res, err := h.player.Benchmark()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.dbStore != nil {
		res.ID = uuid.New().String()
		if err := h.dbStore.SaveBenchmarkRun(c.Request.Context(), *res); err != nil {
			log.Printf("[API] Warning: failed to persist benchmark run: %v", err)
		}
	}
	c.JSON(http.StatusOK, res)
}

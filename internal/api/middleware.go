package api

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RequireAuth guards the compute endpoints with a bearer token read from
// API_AUTH_TOKEN. An unset token leaves the engine open, which is the
// expected state for a local instance; in release mode that gap is
// logged loudly at startup.
func RequireAuth() gin.HandlerFunc {
	token := os.Getenv("API_AUTH_TOKEN")
	if token == "" && os.Getenv("GIN_MODE") == "release" {
		log.Println("[API] Warning: API_AUTH_TOKEN unset in release mode; build endpoints are open")
	}

	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(raw), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// Endpoint costs in budget units, sized to what each route actually
// demands of the engine: a build is a full beam search over the whole
// guess list and can run for minutes, a benchmark replays every secret
// in milliseconds, and everything else is a few table lookups that needs
// no metering at all.
const (
	CostBuild     = 60
	CostBenchmark = 5

	// budgetUnits is each client's hourly allowance; it refills linearly,
	// so one build becomes available again every half hour.
	budgetUnits = 120
)

// ComputeBudget meters the expensive endpoints per client. Unlike a flat
// request-rate limit, it charges each route by cost, so a dashboard can
// poll cheap endpoints freely while back-to-back tree builds from the
// same client are refused once the allowance is spent.
type ComputeBudget struct {
	mu    sync.Mutex
	spent map[string]*clientSpend
}

type clientSpend struct {
	units   float64
	updated time.Time
}

func NewComputeBudget() *ComputeBudget {
	b := &ComputeBudget{spent: make(map[string]*clientSpend)}
	go b.reapLoop()
	return b
}

// Charge returns middleware that debits cost units before the handler
// runs. Over-budget requests get 429 with a Retry-After estimate of when
// the allowance will cover this cost again.
func (b *ComputeBudget) Charge(cost float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		wait, ok := b.debit(c.ClientIP(), cost)
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "compute budget exhausted"})
			return
		}
		c.Next()
	}
}

func (b *ComputeBudget) debit(ip string, cost float64) (time.Duration, bool) {
	now := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.spent[ip]
	if !ok {
		s = &clientSpend{updated: now}
		b.spent[ip] = s
	}

	// Linear refill: an hour of idleness clears the whole allowance.
	s.units -= now.Sub(s.updated).Hours() * budgetUnits
	if s.units < 0 {
		s.units = 0
	}
	s.updated = now

	if s.units+cost > budgetUnits {
		deficit := s.units + cost - budgetUnits
		return time.Duration(deficit / budgetUnits * float64(time.Hour)), false
	}
	s.units += cost
	return 0, true
}

// reapLoop clears accounts that have fully refilled, bounding memory
// against transient clients.
func (b *ComputeBudget) reapLoop() {
	for range time.Tick(time.Hour) {
		cutoff := time.Now().Add(-time.Hour)
		b.mu.Lock()
		for ip, s := range b.spent {
			if s.updated.Before(cutoff) {
				delete(b.spent, ip)
			}
		}
		b.mu.Unlock()
	}
}

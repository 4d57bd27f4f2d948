package server

import (
	"net/http"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"EvalsDashboard/internal/domain"
)

func (s *Server) handleProblems(c *gin.Context) {
	snap := s.sync.Snapshot()
	problems := snap.Problems

	if raw, ok := c.GetQuery("status"); ok {
		status := domain.Status(raw)
		switch status {
		case domain.StatusPending, domain.StatusAccepted, domain.StatusRejected:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
			return
		}

		filtered := make([]domain.Problem, 0, len(problems))
		for _, p := range problems {
			if p.Status == status {
				filtered = append(filtered, p)
			}
		}
		problems = filtered
	}

	c.JSON(http.StatusOK, gin.H{"problems": problems, "count": len(problems)})
}

// handleEngineers serves the leaderboard. Sorting is a presentation concern,
// so it lives here rather than in the aggregator; ties keep their existing
// order.
func (s *Server) handleEngineers(c *gin.Context) {
	snap := s.sync.Snapshot()
	engineers := snap.Engineers

	field := c.DefaultQuery("sort", "accepted")
	dir := c.DefaultQuery("dir", "desc")
	if dir != "asc" && dir != "desc" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dir must be asc or desc"})
		return
	}

	var less func(a, b domain.Engineer) bool
	switch field {
	case "name":
		less = func(a, b domain.Engineer) bool { return a.Name < b.Name }
	case "accepted":
		less = func(a, b domain.Engineer) bool { return a.AcceptedCount < b.AcceptedCount }
	case "last":
		less = func(a, b domain.Engineer) bool { return a.LastSubmitted.Before(b.LastSubmitted) }
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be name, accepted or last"})
		return
	}

	sort.SliceStable(engineers, func(i, j int) bool {
		if dir == "asc" {
			return less(engineers[i], engineers[j])
		}
		return less(engineers[j], engineers[i])
	})

	c.JSON(http.StatusOK, gin.H{"engineers": engineers, "count": len(engineers)})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.sync.Snapshot().Stats)
}

func (s *Server) handleOrders(c *gin.Context) {
	totalProblems := 0
	deliveredProblems := 0
	deliveredOrders := 0
	for _, o := range s.orders {
		totalProblems += o.ProblemCount
		if o.Completed {
			deliveredOrders++
			deliveredProblems += o.ProblemCount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":            s.orders,
		"count":             len(s.orders),
		"totalProblems":     totalProblems,
		"deliveredOrders":   deliveredOrders,
		"deliveredProblems": deliveredProblems,
	})
}

func (s *Server) handleRevenue(c *gin.Context) {
	snap := s.sync.Snapshot()
	c.JSON(http.StatusOK, s.calc.Estimate(snap.Problems, s.now()))
}

func (s *Server) handleSyncState(c *gin.Context) {
	state := s.poll.State()

	// The indicator always derives from the status descriptor's timestamp,
	// never from when the CSV content last changed.
	syncedAgo := "checking..."
	if state.LastSync != nil {
		syncedAgo = humanize.Time(*state.LastSync)
	}

	c.JSON(http.StatusOK, gin.H{
		"lastSync":  state.LastSync,
		"isSyncing": state.IsSyncing,
		"pollMode":  state.PollMode,
		"syncedAgo": syncedAgo,
	})
}

// handleSyncTrigger enters fast polling regardless of whether the outbound
// dispatch succeeded; the remote workflow may still have been started by an
// operator from the console.
func (s *Server) handleSyncTrigger(c *gin.Context) {
	err := s.poll.TriggerSync(c.Request.Context())
	if err != nil {
		s.logger.Warn("manual sync dispatch failed", "error", err)
	}

	c.JSON(http.StatusAccepted, gin.H{
		"dispatched": err == nil,
		"state":      s.poll.State(),
	})
}

package submissions

import (
	"math"

	"EvalsDashboard/internal/domain"
)

// BuildEngineers derives one rollup per distinct non-empty engineer name, in
// order of first appearance. A record with an empty engineer field contributes
// to neither the count nor the existence of a rollup. Pending and rejected
// records still move lastSubmitted forward.
func BuildEngineers(problems []domain.Problem) []domain.Engineer {
	index := make(map[string]int)
	engineers := make([]domain.Engineer, 0)

	for _, p := range problems {
		name := p.Engineer
		if name == "" {
			continue
		}

		i, ok := index[name]
		if !ok {
			i = len(engineers)
			index[name] = i
			engineers = append(engineers, domain.Engineer{Name: name})
		}

		if p.Status == domain.StatusAccepted {
			engineers[i].AcceptedCount++
		}
		if p.SubmittedAt.After(engineers[i].LastSubmitted) {
			engineers[i].LastSubmitted = p.SubmittedAt
		}
	}

	return engineers
}

// ComputeStats recomputes summary counters over the full problem set. The
// acceptance rate is defined as 0 when nothing has been reviewed yet.
func ComputeStats(problems []domain.Problem, engineers []domain.Engineer) domain.Stats {
	var stats domain.Stats
	for _, p := range problems {
		switch p.Status {
		case domain.StatusAccepted:
			stats.AcceptedCount++
		case domain.StatusRejected:
			stats.RejectedCount++
		default:
			stats.PendingCount++
		}
	}

	stats.ReviewedCount = stats.AcceptedCount + stats.RejectedCount
	if stats.ReviewedCount > 0 {
		stats.AcceptanceRate = int(math.Round(100 * float64(stats.AcceptedCount) / float64(stats.ReviewedCount)))
	}
	stats.TotalContributors = len(engineers)

	return stats
}

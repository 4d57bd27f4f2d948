// Package revenue buckets reviewed problems into a rolling weekly attribution
// window and prices them into a run-rate estimate. Everything here is derived
// on demand from the current snapshot; nothing is cached or persisted.
package revenue

import (
	"time"

	"EvalsDashboard/internal/domain"
)

// Calculator is configured with the fixed anchor date that defines week 1 and
// the price attributed to each reviewed problem.
type Calculator struct {
	anchor          time.Time
	pricePerProblem int
}

// Estimate is the derived revenue view over one attribution window.
type Estimate struct {
	WeekNumber    int       `json:"weekNumber"`
	WindowStart   time.Time `json:"windowStart"`
	WindowEnd     time.Time `json:"windowEnd"`
	WindowLabel   string    `json:"windowLabel"`
	ProblemCount  int       `json:"problemCount"`
	WeeklyRevenue int       `json:"weeklyRevenue"`
	AnnualRunRate int       `json:"annualRunRate"`
}

// NewCalculator truncates the anchor to a calendar date.
func NewCalculator(anchor time.Time, pricePerProblem int) *Calculator {
	return &Calculator{anchor: truncate(anchor), pricePerProblem: pricePerProblem}
}

// WeekNumber counts weeks since the anchor, starting at 1 and floored at 1
// even when today precedes the anchor.
func (c *Calculator) WeekNumber(today time.Time) int {
	days := int(truncate(today).Sub(c.anchor).Hours() / 24)
	week := days/7 + 1
	if week < 1 {
		week = 1
	}
	return week
}

// Window returns the inclusive attribution bounds for today. During week 1
// there is no previous week to show, so the current partial week is used and
// labeled accordingly.
func (c *Calculator) Window(today time.Time) (start, end time.Time, label string) {
	week := c.WeekNumber(today)
	if week == 1 {
		start = c.anchor
		label = "this week"
	} else {
		start = c.anchor.AddDate(0, 0, (week-2)*7)
		label = "last week"
	}
	end = start.AddDate(0, 0, 6)
	return start, end, label
}

// Estimate attributes reviewed problems to the window by their review date
// (submission date when no review date is recorded) and prices the result.
func (c *Calculator) Estimate(problems []domain.Problem, today time.Time) Estimate {
	start, end, label := c.Window(today)

	count := 0
	for _, p := range problems {
		if !p.Status.Reviewed() {
			continue
		}
		d := truncate(p.ReviewDate())
		if d.Before(start) || d.After(end) {
			continue
		}
		count++
	}

	weekly := count * c.pricePerProblem
	return Estimate{
		WeekNumber:    c.WeekNumber(today),
		WindowStart:   start,
		WindowEnd:     end,
		WindowLabel:   label,
		ProblemCount:  count,
		WeeklyRevenue: weekly,
		AnnualRunRate: weekly * 52,
	}
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package domain

import "time"

// Order is a manually curated client order. Orders are static configuration
// and are not touched by the sync pipeline.
type Order struct {
	ID            int        `json:"id"`
	Client        string     `json:"client"`
	DisplayName   string     `json:"displayName"`
	OrderName     string     `json:"orderName"`
	ProblemCount  int        `json:"problemCount"`
	DueDate       time.Time  `json:"dueDate"`
	DeliveredDate *time.Time `json:"deliveredDate,omitempty"`
	Completed     bool       `json:"completed"`
}

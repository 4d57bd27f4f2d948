// Package orders loads the manually curated client order list. Orders are
// static configuration maintained by hand, not derived by the sync pipeline.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jszwec/csvutil"

	"EvalsDashboard/internal/domain"
	"EvalsDashboard/internal/ports"
)

// FileSource reads orders from a CSV file. Unlike the submissions feed this
// file is curated, so it uses the strict csvutil dialect and a malformed file
// is a hard error rather than something to degrade around.
type FileSource struct {
	path   string
	logger *slog.Logger
}

var _ ports.OrderSource = (*FileSource)(nil)

// NewFileSource wires the configured path; an empty path means "use the
// built-in list".
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

type orderRow struct {
	ID            int    `csv:"id"`
	Client        string `csv:"client"`
	DisplayName   string `csv:"display_name"`
	OrderName     string `csv:"order_name"`
	ProblemCount  int    `csv:"problem_count"`
	DueDate       string `csv:"due_date"`
	DeliveredDate string `csv:"delivered_date"`
	Completed     bool   `csv:"completed"`
}

// Load decodes the orders file, or falls back to Defaults when no path is
// configured.
func (f *FileSource) Load(ctx context.Context) ([]domain.Order, error) {
	if f.path == "" {
		if f.logger != nil {
			f.logger.Debug("no orders file configured, using built-in list")
		}
		return Defaults(), nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}

	var rows []orderRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode orders csv: %w", err)
	}

	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		due, err := time.Parse("2006-01-02", row.DueDate)
		if err != nil {
			return nil, fmt.Errorf("order %d: parse due_date %q: %w", row.ID, row.DueDate, err)
		}

		var delivered *time.Time
		if row.DeliveredDate != "" {
			d, err := time.Parse("2006-01-02", row.DeliveredDate)
			if err != nil {
				return nil, fmt.Errorf("order %d: parse delivered_date %q: %w", row.ID, row.DeliveredDate, err)
			}
			delivered = &d
		}

		out = append(out, domain.Order{
			ID:            row.ID,
			Client:        row.Client,
			DisplayName:   row.DisplayName,
			OrderName:     row.OrderName,
			ProblemCount:  row.ProblemCount,
			DueDate:       due,
			DeliveredDate: delivered,
			Completed:     row.Completed,
		})
	}

	if f.logger != nil {
		f.logger.Info("orders loaded", "path", f.path, "count", len(out))
	}
	return out, nil
}

// Defaults is the built-in order list used when no file is configured.
func Defaults() []domain.Order {
	delivered := time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC)
	return []domain.Order{
		{
			ID:            1,
			Client:        "Meridian Labs",
			DisplayName:   "MER",
			OrderName:     "MER-01",
			ProblemCount:  10,
			DueDate:       time.Date(2026, time.February, 12, 0, 0, 0, 0, time.UTC),
			DeliveredDate: &delivered,
			Completed:     true,
		},
		{
			ID:           2,
			Client:       "Halcyon Research",
			DisplayName:  "HAL",
			OrderName:    "HAL-01",
			ProblemCount: 10,
			DueDate:      time.Date(2026, time.February, 19, 0, 0, 0, 0, time.UTC),
		},
	}
}

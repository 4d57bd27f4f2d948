package submissions

import (
	"strconv"
	"strings"
	"time"

	"EvalsDashboard/internal/domain"
)

// ToProblems maps raw rows into domain problems. Rows without a usable id are
// dropped; every other malformed field degrades to a default instead of
// rejecting the row, so one bad line never loses the rest of the dataset.
// The now func supplies the fallback for unparseable dates.
func ToProblems(rows []Row, now func() time.Time) []domain.Problem {
	if now == nil {
		now = time.Now
	}

	problems := make([]domain.Problem, 0, len(rows))
	for _, row := range rows {
		rawID := strings.TrimSpace(row["id"])
		if rawID == "" {
			continue
		}
		id, err := strconv.Atoi(rawID)
		if err != nil {
			// Non-numeric ids are dropped rather than flowing through as a
			// sentinel value.
			continue
		}

		title := row["data_accession"]
		if title == "" {
			title = "#" + rawID
		}

		problems = append(problems, domain.Problem{
			ID:           id,
			Title:        title,
			Description:  row["title"],
			ExternalLink: row["paper_url"],
			KitType:      row["kit"],
			Engineer:     row["engineer"],
			Status:       domain.NormalizeStatus(row["status"]),
			SubmittedAt:  ParseDate(row["submitted_at"], now),
			ReviewedAt:   parseOptionalDate(row["done_at"], now),
		})
	}

	return problems
}

// ParseDate accepts exactly YYYY-MM-DD with plain base-10 parts. Any other
// shape, including an empty string, yields now() rather than an error; a
// missing date must never sink the row.
func ParseDate(value string, now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}

	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 3 {
		return now()
	}

	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	day, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return now()
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date the way the CSV carries it.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func parseOptionalDate(value string, now func() time.Time) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	t := ParseDate(value, now)
	return &t
}

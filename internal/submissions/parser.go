package submissions

import "strings"

// Row is one data line of the submissions CSV, keyed by header name.
type Row map[string]string

// ParseCSV splits raw delimited text into rows. The first non-empty line is
// the header; values are paired with header names by position. Short rows are
// padded with empty strings instead of failing, and blank lines anywhere are
// skipped. The dialect is deliberately lenient: the upstream file is
// machine-generated without quoting, so an embedded comma would misalign
// columns rather than error.
func ParseCSV(text string) []Row {
	lines := strings.Split(text, "\n")

	var headers []string
	var rows []Row
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if headers == nil {
			headers = make([]string, len(fields))
			for i, h := range fields {
				headers[i] = strings.TrimSpace(h)
			}
			continue
		}

		row := make(Row, len(headers))
		for i, name := range headers {
			if i < len(fields) {
				row[name] = strings.TrimSpace(fields[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows
}

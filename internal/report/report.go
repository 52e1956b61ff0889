// Package report renders operator-facing console summaries of transform and
// load outcomes as aligned text tables.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"revagg/internal/store"
	"revagg/internal/transform"
)

// Table renders rows as a text table with a header, padding cells by display
// width so multi-byte names stay aligned.
func Table(header []string, rows [][]string) string {
	all := append([][]string{header}, rows...)

	colCount := 0
	for _, row := range all {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	widths := make([]int, colCount)

	for _, row := range all {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder

	writeRow := func(row []string) {
		b.WriteString("|")

		for i := 0; i < colCount; i++ {
			content := ""
			if i < len(row) {
				content = row[i]
			}

			b.WriteString(" ")
			b.WriteString(content)

			if padding := widths[i] - runewidth.StringWidth(content); padding > 0 {
				b.WriteString(strings.Repeat(" ", padding))
			}

			b.WriteString(" |")
		}

		b.WriteString("\n")
	}

	writeRow(header)

	b.WriteString("|")

	for i := 0; i < colCount; i++ {
		b.WriteString(strings.Repeat("-", widths[i]+2))
		b.WriteString("|")
	}

	b.WriteString("\n")

	for _, row := range all[1:] {
		writeRow(row)
	}

	return b.String()
}

// TransformSummary renders one transform stage's outcome together with the
// drop list and the manual-inspection queue.
func TransformSummary(site, entity string, outcome transform.Outcome, report *transform.ValidationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s transform: %d rows in, %d kept, %d dropped, %d flagged, %d malformed\n",
		site, entity, outcome.Rows, outcome.Kept, outcome.Dropped, outcome.Flagged, outcome.Malformed)

	if report == nil {
		return b.String()
	}

	if len(report.Dropped) > 0 {
		fmt.Fprintf(&b, "\nDropped for data integrity concerns (%d):\n", len(report.Dropped))

		for i, name := range report.Dropped {
			fmt.Fprintf(&b, "  %d: %s\n", i+1, name)
		}
	}

	if len(report.Inspect) > 0 {
		fmt.Fprintf(&b, "\nManually inspect these restaurants (%d):\n", len(report.Inspect))

		for i, name := range report.Inspect {
			fmt.Fprintf(&b, "  %d: %s\n", i+1, name)
		}
	}

	return b.String()
}

// LoadSummary renders per-table load results as an aligned table.
func LoadSummary(results map[string]store.LoadResult, order []string) string {
	rows := make([][]string, 0, len(order))

	for _, table := range order {
		res, ok := results[table]
		if !ok {
			continue
		}

		rows = append(rows, []string{table, strconv.Itoa(res.Inserted), strconv.Itoa(res.Skipped)})
	}

	return Table([]string{"table", "inserted", "skipped"}, rows)
}

// QueryResult renders an ad hoc query result as an aligned table.
func QueryResult(res *store.Result) string {
	return Table(res.Columns, res.Rows)
}

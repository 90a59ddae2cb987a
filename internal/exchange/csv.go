package exchange

import (
	"bufio"
	"io"
	"strings"

	"taskboard/internal/clock"
	"taskboard/internal/model"
)

var csvHeader = []string{"Title", "Description", "Status", "Priority", "Category", "Due Date", "Tags", "Created"}

// WriteCSV writes one row per task. Every value is wrapped in double quotes
// with embedded quotes doubled; tags are joined with ";".
func WriteCSV(w io.Writer, tasks []model.Task) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(csvHeader, ",") + "\n"); err != nil {
		return err
	}
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = *t.DueDate
		}
		row := []string{
			t.Title,
			t.Description,
			string(t.Status),
			string(t.Priority),
			string(t.Category),
			due,
			strings.Join(t.Tags, ";"),
			clock.Today(t.CreatedAt),
		}
		for i, v := range row {
			row[i] = quoteCSV(v)
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

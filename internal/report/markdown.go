package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/IvanShishkin/dirsheet/pkg/models"
)

// writeMarkdown generates a Markdown report
func writeMarkdown(w io.Writer, results *models.ScanResults) error {
	var sb strings.Builder

	// Header
	sb.WriteString("# Folder File Details\n\n")

	// Summary
	if results.ScanPath != "" {
		sb.WriteString("## Summary\n\n")
		sb.WriteString("| Parameter | Value |\n")
		sb.WriteString("|-----------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Scan Path | %s |\n", escapeMarkdownCell(results.ScanPath)))
		if !results.StartTime.IsZero() {
			sb.WriteString(fmt.Sprintf("| Start Time | %s |\n", results.StartTime.Format(models.DateLayout)))
			sb.WriteString(fmt.Sprintf("| Duration | %s |\n", FormatDuration(results.Duration)))
		}
		sb.WriteString(fmt.Sprintf("| Total Files | %d |\n", results.TotalFiles()))
		if results.Stats != nil {
			sb.WriteString(fmt.Sprintf("| Total Size | %d |\n", results.Stats.TotalSize))
			sb.WriteString(fmt.Sprintf("| Skipped (errors) | %d |\n", results.Stats.StatErrors))
		}
		sb.WriteString("\n")
		sb.WriteString("## Files\n\n")
	}

	headers := models.Columns()
	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(headers)) + "\n")

	for _, rec := range results.Records {
		cells := rec.Strings()
		for i, c := range cells {
			cells[i] = escapeMarkdownCell(c)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// escapeMarkdownCell keeps a value inside a single table cell
func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

package report

import (
	"fmt"
	"io"

	"github.com/IvanShishkin/dirsheet/pkg/models"
	"github.com/fatih/color"
)

// colorScheme holds the console colours used by PrintSummary
type colorScheme struct {
	title *color.Color
	label *color.Color
	ok    *color.Color
	warn  *color.Color
	path  *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		title: color.New(color.Bold, color.FgHiYellow),
		label: color.New(color.FgHiBlack),
		ok:    color.New(color.Bold, color.FgGreen),
		warn:  color.New(color.FgYellow),
		path:  color.New(color.FgCyan),
	}
}

// PrintSummary prints scan statistics to w. Colours follow color.NoColor.
func PrintSummary(w io.Writer, results *models.ScanResults) {
	scheme := newColorScheme()

	fmt.Fprintln(w)
	scheme.title.Fprintln(w, "SCAN COMPLETE")
	fmt.Fprintln(w)

	line := func(label string, value any) {
		fmt.Fprintf(w, "  %s %v\n", scheme.label.Sprintf("%-10s", label+":"), value)
	}

	line("Path", results.ScanPath)
	line("Files", results.TotalFiles())
	line("Folders", results.TotalDirs)
	if results.Stats != nil {
		line("Size", fmt.Sprintf("%d bytes", results.Stats.TotalSize))
		line("Hidden", results.Stats.HiddenFiles)
		if results.Stats.LargestFile != "" {
			line("Largest", fmt.Sprintf("%s (%d bytes)", results.Stats.LargestFile, results.Stats.LargestFileSize))
		}
	}
	line("Duration", FormatDuration(results.Duration))
	fmt.Fprintln(w)

	if results.Stats != nil && results.Stats.StatErrors > 0 {
		scheme.warn.Fprintf(w, "  ⚠ %d path(s) skipped, see log for details\n", results.Stats.StatErrors)
		for _, p := range results.Stats.ErrorFiles {
			fmt.Fprintf(w, "    %s\n", p)
		}
		fmt.Fprintln(w)
	}

	if results.ReportPath != "" {
		fmt.Fprintf(w, "  %s %s\n", scheme.ok.Sprint("✓ Saved:"), scheme.path.Sprint(results.ReportPath))
		fmt.Fprintln(w)
	}
}

package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/dirsheet/internal/config"
	"github.com/IvanShishkin/dirsheet/internal/filelock"
	"github.com/IvanShishkin/dirsheet/pkg/models"
	"go.uber.org/zap"
)

// ErrNoRecords is returned when there is nothing to export
var ErrNoRecords = errors.New("no records to export")

// ExportError is returned when the destination cannot be written
type ExportError struct {
	Path   string
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export %s report to %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Formats lists the supported export formats
var Formats = []string{"xlsx", "csv", "json", "yaml", "md"}

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// DefaultOutputFile returns a timestamped file name for format
func DefaultOutputFile(format string, now time.Time) string {
	if format == "" {
		format = "xlsx"
	}
	return fmt.Sprintf("DIRSHEET-%s.%s", now.Format("20060102-150405"), format)
}

// Exporter writes scan results to disk in one of the supported formats
type Exporter struct {
	format    string
	sheetName string
	logger    *zap.Logger
}

// NewExporter creates an exporter. An empty format is derived from the
// output path at export time.
func NewExporter(cfg *config.Config, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	sheet := config.DefaultSheetName
	format := ""
	if cfg != nil {
		format = cfg.Format
		if cfg.SheetName != "" {
			sheet = cfg.SheetName
		}
	}
	return &Exporter{
		format:    format,
		sheetName: sheet,
		logger:    logger,
	}
}

// ExportRecords writes records to outputFile
func (e *Exporter) ExportRecords(records []models.FileRecord, outputFile string) error {
	results := models.NewScanResults("", "")
	results.Records = records
	_, err := e.Export(results, outputFile)
	return err
}

// Export writes results to outputFile, replacing any existing file, and
// returns the absolute path written. Parent directories are not created.
func (e *Exporter) Export(results *models.ScanResults, outputFile string) (string, error) {
	if results == nil || len(results.Records) == 0 {
		return "", ErrNoRecords
	}

	format := e.format
	if format == "" {
		format = config.FormatFromPath(outputFile)
	}

	write, err := e.writerFor(format, results)
	if err != nil {
		return "", &ExportError{Path: outputFile, Format: format, Err: err}
	}

	e.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile),
		zap.Int("records", len(results.Records)))

	if err := filelock.LockAndWrite(outputFile, write); err != nil {
		return "", &ExportError{Path: outputFile, Format: format, Err: err}
	}

	absPath, err := filepath.Abs(outputFile)
	if err != nil {
		absPath = outputFile
	}
	return absPath, nil
}

func (e *Exporter) writerFor(format string, results *models.ScanResults) (func(io.Writer) error, error) {
	switch format {
	case "xlsx":
		return func(w io.Writer) error { return writeXLSX(w, results.Records, e.sheetName) }, nil
	case "csv":
		return func(w io.Writer) error { return writeCSV(w, results.Records) }, nil
	case "json":
		return func(w io.Writer) error { return writeJSON(w, results) }, nil
	case "yaml":
		return func(w io.Writer) error { return writeYAML(w, results) }, nil
	case "md":
		return func(w io.Writer) error { return writeMarkdown(w, results) }, nil
	default:
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
}

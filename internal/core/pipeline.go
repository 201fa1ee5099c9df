package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/dirsheet/internal/config"
	"github.com/IvanShishkin/dirsheet/internal/metrics"
	"github.com/IvanShishkin/dirsheet/internal/publish"
	"github.com/IvanShishkin/dirsheet/internal/report"
	"github.com/IvanShishkin/dirsheet/pkg/models"
	"go.uber.org/zap"
)

// ErrNoFiles is returned when a scan finds nothing to export
var ErrNoFiles = errors.New("no files found")

// Uploader publishes an exported report
type Uploader interface {
	Upload(ctx context.Context, localPath, uri string) (publish.Location, error)
}

// Pipeline runs scan, export and the optional metrics and upload steps in
// sequence on the calling goroutine
type Pipeline struct {
	config   *config.Config
	logger   *zap.Logger
	scanner  *Scanner
	exporter *report.Exporter
	metrics  *metrics.Recorder
	uploader Uploader
	now      func() time.Time
}

// NewPipeline creates a pipeline for cfg
func NewPipeline(cfg *config.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &config.Config{SheetName: config.DefaultSheetName}
	}
	p := &Pipeline{
		config:   cfg,
		logger:   logger,
		scanner:  NewScanner(cfg, logger),
		exporter: report.NewExporter(cfg, logger),
		now:      time.Now,
	}
	if cfg.MetricsFile != "" {
		p.metrics = metrics.NewRecorder()
	}
	return p
}

// Scanner returns the pipeline's scanner
func (p *Pipeline) Scanner() *Scanner {
	return p.scanner
}

// SetUploader overrides the uploader used when an upload URI is configured
func (p *Pipeline) SetUploader(u Uploader) {
	p.uploader = u
}

// OutputPath returns output, or the configured output file, or a
// timestamped default name
func (p *Pipeline) OutputPath(output string) string {
	if output != "" {
		return output
	}
	if p.config.OutputFile != "" {
		return p.config.OutputFile
	}
	return report.DefaultOutputFile(p.config.Format, p.now())
}

// Scan scans root. When no files are found the (empty) results are returned
// together with ErrNoFiles.
func (p *Pipeline) Scan(root string) (*models.ScanResults, error) {
	results, err := p.scanner.Scan(root)
	if err != nil {
		return results, err
	}
	if p.metrics != nil {
		p.metrics.ObserveScan(results)
	}
	if results.TotalFiles() == 0 {
		p.logger.Info("No files found", zap.String("path", results.ScanPath))
		p.flushMetrics()
		return results, ErrNoFiles
	}
	return results, nil
}

// Export writes results to output and then runs the upload step if one is
// configured. An upload failure leaves the local report in place and is
// returned with ReportPath already set.
func (p *Pipeline) Export(ctx context.Context, results *models.ScanResults, output string) error {
	output = p.OutputPath(output)
	format := p.config.Format
	if format == "" {
		format = config.FormatFromPath(output)
	} else if fromExt := config.FormatFromPath(output); filepath.Ext(output) != "" && fromExt != format {
		p.logger.Warn("Report format does not match output file extension",
			zap.String("format", format),
			zap.String("output", output),
			zap.String("extension_format", fromExt))
	}

	path, err := p.exporter.Export(results, output)
	if p.metrics != nil {
		p.metrics.ObserveExport(format, err, p.now())
	}
	if err != nil {
		p.flushMetrics()
		return err
	}
	results.ReportPath = path
	p.logger.Info("Report saved", zap.String("path", path))

	uploadErr := p.upload(ctx, results)
	p.flushMetrics()
	return uploadErr
}

// Run scans root and exports the records to output
func (p *Pipeline) Run(ctx context.Context, root, output string) (*models.ScanResults, error) {
	results, err := p.Scan(root)
	if err != nil {
		return results, err
	}
	return results, p.Export(ctx, results, output)
}

func (p *Pipeline) upload(ctx context.Context, results *models.ScanResults) error {
	uri := p.config.Upload.URI
	if uri == "" {
		return nil
	}

	if p.uploader == nil {
		u, err := publish.NewS3Uploader(ctx, p.config.Upload, p.logger)
		if err != nil {
			return err
		}
		p.uploader = u
	}

	loc, err := p.uploader.Upload(ctx, results.ReportPath, uri)
	if err != nil {
		p.logger.Error("Upload failed", zap.String("destination", uri), zap.Error(err))
		return err
	}
	results.UploadedTo = loc.String()
	return nil
}

func (p *Pipeline) flushMetrics() {
	if p.metrics == nil {
		return
	}
	if err := p.metrics.WriteTextfile(p.config.MetricsFile); err != nil {
		p.logger.Warn("Failed to write metrics", zap.Error(err))
	}
}

// Describe formats a pipeline error for display
func Describe(err error) string {
	var exportErr *report.ExportError
	var uploadErr *publish.UploadError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoFiles):
		return "No files found."
	case errors.As(err, &exportErr):
		return fmt.Sprintf("Failed to save report: %v", exportErr.Err)
	case errors.As(err, &uploadErr):
		return fmt.Sprintf("Saved locally, upload failed: %v", uploadErr.Err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

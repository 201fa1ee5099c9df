package core

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/dirsheet/internal/config"
	"github.com/IvanShishkin/dirsheet/internal/filesystem"
	"github.com/IvanShishkin/dirsheet/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Version is reported in results and by the CLI
var Version = "0.1.0"

// ProgressCallback is called to report scan progress
type ProgressCallback func(phase string, current int, message string)

// Scanner collects file records under a directory
type Scanner struct {
	config           *config.Config
	logger           *zap.Logger
	walker           *filesystem.Walker
	progressCallback ProgressCallback
}

// NewScanner creates a new scanner instance
func NewScanner(cfg *config.Config, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		config: cfg,
		logger: logger,
		walker: filesystem.NewWalker(logger),
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// Walker returns the underlying walker
func (s *Scanner) Walker() *filesystem.Walker {
	return s.walker
}

// reportProgress calls the progress callback if set
func (s *Scanner) reportProgress(phase string, current int, message string) {
	if s.progressCallback != nil {
		s.progressCallback(phase, current, message)
	}
}

// Scan walks path and returns one record per file. Files whose metadata
// cannot be read are logged, counted in Stats and left out. An empty
// directory yields empty results, not an error.
func (s *Scanner) Scan(path string) (*models.ScanResults, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := filesystem.CheckRoot(root); err != nil {
		return nil, err
	}

	results := models.NewScanResults(uuid.NewString(), root)
	results.Version = Version
	results.StartTime = time.Now()

	s.logger.Info("Starting scan",
		zap.String("scan_id", results.ScanID),
		zap.String("path", root))
	s.reportProgress("scanning", 0, "Scanning "+root)

	s.walker.SetErrorCallback(func(err *filesystem.StatError) {
		results.AddError(err.Path)
	})
	defer s.walker.SetErrorCallback(nil)

	walkErr := s.walker.Walk(root, func(fi *models.FileInfo) error {
		if fi.IsDir {
			results.TotalDirs++
			return nil
		}
		results.AddRecord(models.NewFileRecord(fi, filesystem.GetExtension(fi.Name)), fi.IsSymlink)
		if n := results.TotalFiles(); n%1000 == 0 {
			s.reportProgress("scanning", n, fi.Path)
		}
		return nil
	})

	results.EndTime = time.Now()
	results.Duration = results.EndTime.Sub(results.StartTime)

	if walkErr != nil {
		return results, fmt.Errorf("failed to scan %s: %w", root, walkErr)
	}

	s.reportProgress("complete", results.TotalFiles(), fmt.Sprintf("Found %d files", results.TotalFiles()))
	s.logger.Info("Scan completed",
		zap.String("scan_id", results.ScanID),
		zap.Duration("duration", results.Duration),
		zap.Int("files", results.TotalFiles()),
		zap.Int("dirs", results.TotalDirs),
		zap.Int("stat_errors", results.Stats.StatErrors))

	return results, nil
}

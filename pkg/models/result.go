package models

import "time"

// ScanResults contains the complete scan results
type ScanResults struct {
	// Summary
	ScanID    string        `json:"scan_id" yaml:"scan_id"`
	ScanPath  string        `json:"scan_path" yaml:"scan_path"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	TotalDirs int           `json:"total_dirs" yaml:"total_dirs"`

	// Records in traversal order
	Records []FileRecord `json:"records" yaml:"records"`

	// Statistics
	Stats *ScanStatistics `json:"statistics" yaml:"statistics"`

	Version string `json:"version" yaml:"version"`

	// Report path
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
	UploadedTo string `json:"uploaded_to,omitempty" yaml:"uploaded_to,omitempty"`
}

// ScanStatistics contains detailed scan statistics
type ScanStatistics struct {
	TotalSize       int64  `json:"total_size" yaml:"total_size"`
	LargestFile     string `json:"largest_file,omitempty" yaml:"largest_file,omitempty"`
	LargestFileSize int64  `json:"largest_file_size" yaml:"largest_file_size"`
	HiddenFiles     int    `json:"hidden_files" yaml:"hidden_files"`
	Symlinks        int    `json:"symlinks" yaml:"symlinks"`

	// Errors
	StatErrors int      `json:"stat_errors" yaml:"stat_errors"`
	ErrorFiles []string `json:"error_files,omitempty" yaml:"error_files,omitempty"`
}

// NewScanResults returns empty results for a scan of path
func NewScanResults(id, path string) *ScanResults {
	return &ScanResults{
		ScanID:   id,
		ScanPath: path,
		Records:  make([]FileRecord, 0),
		Stats:    &ScanStatistics{},
	}
}

// TotalFiles returns the number of collected records
func (r *ScanResults) TotalFiles() int {
	return len(r.Records)
}

// AddRecord appends a record and updates statistics
func (r *ScanResults) AddRecord(rec FileRecord, isSymlink bool) {
	r.Records = append(r.Records, rec)

	if r.Stats == nil {
		r.Stats = &ScanStatistics{}
	}
	r.Stats.TotalSize += rec.Size
	if rec.Size > r.Stats.LargestFileSize || r.Stats.LargestFile == "" {
		r.Stats.LargestFile = rec.FullPath
		r.Stats.LargestFileSize = rec.Size
	}
	if rec.IsHidden {
		r.Stats.HiddenFiles++
	}
	if isSymlink {
		r.Stats.Symlinks++
	}
}

// AddError records a file that could not be stat'ed
func (r *ScanResults) AddError(path string) {
	if r.Stats == nil {
		r.Stats = &ScanStatistics{}
	}
	r.Stats.StatErrors++
	r.Stats.ErrorFiles = append(r.Stats.ErrorFiles, path)
}

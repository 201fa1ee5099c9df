package models

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the timestamp layout used for the date columns
const DateLayout = "2006-01-02 15:04:05"

// Column headers, in output order
const (
	ColumnFolder     = "Folder"
	ColumnFileName   = "File Name"
	ColumnFullPath   = "Full Path"
	ColumnSize       = "Size (Bytes)"
	ColumnModified   = "Modified Date"
	ColumnCreated    = "Created Date"
	ColumnExtension  = "Extension"
	ColumnIsHidden   = "Is Hidden"
	ColumnIsReadable = "Is Readable"
	ColumnIsWritable = "Is Writable"
)

var columns = []string{
	ColumnFolder,
	ColumnFileName,
	ColumnFullPath,
	ColumnSize,
	ColumnModified,
	ColumnCreated,
	ColumnExtension,
	ColumnIsHidden,
	ColumnIsReadable,
	ColumnIsWritable,
}

// Columns returns the header row. The returned slice is a copy.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// FileInfo contains what the walker learned about a single file
type FileInfo struct {
	Path       string    // Full file path
	RelDir     string    // Containing directory relative to the scan root
	Name       string    // Base name
	Size       int64     // File size in bytes
	ModTime    time.Time // Modification time
	ChangeTime time.Time // Creation time, or inode change time where unavailable
	IsDir      bool
	IsHidden   bool
	IsSymlink  bool
	Readable   bool
	Writable   bool
}

// FileRecord is one output row
type FileRecord struct {
	Folder       string `json:"folder" yaml:"folder"`
	FileName     string `json:"file_name" yaml:"file_name"`
	FullPath     string `json:"full_path" yaml:"full_path"`
	Size         int64  `json:"size_bytes" yaml:"size_bytes"`
	ModifiedDate string `json:"modified_date" yaml:"modified_date"`
	CreatedDate  string `json:"created_date" yaml:"created_date"`
	Extension    string `json:"extension" yaml:"extension"`
	IsHidden     bool   `json:"is_hidden" yaml:"is_hidden"`
	IsReadable   bool   `json:"is_readable" yaml:"is_readable"`
	IsWritable   bool   `json:"is_writable" yaml:"is_writable"`
}

// NewFileRecord builds the output row for a walked file
func NewFileRecord(fi *FileInfo, ext string) FileRecord {
	return FileRecord{
		Folder:       fi.RelDir,
		FileName:     fi.Name,
		FullPath:     fi.Path,
		Size:         fi.Size,
		ModifiedDate: fi.ModTime.Local().Format(DateLayout),
		CreatedDate:  fi.ChangeTime.Local().Format(DateLayout),
		Extension:    ext,
		IsHidden:     fi.IsHidden,
		IsReadable:   fi.Readable,
		IsWritable:   fi.Writable,
	}
}

// Values returns the cells in Columns() order. Sizes stay int64 and flags
// stay bool so spreadsheet writers can keep native cell types.
func (r FileRecord) Values() []any {
	return []any{
		r.Folder,
		r.FileName,
		r.FullPath,
		r.Size,
		r.ModifiedDate,
		r.CreatedDate,
		r.Extension,
		r.IsHidden,
		r.IsReadable,
		r.IsWritable,
	}
}

// Strings returns the cells rendered as text, in Columns() order
func (r FileRecord) Strings() []string {
	values := r.Values()
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = FormatValue(v)
	}
	return out
}

// FormatValue renders a cell value as text
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

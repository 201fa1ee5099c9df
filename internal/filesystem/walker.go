package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/dirsheet/pkg/models"
	"go.uber.org/zap"
)

// ErrNotDirectory is returned when the scan root is not a directory
var ErrNotDirectory = errors.New("not a directory")

// StatError describes a file whose metadata could not be read
type StatError struct {
	Path string
	Err  error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("failed to stat %s: %v", e.Path, e.Err)
}

func (e *StatError) Unwrap() error {
	return e.Err
}

// StatFunc reads file status, following symlinks
type StatFunc func(path string) (os.FileInfo, error)

// ErrorCallback is called for every path that was skipped because of an error
type ErrorCallback func(err *StatError)

// Walker walks the filesystem and collects file metadata
type Walker struct {
	logger  *zap.Logger
	stat    StatFunc
	onError ErrorCallback
}

// NewWalker creates a new filesystem walker
func NewWalker(logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		logger: logger,
		stat:   os.Stat,
	}
}

// SetStatFunc replaces the function used to stat files
func (w *Walker) SetStatFunc(fn StatFunc) {
	if fn == nil {
		fn = os.Stat
	}
	w.stat = fn
}

// SetErrorCallback sets the callback for skipped paths
func (w *Walker) SetErrorCallback(cb ErrorCallback) {
	w.onError = cb
}

// CheckRoot verifies that root exists and is a directory
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}
	return nil
}

// Walk recursively walks the directory tree. Directories are passed to the
// callback with IsDir set; every other entry is stat'ed and passed as a file.
// Symlinked directories are not descended into.
func (w *Walker) Walk(root string, callback func(*models.FileInfo) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil && path == root {
				return err
			}
			w.fail(path, err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return callback(&models.FileInfo{
				Path:   path,
				RelDir: relativeDir(root, path),
				Name:   d.Name(),
				IsDir:  true,
			})
		}

		info, err := w.stat(path)
		if err != nil {
			w.fail(path, err)
			return nil
		}

		// A link to a directory is neither a file nor followed
		if info.IsDir() {
			w.logger.Debug("Skipping symlinked directory", zap.String("path", path))
			return nil
		}

		readable, writable := checkAccess(path, info)

		fileInfo := &models.FileInfo{
			Path:      path,
			RelDir:    relativeDir(root, filepath.Dir(path)),
			Name:      d.Name(),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			IsSymlink: d.Type()&fs.ModeSymlink != 0,
			IsHidden:  isHidden(d.Name()),
			Readable:  readable,
			Writable:  writable,
		}

		// Get change time (platform-dependent)
		fileInfo.ChangeTime = getChangeTime(info)

		return callback(fileInfo)
	})
}

func (w *Walker) fail(path string, err error) {
	w.logger.Warn("Error processing path", zap.String("path", path), zap.Error(err))
	if w.onError != nil {
		w.onError(&StatError{Path: path, Err: err})
	}
}

// relativeDir returns dir relative to root, "." for the root itself
func relativeDir(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return dir
	}
	return rel
}

// isHidden checks if a file is hidden
func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// GetExtension returns the file extension including the dot. Leading dots
// belong to the name, so ".bashrc" has no extension.
func GetExtension(name string) string {
	return filepath.Ext(strings.TrimLeft(filepath.Base(name), "."))
}

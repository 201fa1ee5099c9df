package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns(t *testing.T) {
	expected := []string{
		"Folder", "File Name", "Full Path", "Size (Bytes)", "Modified Date",
		"Created Date", "Extension", "Is Hidden", "Is Readable", "Is Writable",
	}
	assert.Equal(t, expected, Columns())

	// callers must not be able to reorder the shared header slice
	cols := Columns()
	cols[0] = "changed"
	assert.Equal(t, "Folder", Columns()[0])
}

func TestNewFileRecord(t *testing.T) {
	mod := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
	created := time.Date(2023, 12, 31, 23, 59, 58, 0, time.Local)

	rec := NewFileRecord(&FileInfo{
		Path:       "/data/root/sub/.b.txt",
		RelDir:     "sub",
		Name:       ".b.txt",
		Size:       0,
		ModTime:    mod,
		ChangeTime: created,
		IsHidden:   true,
		Readable:   true,
	}, ".txt")

	assert.Equal(t, "sub", rec.Folder)
	assert.Equal(t, ".b.txt", rec.FileName)
	assert.Equal(t, "/data/root/sub/.b.txt", rec.FullPath)
	assert.Equal(t, int64(0), rec.Size)
	assert.Equal(t, "2024-03-05 14:07:09", rec.ModifiedDate)
	assert.Equal(t, "2023-12-31 23:59:58", rec.CreatedDate)
	assert.Equal(t, ".txt", rec.Extension)
	assert.True(t, rec.IsHidden)
	assert.True(t, rec.IsReadable)
	assert.False(t, rec.IsWritable)
}

func TestFileRecord_Values(t *testing.T) {
	rec := FileRecord{
		Folder:       ".",
		FileName:     "a.txt",
		FullPath:     "/root/a.txt",
		Size:         10,
		ModifiedDate: "2024-01-01 00:00:00",
		CreatedDate:  "2024-01-01 00:00:00",
		Extension:    ".txt",
		IsReadable:   true,
		IsWritable:   true,
	}

	values := rec.Values()
	require.Len(t, values, len(Columns()))
	assert.Equal(t, int64(10), values[3])
	assert.Equal(t, false, values[7])

	assert.Equal(t, []string{
		".", "a.txt", "/root/a.txt", "10", "2024-01-01 00:00:00",
		"2024-01-01 00:00:00", ".txt", "false", "true", "true",
	}, rec.Strings())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"String", "abc", "abc"},
		{"Int64", int64(42), "42"},
		{"Zero", int64(0), "0"},
		{"Int", 7, "7"},
		{"True", true, "true"},
		{"False", false, "false"},
		{"Nil", nil, ""},
		{"Float", 1.5, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.input))
		})
	}
}

func TestScanResults_AddRecord(t *testing.T) {
	results := NewScanResults("id", "/root")

	results.AddRecord(FileRecord{FullPath: "/root/a", Size: 0}, false)
	results.AddRecord(FileRecord{FullPath: "/root/.b", Size: 25, IsHidden: true}, true)
	results.AddRecord(FileRecord{FullPath: "/root/c", Size: 5}, false)
	results.AddError("/root/d")

	assert.Equal(t, 3, results.TotalFiles())
	assert.Equal(t, int64(30), results.Stats.TotalSize)
	assert.Equal(t, "/root/.b", results.Stats.LargestFile)
	assert.Equal(t, int64(25), results.Stats.LargestFileSize)
	assert.Equal(t, 1, results.Stats.HiddenFiles)
	assert.Equal(t, 1, results.Stats.Symlinks)
	assert.Equal(t, 1, results.Stats.StatErrors)
	assert.Equal(t, []string{"/root/d"}, results.Stats.ErrorFiles)
}

package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IvanShishkin/dirsheet/internal/config"
	"github.com/IvanShishkin/dirsheet/internal/filelock"
	"github.com/IvanShishkin/dirsheet/pkg/models"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func sampleRecords() []models.FileRecord {
	return []models.FileRecord{
		{
			Folder:       ".",
			FileName:     "a.txt",
			FullPath:     "/data/root/a.txt",
			Size:         10,
			ModifiedDate: "2024-05-01 10:00:00",
			CreatedDate:  "2024-04-30 09:00:00",
			Extension:    ".txt",
			IsReadable:   true,
			IsWritable:   true,
		},
		{
			Folder:       "sub",
			FileName:     ".b.txt",
			FullPath:     "/data/root/sub/.b.txt",
			Size:         0,
			ModifiedDate: "2024-05-02 11:30:15",
			CreatedDate:  "2024-05-02 11:30:15",
			Extension:    ".txt",
			IsHidden:     true,
			IsReadable:   true,
		},
		{
			Folder:       "sub/ünïcode",
			FileName:     "Makefile",
			FullPath:     "/data/root/sub/ünïcode/Makefile",
			Size:         123456789,
			ModifiedDate: "2024-05-03 00:00:01",
			CreatedDate:  "2024-05-03 00:00:01",
			Extension:    "",
			IsReadable:   true,
		},
	}
}

func newTestExporter(format string) *Exporter {
	return NewExporter(&config.Config{Format: format, SheetName: config.DefaultSheetName}, zap.NewNop())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{1500 * time.Microsecond, "1.50ms"},
		{2500 * time.Millisecond, "2.50s"},
		{90 * time.Second, "1m30.00s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h2m3.00s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestDefaultOutputFile(t *testing.T) {
	now := time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC)
	assert.Equal(t, "DIRSHEET-20240607-080910.xlsx", DefaultOutputFile("", now))
	assert.Equal(t, "DIRSHEET-20240607-080910.csv", DefaultOutputFile("csv", now))
}

func TestColumnWidths(t *testing.T) {
	widths := ColumnWidths(sampleRecords())
	require.Len(t, widths, len(models.Columns()))

	expected := []float64{
		float64(len([]rune("sub/ünïcode")) + 2),                     // Folder: longest value
		float64(len("File Name") + 2),                              // header wins
		float64(len([]rune("/data/root/sub/ünïcode/Makefile")) + 2), // Full Path
		float64(len("Size (Bytes)") + 2),                           // "123456789" is shorter
		float64(len("2024-05-01 10:00:00") + 2),
		float64(len("2024-05-01 10:00:00") + 2),
		float64(len("Extension") + 2),
		float64(len("Is Hidden") + 2),
		float64(len("Is Readable") + 2),
		float64(len("Is Writable") + 2),
	}
	assert.Equal(t, expected, widths)
}

func TestColumnWidths_CappedAtExcelMaximum(t *testing.T) {
	records := sampleRecords()[:1]
	records[0].FullPath = "/" + strings.Repeat("d", 300) + "/a.txt"

	widths := ColumnWidths(records)
	assert.Equal(t, float64(excelize.MaxColumnWidth), widths[2])
	assert.Equal(t, float64(len([]rune("Folder"))+2), widths[0])
}

func TestExport_XLSX_LongPath(t *testing.T) {
	output := filepath.Join(t.TempDir(), "long.xlsx")
	records := sampleRecords()[:1]
	records[0].FullPath = "/" + strings.Repeat("d", 300) + "/a.txt"

	require.NoError(t, newTestExporter("").ExportRecords(records, output))

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	width, err := f.GetColWidth(config.DefaultSheetName, "C")
	require.NoError(t, err)
	assert.InDelta(t, float64(excelize.MaxColumnWidth), width, 0.01)

	cell, err := f.GetCellValue(config.DefaultSheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, records[0].FullPath, cell)
}

func TestExport_XLSX(t *testing.T) {
	records := sampleRecords()
	output := filepath.Join(t.TempDir(), "details.xlsx")

	path, err := newTestExporter("").Export(&models.ScanResults{Records: records}, output)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Folder File Details"}, f.GetSheetList())

	rows, err := f.GetRows("Folder File Details")
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)
	assert.Equal(t, models.Columns(), rows[0])

	assert.Equal(t, []string{".", "a.txt", "/data/root/a.txt", "10"}, rows[1][:4])
	assert.Equal(t, "sub", rows[2][0])
	assert.Equal(t, ".b.txt", rows[2][1])
	assert.Equal(t, "0", rows[2][3])
	assert.Equal(t, "2024-05-02 11:30:15", rows[2][4])
	assert.Equal(t, "TRUE", rows[2][7])
	assert.Equal(t, "FALSE", rows[1][7])

	widths := ColumnWidths(records)
	for i, want := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		require.NoError(t, err)
		got, err := f.GetColWidth("Folder File Details", col)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0.01, "column %s", col)
	}
}

func TestExport_XLSX_CustomSheet(t *testing.T) {
	output := filepath.Join(t.TempDir(), "details.xlsx")
	exporter := NewExporter(&config.Config{SheetName: "Inventory"}, zap.NewNop())

	require.NoError(t, exporter.ExportRecords(sampleRecords(), output))

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Inventory"}, f.GetSheetList())
}

func TestExport_EmptyRecords(t *testing.T) {
	output := filepath.Join(t.TempDir(), "empty.xlsx")

	err := newTestExporter("").ExportRecords(nil, output)
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = newTestExporter("").Export(nil, output)
	assert.ErrorIs(t, err, ErrNoRecords)

	_, statErr := os.Stat(output)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestExport_MissingParentDirectory(t *testing.T) {
	output := filepath.Join(t.TempDir(), "missing", "details.xlsx")

	err := newTestExporter("").ExportRecords(sampleRecords(), output)
	require.Error(t, err)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, output, exportErr.Path)
	assert.Equal(t, "xlsx", exportErr.Format)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, statErr := os.Stat(filepath.Dir(output))
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestExport_Overwrites(t *testing.T) {
	output := filepath.Join(t.TempDir(), "details.xlsx")
	require.NoError(t, os.WriteFile(output, []byte("not a workbook"), 0644))

	records := sampleRecords()[:1]
	require.NoError(t, newTestExporter("").ExportRecords(records, output))

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(config.DefaultSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	entries, err := os.ReadDir(filepath.Dir(output))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp or lock files left behind")
}

func TestExport_DestinationLocked(t *testing.T) {
	output := filepath.Join(t.TempDir(), "details.xlsx")

	other := filelock.NewFileLock(output + ".lock")
	acquired, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, acquired)
	defer other.Unlock()

	err = newTestExporter("").ExportRecords(sampleRecords(), output)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.ErrorIs(t, err, filelock.ErrLocked)
	assert.NoFileExists(t, output)
}

func TestExport_UnknownFormat(t *testing.T) {
	output := filepath.Join(t.TempDir(), "details.pdf")

	err := newTestExporter("pdf").ExportRecords(sampleRecords(), output)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestExport_CSV(t *testing.T) {
	output := filepath.Join(t.TempDir(), "details.csv")
	records := sampleRecords()

	require.NoError(t, newTestExporter("").ExportRecords(records, output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)
	assert.Equal(t, models.Columns(), rows[0])
	assert.Equal(t, records[1].Strings(), rows[2])
}

func TestExport_JSON(t *testing.T) {
	output := filepath.Join(t.TempDir(), "details.json")
	results := models.NewScanResults("scan-1", "/data/root")
	for _, rec := range sampleRecords() {
		results.AddRecord(rec, false)
	}

	_, err := newTestExporter("json").Export(results, output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var decoded struct {
		Columns []string            `json:"columns"`
		ScanID  string              `json:"scan_id"`
		Records []models.FileRecord `json:"records"`
		Stats   struct {
			TotalSize int64 `json:"total_size"`
		} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, models.Columns(), decoded.Columns)
	assert.Equal(t, "scan-1", decoded.ScanID)
	assert.Equal(t, sampleRecords(), decoded.Records)
	assert.Equal(t, int64(123456799), decoded.Stats.TotalSize)
}

func TestExport_YAML(t *testing.T) {
	output := filepath.Join(t.TempDir(), "details.yml")
	results := models.NewScanResults("scan-2", "/data/root")
	results.Records = sampleRecords()

	_, err := newTestExporter("").Export(results, output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var decoded struct {
		Columns []string            `yaml:"columns"`
		ScanID  string              `yaml:"scan_id"`
		Records []models.FileRecord `yaml:"records"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, models.Columns(), decoded.Columns)
	assert.Equal(t, "scan-2", decoded.ScanID)
	assert.Equal(t, sampleRecords(), decoded.Records)
}

func TestExport_Markdown(t *testing.T) {
	output := filepath.Join(t.TempDir(), "details.md")
	records := sampleRecords()
	records[0].FileName = "pipe|name.txt"

	require.NoError(t, newTestExporter("").ExportRecords(records, output))

	src, err := os.ReadFile(output)
	require.NoError(t, err)

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	tables, rows, headerCells := 0, 0, 0
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case extast.KindTable:
			tables++
		case extast.KindTableRow:
			rows++
		case extast.KindTableHeader:
			headerCells = n.ChildCount()
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tables)
	assert.Equal(t, len(records), rows)
	assert.Equal(t, len(models.Columns()), headerCells)
	assert.Contains(t, string(src), `pipe\|name.txt`)
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	results := models.NewScanResults("id", "/data/root")
	for _, rec := range sampleRecords() {
		results.AddRecord(rec, false)
	}
	results.AddError("/data/root/denied.txt")
	results.TotalDirs = 3
	results.ReportPath = "/tmp/details.xlsx"

	var buf bytes.Buffer
	PrintSummary(&buf, results)
	out := buf.String()

	assert.Contains(t, out, "SCAN COMPLETE")
	assert.Contains(t, out, "/data/root")
	assert.True(t, strings.Contains(out, "Files:") && strings.Contains(out, " 3\n"))
	assert.Contains(t, out, "1 path(s) skipped")
	assert.Contains(t, out, "/data/root/denied.txt")
	assert.Contains(t, out, "✓ Saved: /tmp/details.xlsx")
}

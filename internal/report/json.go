package report

import (
	"encoding/json"
	"io"

	"github.com/IvanShishkin/dirsheet/pkg/models"
)

// JSONReport wraps scan results with the column order for JSON output
type JSONReport struct {
	Columns            []string `json:"columns" yaml:"columns"`
	models.ScanResults `yaml:",inline"`
}

func newJSONReport(results *models.ScanResults) *JSONReport {
	return &JSONReport{
		Columns:     models.Columns(),
		ScanResults: *results,
	}
}

// writeJSON generates a JSON report
func writeJSON(w io.Writer, results *models.ScanResults) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newJSONReport(results))
}

package report

import (
	"io"

	"github.com/IvanShishkin/dirsheet/pkg/models"
	"gopkg.in/yaml.v3"
)

// writeYAML generates a YAML report with the same layout as the JSON one
func writeYAML(w io.Writer, results *models.ScanResults) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newJSONReport(results)); err != nil {
		return err
	}
	return enc.Close()
}

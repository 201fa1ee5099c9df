package report

import (
	"encoding/csv"
	"io"

	"github.com/IvanShishkin/dirsheet/pkg/models"
)

// writeCSV writes a header row and one row per record
func writeCSV(w io.Writer, records []models.FileRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(models.Columns()); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Strings()); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

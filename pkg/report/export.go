package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// ExportCSV writes data (a slice of csv-tagged structs) as tab-separated values.
func ExportCSV(data any, w io.Writer) error {
	// Use tabs as separators.
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '\t'
		return gocsv.NewSafeCSVWriter(w)
	})
	if err := gocsv.Marshal(data, w); err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	return nil
}

// ExportCSVFile is ExportCSV into a newly created file. An empty fileName
// writes to stdout.
func ExportCSVFile(data any, fileName string) error {
	if fileName == "" {
		return ExportCSV(data, os.Stdout)
	}
	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", fileName, err)
	}
	defer f.Close()
	if err := ExportCSV(data, f); err != nil {
		return fmt.Errorf("failed to export %q: %w", fileName, err)
	}
	return nil
}

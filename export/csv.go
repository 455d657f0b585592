package export

import (
	"context"
	"encoding/csv"
	"os"

	"quotes-scraper/models"

	"github.com/cockroachdb/errors"
)

// CSVWriter writes quotes to a comma-delimited file
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer for the given destination path
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the destination file path
func (w *CSVWriter) Path() string {
	return w.path
}

// Export implements the Exporter interface
func (w *CSVWriter) Export(ctx context.Context, quotes []models.Quote) error {
	return WriteCSV(w.path, quotes)
}

// WriteCSV creates or truncates path and writes a header row followed by
// one row per quote
func WriteCSV(path string, quotes []models.Quote) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", path)
		}
	}()

	cw := csv.NewWriter(file)
	if err := cw.Write(models.QuoteFields); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for i, q := range quotes {
		if err := cw.Write(Row(q)); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i+1)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrapf(err, "failed to flush %s", path)
	}
	return nil
}

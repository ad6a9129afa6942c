package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"expdata/internal/state"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
)

// ExportService serializes extraction tables
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteCSV writes the header row followed by every table row
func (e *ExportService) WriteCSV(w io.Writer, t *state.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Headers); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return errors.Wrap(err, "writing csv rows")
	}
	return nil
}

// WriteCSVFile writes the table to path. The file only appears once it is complete.
func (e *ExportService) WriteCSVFile(path string, t *state.Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating csv file")
	}
	defer os.Remove(tmp.Name())

	if err := e.WriteCSV(tmp, t); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing csv file")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(err, "setting csv permissions")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "moving csv into place")
	}
	return nil
}

// RenderPreview prints the first limit rows of the given columns as a table.
// limit <= 0 prints every row.
func (e *ExportService) RenderPreview(w io.Writer, t *state.Table, columns []string, limit int) error {
	rows := t.Project(columns)
	total := len(rows)
	if limit > 0 && total > limit {
		rows = rows[:limit]
	}

	preview := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(rows...)

	if _, err := fmt.Fprintln(w, preview.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "[%d rows x %d columns]\n", total, len(t.Headers))
	return err
}

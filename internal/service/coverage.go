package service

import (
	"fmt"
	"io"
	"strings"

	"expdata/internal/analysis"
	"expdata/internal/models"
	"expdata/internal/state"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// CoverageProfiler counts filled cells per output column
type CoverageProfiler struct{}

// NewCoverageProfiler creates a new profiler
func NewCoverageProfiler() *CoverageProfiler {
	return &CoverageProfiler{}
}

// ProfileColumn analyzes a single column of t
func (c *CoverageProfiler) ProfileColumn(t *state.Table, colIdx int) models.ColumnCoverage {
	coverage := models.ColumnCoverage{
		Column: t.Headers[colIdx],
		Rows:   len(t.Rows),
	}

	distinct := make(map[string]struct{})
	for _, row := range t.Rows {
		if colIdx >= len(row) || row[colIdx] == "" {
			continue
		}
		value := row[colIdx]
		coverage.Filled++
		distinct[value] = struct{}{}

		// a cell joins every answer of the day; count it once if any of them was missed
		for _, part := range strings.Split(value, analysis.ValueSeparator) {
			if part == models.AnswerNoResponse {
				coverage.NoResponse++
				break
			}
		}
	}
	coverage.Distinct = len(distinct)

	if coverage.Rows > 0 {
		coverage.FillRate = float64(coverage.Filled) / float64(coverage.Rows)
	}
	return coverage
}

// Profile analyzes every column of t in header order
func (c *CoverageProfiler) Profile(t *state.Table) []models.ColumnCoverage {
	profiles := make([]models.ColumnCoverage, len(t.Headers))
	for i := range t.Headers {
		profiles[i] = c.ProfileColumn(t, i)
	}
	return profiles
}

// Render prints the profiles as a table
func (c *CoverageProfiler) Render(w io.Writer, profiles []models.ColumnCoverage) error {
	rows := make([][]string, len(profiles))
	for i, p := range profiles {
		rows[i] = []string{
			p.Column,
			fmt.Sprintf("%d/%d", p.Filled, p.Rows),
			fmt.Sprintf("%.0f%%", p.FillRate*100),
			fmt.Sprint(p.Distinct),
			fmt.Sprint(p.NoResponse),
		}
	}

	out := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("column", "filled", "rate", "distinct", "no response").
		Rows(rows...)

	_, err := fmt.Fprintln(w, out.Render())
	return err
}

package state

import (
	"sync"
	"time"
)

// Table is a flattened extraction result with a fixed header
type Table struct {
	Headers []string
	Rows    [][]string
}

// ColumnIndex returns the position of a header, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Project returns the rows restricted to the given columns, in that order.
// Unknown columns render empty.
func (t *Table) Project(columns []string) [][]string {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.ColumnIndex(c)
	}

	out := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		projected := make([]string, len(columns))
		for i, j := range idx {
			if j >= 0 && j < len(row) {
				projected[i] = row[j]
			}
		}
		out[r] = projected
	}
	return out
}

// Extraction is a completed run for one experiment
type Extraction struct {
	ExperimentID string
	Participants int
	Table        *Table
	OutputPath   string
	CompletedAt  time.Time
}

// AppState holds the extractions the server has completed
type AppState struct {
	mu sync.RWMutex

	extractions map[string]*Extraction
}

// NewAppState creates an empty state
func NewAppState() *AppState {
	return &AppState{extractions: make(map[string]*Extraction)}
}

// SetExtraction stores the latest extraction for an experiment
func (s *AppState) SetExtraction(e *Extraction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.extractions[e.ExperimentID] = e
}

// GetExtraction retrieves the latest extraction for an experiment
func (s *AppState) GetExtraction(experimentID string) *Extraction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.extractions[experimentID]
}

// ClearExtraction drops an experiment's extraction, or all of them when experimentID is nil
func (s *AppState) ClearExtraction(experimentID *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if experimentID == nil {
		s.extractions = make(map[string]*Extraction)
		return
	}
	delete(s.extractions, *experimentID)
}

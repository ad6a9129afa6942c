package models

// TableResponse is returned by /api/extract when format=json
type TableResponse struct {
	Participants int        `json:"participants"`
	Headers      []string   `json:"headers"`
	Rows         [][]string `json:"rows"`
}

// ExtractResponse is returned after an experiment was extracted from the results directory
type ExtractResponse struct {
	Message      string `json:"message"`
	ExperimentID string `json:"experiment_id"`
	Participants int    `json:"participants"`
	Rows         int    `json:"rows"`
	OutputPath   string `json:"output_path"`
}

// PreviewResponse is returned by /api/experiments/{experimentID}/preview
type PreviewResponse struct {
	ExperimentID string              `json:"experiment_id"`
	TotalRows    int                 `json:"total_rows"`
	Columns      []string            `json:"columns"`
	Data         []map[string]string `json:"data"`
}

// ErrorResponse carries a failure message for JSON clients
type ErrorResponse struct {
	Error string `json:"error"`
}

// ColumnCoverage describes how much of an output column an extraction filled
type ColumnCoverage struct {
	Column     string  `json:"column"`
	Rows       int     `json:"rows"`
	Filled     int     `json:"filled"`
	FillRate   float64 `json:"fill_rate"`
	Distinct   int     `json:"distinct"`
	NoResponse int     `json:"no_response"`
}

// CoverageResponse is returned by /api/experiments/{experimentID}/coverage
type CoverageResponse struct {
	ExperimentID string           `json:"experiment_id"`
	Columns      []ColumnCoverage `json:"columns"`
}

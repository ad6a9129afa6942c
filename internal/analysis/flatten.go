package analysis

import (
	"sort"
	"strconv"

	"expdata/internal/state"

	"github.com/pkg/errors"
)

// ErrDayOutOfRange is returned when a recorded stage day exceeds the schema's day bound
var ErrDayOutOfRange = errors.New("stage day out of range")

// Row is one (participant, stage, day) record keyed by column
type Row map[string]string

// Flatten emits one row per participant, expected stage and day.
// A stage yields max(expected days, highest recorded day) rows so no recorded day is
// dropped. maxDays bounds that count; zero disables the bound.
func Flatten(records []*ParticipantRecord, stages []StageDays, maxDays int) ([]Row, error) {
	var rows []Row
	for _, record := range records {
		profile := record.Profile.Fields()

		for _, stage := range stages {
			days := stage.Days
			if recorded, ok := record.Stages.MaxDay(stage.Name); ok && recorded > days {
				days = recorded
			}
			if maxDays > 0 && days > maxDays {
				return nil, errors.Wrapf(ErrDayOutOfRange, "participant %s stage %s day %d (max %d)",
					record.UniqueID, stage.Name, days, maxDays)
			}

			for day := 1; day <= days; day++ {
				row := make(Row)
				if fields, ok := record.Stages.Day(stage.Name, day); ok {
					for field, cell := range fields {
						row[field] = cell.String()
					}
				}
				row[ColumnUniqueID] = record.UniqueID
				row[ColumnStageDay] = strconv.Itoa(day)
				row[ColumnStageName] = stage.Name
				for k, v := range profile {
					row[k] = v
				}
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

// TableFromRows lays rows out under a fixed header. Fields outside the header are dropped.
func TableFromRows(rows []Row, columns []string) *state.Table {
	table := &state.Table{
		Headers: append([]string(nil), columns...),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, c := range columns {
			record[i] = row[c]
		}
		table.Rows = append(table.Rows, record)
	}
	return table
}

// UnlistedFields returns the sorted field names present in rows but missing from columns
func UnlistedFields(rows []Row, columns []string) []string {
	listed := toSet(columns)
	found := make(map[string]bool)
	for _, row := range rows {
		for field := range row {
			if !listed[field] {
				found[field] = true
			}
		}
	}

	fields := make([]string, 0, len(found))
	for field := range found {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

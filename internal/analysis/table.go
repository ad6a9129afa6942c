package analysis

import "strings"

// ValueSeparator joins repeated values of one field and the values of a multi-value answer
const ValueSeparator = "|"

// Cell holds every value written to one field on one stage day, in write order
type Cell []string

func (c Cell) String() string {
	return strings.Join(c, ValueSeparator)
}

// DayFields maps a field name to its cell
type DayFields map[string]Cell

// StageTable is the stage -> day -> field table accumulated for one participant
type StageTable map[string]map[int]DayFields

// Add appends value to the field's cell, creating the stage and day on first use.
// Newlines become periods so a value never spans rows in line oriented tools.
func (t StageTable) Add(stage string, day int, field, value string) {
	days, ok := t[stage]
	if !ok {
		days = make(map[int]DayFields)
		t[stage] = days
	}
	fields, ok := days[day]
	if !ok {
		fields = make(DayFields)
		days[day] = fields
	}
	fields[field] = append(fields[field], strings.ReplaceAll(value, "\n", "."))
}

// Day returns the fields recorded for a stage day
func (t StageTable) Day(stage string, day int) (DayFields, bool) {
	fields, ok := t[stage][day]
	return fields, ok
}

// MaxDay returns the highest day recorded for a stage
func (t StageTable) MaxDay(stage string) (int, bool) {
	days, ok := t[stage]
	if !ok || len(days) == 0 {
		return 0, false
	}
	highest := 0
	for day := range days {
		if day > highest {
			highest = day
		}
	}
	return highest, true
}

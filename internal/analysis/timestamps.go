package analysis

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// TimestampParser parses the answer timestamps written by the platform
type TimestampParser struct {
	layouts []string
}

// NewTimestampParser creates a parser for the layouts seen in platform exports
func NewTimestampParser() *TimestampParser {
	return &TimestampParser{
		layouts: []string{
			time.RFC3339Nano,             // moment().format(): 2021-05-03T09:15:00+02:00
			"2006-01-02T15:04:05Z0700",   // offset without colon
			"2006-01-02T15:04:05.999999", // naive, fractional
			"2006-01-02T15:04:05",        // naive
			"2006-01-02 15:04:05Z07:00",  // SQL style with offset
			"2006-01-02 15:04:05",        // SQL datetime
		},
	}
}

// Parse returns the instant a timestamp names. Naive timestamps are read as UTC.
func (tp *TimestampParser) Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range tp.layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized timestamp %q", value)
}

// ElapsedSeconds returns end - start in whole seconds, truncated toward zero
func (tp *TimestampParser) ElapsedSeconds(start, end string) (int64, error) {
	s, err := tp.Parse(start)
	if err != nil {
		return 0, errors.Wrap(err, "start")
	}
	e, err := tp.Parse(end)
	if err != nil {
		return 0, errors.Wrap(err, "end")
	}
	return int64(e.Sub(s) / time.Second), nil
}

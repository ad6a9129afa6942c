package service

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ListService turns line-delimited word lists into JSON arrays
type ListService struct {
	logger *zap.Logger
}

// NewListService creates a new list converter
func NewListService(logger *zap.Logger) *ListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListService{logger: logger}
}

// ReadLines returns every line of r with surrounding whitespace stripped.
// A trailing newline does not start an extra line; blank lines in between are kept.
func (l *ListService) ReadLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading list")
	}

	items := make([]string, 0)
	if len(data) == 0 {
		return items, nil
	}

	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		items = append(items, strings.TrimSpace(line))
	}
	return items, nil
}

// Encode serializes items as a JSON array without a trailing newline
func (l *ListService) Encode(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return nil, errors.Wrap(err, "encoding list")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Convert reads a list from r and returns its JSON encoding
func (l *ListService) Convert(r io.Reader) ([]byte, error) {
	items, err := l.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return l.Encode(items)
}

// ConvertFile rewrites path in place with the JSON array of its trimmed lines.
// The transform is one way: converting the output again wraps the whole JSON text
// into a single element instead of reproducing the list.
func (l *ListService) ConvertFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "opening list")
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening list")
	}
	out, err := l.Convert(f)
	f.Close()
	if err != nil {
		return errors.Wrapf(err, "converting %s", path)
	}

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	l.logger.Debug("Converted list", zap.String("path", path), zap.Int("bytes", len(out)))
	return nil
}

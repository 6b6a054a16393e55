package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/guimove/ptufit/internal/model"
)

// Required columns, matched case-insensitively with surrounding whitespace
// and bracketed qualifiers ("timestamp [UTC]") tolerated. "total tokens" is
// accepted but ignored: totals are always derived.
const (
	colTimestamp = "timestamp"
	colInput     = "input tokens"
	colOutput    = "output tokens"
)

// timestampLayouts are tried in order. The comma form matches the usage
// export format "8/18/2025, 12:00:38.941 AM".
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"1/2/2006, 3:04:05.999 PM",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006 15:04:05",
}

// CSVSource reads a usage export CSV from disk.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source for the given CSV file path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// SourceType returns "csv".
func (s *CSVSource) SourceType() string { return "csv" }

// Load parses the CSV into a Dataset. Timestamps are interpreted as UTC.
func (s *CSVSource) Load(ctx context.Context) (*model.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening usage file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	ds.Name = filepath.Base(s.path)
	return ds, nil
}

// Parse reads usage CSV from r. The header row is required and columns may
// appear in any order; extra columns are ignored.
func Parse(r io.Reader) (*model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &model.DataError{Reason: "empty file"}
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	ds := &model.Dataset{}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		req, err := parseRow(record, cols)
		if err != nil {
			return nil, &model.DataError{Reason: fmt.Sprintf("line %d: %v", line, err)}
		}
		ds.Requests = append(ds.Requests, req)
	}

	if len(ds.Requests) == 0 {
		return nil, ErrEmptyDataset
	}
	return ds, nil
}

type columnIndexes struct {
	timestamp int
	input     int
	output    int
}

// mapColumns resolves header names to field positions. Matching is
// case-insensitive; underscores are treated as spaces and a bracketed
// qualifier after the name is dropped.
func mapColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{timestamp: -1, input: -1, output: -1}
	for i, h := range header {
		switch normalizeHeader(h) {
		case colTimestamp:
			cols.timestamp = i
		case colInput:
			cols.input = i
		case colOutput:
			cols.output = i
		}
	}

	var missing []string
	if cols.timestamp == -1 {
		missing = append(missing, colTimestamp)
	}
	if cols.input == -1 {
		missing = append(missing, colInput)
	}
	if cols.output == -1 {
		missing = append(missing, colOutput)
	}
	if len(missing) > 0 {
		return cols, &model.DataError{
			Reason: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}
	}
	return cols, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	// Drop bracketed qualifiers: "timestamp [utc]" -> "timestamp"
	if i := strings.Index(h, "["); i >= 0 {
		h = strings.TrimSpace(h[:i])
	}
	return strings.Join(strings.Fields(h), " ")
}

func parseRow(record []string, cols columnIndexes) (model.Request, error) {
	maxIdx := cols.timestamp
	if cols.input > maxIdx {
		maxIdx = cols.input
	}
	if cols.output > maxIdx {
		maxIdx = cols.output
	}
	if len(record) <= maxIdx {
		return model.Request{}, fmt.Errorf("expected at least %d fields, got %d", maxIdx+1, len(record))
	}

	ts, err := parseTimestamp(record[cols.timestamp])
	if err != nil {
		return model.Request{}, err
	}
	input, err := parseTokens("input tokens", record[cols.input])
	if err != nil {
		return model.Request{}, err
	}
	output, err := parseTokens("output tokens", record[cols.output])
	if err != nil {
		return model.Request{}, err
	}

	return model.Request{Timestamp: ts, InputTokens: input, OutputTokens: output}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func parseTokens(field, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: not an integer: %q", field, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: negative count %d", field, n)
	}
	return n, nil
}

// Package imports turns uploaded CSV files into leads.
package imports

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Lead fields a CSV column can map onto.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldCompany = "company"
	FieldStatus  = "status"
	FieldSource  = "source"
	FieldNotes   = "notes"
)

// Fields lists every mappable field in form order.
var Fields = []string{FieldName, FieldEmail, FieldPhone, FieldCompany, FieldStatus, FieldSource, FieldNotes}

// RequiredFields must be mapped and non-empty on every row.
var RequiredFields = []string{FieldName, FieldEmail}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrEmptyFile is returned when the upload has no header row.
var ErrEmptyFile = errors.New("csv file is empty")

// Config holds limits for parsing an upload.
type Config struct {
	MaxRows      int // Maximum data rows (0 = unlimited)
	PreviewRows  int
	ReportErrors int // Errors listed before summarising the rest
}

// DefaultConfig returns the limits used by the API.
func DefaultConfig() Config {
	return Config{
		MaxRows:      5000,
		PreviewRows:  5,
		ReportErrors: 10,
	}
}

// Sheet is a parsed CSV file. Lines[i] is the file line Rows[i] starts on.
type Sheet struct {
	Headers []string
	Rows    [][]string
	Lines   []int
}

// Row is one data row keyed by lead field. Line is the 1-based line in the
// file, counting the header as line 1.
type Row struct {
	Line   int
	Values map[string]string
}

// RowError describes a problem with a single row.
type RowError struct {
	Row     int
	Field   string
	Message string
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// Result is the outcome of validating a sheet against a mapping.
type Result struct {
	Rows   []Row
	Errors []RowError
}

// Valid reports whether the sheet can be imported.
func (r Result) Valid() bool {
	return len(r.Errors) == 0 && len(r.Rows) > 0
}

// Parse reads a CSV upload. Blank lines are skipped.
func Parse(r io.Reader, cfg Config) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	sheet := &Sheet{Headers: headers}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if isBlank(record) {
			continue
		}
		if cfg.MaxRows > 0 && len(sheet.Rows) >= cfg.MaxRows {
			return nil, fmt.Errorf("csv file exceeds %d rows", cfg.MaxRows)
		}
		line, _ := reader.FieldPos(0)
		sheet.Rows = append(sheet.Rows, record)
		sheet.Lines = append(sheet.Lines, line)
	}
	return sheet, nil
}

// AutoMap guesses which header feeds each field. Exact header names win,
// then headers containing a field key, taking the longest key so that
// "Company Name" maps to company. "full"/"first" also map to name.
func AutoMap(headers []string) map[string]string {
	mapping := make(map[string]string)
	used := make(map[string]bool)

	for _, field := range Fields {
		for _, h := range headers {
			if !used[h] && strings.EqualFold(h, field) {
				mapping[field] = h
				used[h] = true
				break
			}
		}
	}

	for _, h := range headers {
		if used[h] {
			continue
		}
		lower := strings.ToLower(h)
		best := ""
		for _, field := range Fields {
			if _, done := mapping[field]; done || len(field) <= len(best) {
				continue
			}
			if strings.Contains(lower, field) ||
				(field == FieldName && (strings.Contains(lower, "full") || strings.Contains(lower, "first"))) {
				best = field
			}
		}
		if best != "" {
			mapping[best] = h
			used[h] = true
		}
	}
	return mapping
}

// Validate maps every row and checks required fields and email format.
func Validate(sheet *Sheet, mapping map[string]string) Result {
	var result Result

	index := make(map[string]int, len(sheet.Headers))
	for i, h := range sheet.Headers {
		index[h] = i
	}

	for _, field := range RequiredFields {
		header, ok := mapping[field]
		if _, present := index[header]; !ok || !present {
			result.Errors = append(result.Errors, RowError{Field: field, Message: fmt.Sprintf("Column for %s is not mapped", field)})
		}
	}
	if len(result.Errors) > 0 {
		return result
	}

	for _, row := range MapRows(sheet, mapping, 0) {
		rowValid := true
		for _, field := range RequiredFields {
			if row.Values[field] == "" {
				result.Errors = append(result.Errors, RowError{Row: row.Line, Field: field, Message: "Missing " + field})
				rowValid = false
			}
		}
		if email := row.Values[FieldEmail]; email != "" && !emailPattern.MatchString(email) {
			result.Errors = append(result.Errors, RowError{Row: row.Line, Field: FieldEmail, Message: "Invalid email format"})
			rowValid = false
		}
		if rowValid {
			result.Rows = append(result.Rows, row)
		}
	}

	if len(sheet.Rows) == 0 {
		result.Errors = append(result.Errors, RowError{Message: "No data rows found"})
	}
	return result
}

// MapRows keys the first limit rows (all rows when limit is 0) by lead field
// without validating them. Unmapped fields are left out.
func MapRows(sheet *Sheet, mapping map[string]string, limit int) []Row {
	index := make(map[string]int, len(sheet.Headers))
	for i, h := range sheet.Headers {
		index[h] = i
	}

	n := len(sheet.Rows)
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([]Row, 0, n)
	for i, record := range sheet.Rows[:n] {
		row := Row{Line: sheet.line(i), Values: make(map[string]string, len(mapping))}
		for field, header := range mapping {
			col, ok := index[header]
			if !ok || col >= len(record) {
				continue
			}
			row.Values[field] = strings.TrimSpace(record[col])
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Sheet) line(i int) int {
	if i < len(s.Lines) && s.Lines[i] > 0 {
		return s.Lines[i]
	}
	return i + 2
}

// FormatErrors renders errors for display, listing at most limit entries
// followed by a summary of the rest.
func FormatErrors(errs []RowError, limit int) []string {
	out := make([]string, 0, min(len(errs), limit)+1)
	for i, e := range errs {
		if limit > 0 && i >= limit {
			out = append(out, fmt.Sprintf("... and %d more errors", len(errs)-limit))
			break
		}
		if e.Row == 0 {
			out = append(out, e.Message)
			continue
		}
		out = append(out, e.String())
	}
	return out
}

// Template returns a CSV file with the expected header and one sample row.
func Template() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Fields)
	_ = w.Write([]string{"Jane Doe", "jane@example.com", "(201) 555-0123", "Acme Wellness", "New Leads", "referral", "Met at spring expo"})
	w.Flush()
	return buf.Bytes()
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

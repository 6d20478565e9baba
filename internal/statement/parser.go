// Package statement turns raw bank statement CSV bytes into typed rows with
// per-row errors. It is format-tolerant: delimiter and encoding are detected,
// dates and amounts are parsed through ordered fallback strategies, and a bad
// row never aborts the rest of the file.
package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// Column names recognized in the header row (case-insensitive).
const (
	colDate        = "date"
	colDescription = "description"
	colAmount      = "amount"
	colReference   = "reference"
	colBalance     = "balance"
)

// ParsedRow is one successfully parsed statement line.
type ParsedRow struct {
	RowNumber      int // 1-based, header excluded
	Date           time.Time
	Description    string // Normalized for rule matching
	RawDescription string
	Reference      string
	Amount         decimal.Decimal // Signed: positive inflow, negative outflow
	Balance        *decimal.Decimal
	RawFields      map[string]string
}

// RowError is a per-row parse failure. Collected, never thrown.
type RowError struct {
	RowNumber int
	Reason    string
	RawFields map[string]string
}

// Summary aggregates over successfully parsed rows only.
type Summary struct {
	RowCount int
	TotalIn  decimal.Decimal
	TotalOut decimal.Decimal
	MinDate  *time.Time
	MaxDate  *time.Time
}

// Result bundles the parser outputs for one file.
type Result struct {
	Rows    []ParsedRow
	Errors  []RowError
	Summary Summary
}

// Parser parses statement CSVs for one configured bank format.
type Parser struct {
	format Format
}

// NewParser creates a parser for the given statement format variant.
func NewParser(format domain.StatementFormat) *Parser {
	return &Parser{format: FormatFor(format)}
}

// Parse decodes and parses raw CSV bytes. A file-level problem (empty file,
// undecodable bytes, missing required headers) fails the whole parse; row
// level problems are collected into Result.Errors.
func (p *Parser) Parse(raw []byte) (*Result, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, apperrors.NewValidationError("statement file is empty")
	}

	text, err := decodeBytes(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("statement file is neither valid UTF-8 nor Latin-1")
	}

	delimiter := detectDelimiter(text)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Summary: Summary{TotalIn: decimal.Zero, TotalOut: decimal.Zero},
	}

	rowNum := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				RowNumber: rowNum,
				Reason:    fmt.Sprintf("malformed CSV row: %v", err),
				RawFields: map[string]string{},
			})
			continue
		}
		if isBlank(record) {
			rowNum-- // Blank rows are skipped silently and not counted.
			continue
		}

		fields := header.fieldMap(record)
		row, rowErr := p.parseRow(rowNum, fields)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}
		result.Rows = append(result.Rows, row)
		accumulate(&result.Summary, row)
	}

	return result, nil
}

// parseRow converts one field map into a ParsedRow or a RowError.
func (p *Parser) parseRow(rowNum int, fields map[string]string) (ParsedRow, *RowError) {
	rowErr := func(reason string) *RowError {
		return &RowError{RowNumber: rowNum, Reason: reason, RawFields: fields}
	}

	dateStr, ok := fields[colDate]
	if !ok || strings.TrimSpace(dateStr) == "" {
		return ParsedRow{}, rowErr("missing required field: date")
	}
	descStr, ok := fields[colDescription]
	if !ok || strings.TrimSpace(descStr) == "" {
		return ParsedRow{}, rowErr("missing required field: description")
	}
	amountStr, ok := fields[colAmount]
	if !ok || strings.TrimSpace(amountStr) == "" {
		return ParsedRow{}, rowErr("missing required field: amount")
	}

	date, err := p.format.ParseDate(dateStr)
	if err != nil {
		return ParsedRow{}, rowErr(fmt.Sprintf("invalid date %q", dateStr))
	}
	amount, err := p.format.ParseAmount(amountStr)
	if err != nil {
		return ParsedRow{}, rowErr(fmt.Sprintf("invalid amount %q", amountStr))
	}

	row := ParsedRow{
		RowNumber:      rowNum,
		Date:           date,
		Description:    p.format.ParseDescription(descStr),
		RawDescription: strings.TrimSpace(descStr),
		Reference:      strings.TrimSpace(fields[colReference]),
		Amount:         amount,
		RawFields:      fields,
	}

	if balStr := strings.TrimSpace(fields[colBalance]); balStr != "" {
		// Balance is optional; an unparseable balance does not fail the row.
		if bal, err := p.format.ParseAmount(balStr); err == nil {
			row.Balance = &bal
		}
	}

	return row, nil
}

func accumulate(s *Summary, row ParsedRow) {
	s.RowCount++
	if row.Amount.Sign() >= 0 {
		s.TotalIn = s.TotalIn.Add(row.Amount)
	} else {
		s.TotalOut = s.TotalOut.Add(row.Amount)
	}
	d := row.Date
	if s.MinDate == nil || d.Before(*s.MinDate) {
		s.MinDate = &d
	}
	if s.MaxDate == nil || d.After(*s.MaxDate) {
		s.MaxDate = &d
	}
}

// decodeBytes tries UTF-8 (with optional BOM) first, then Latin-1.
func decodeBytes(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// detectDelimiter compares semicolon vs comma counts in the first line.
func detectDelimiter(text string) rune {
	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

// headerIndex maps canonical column names to their position in the file.
type headerIndex struct {
	columns []string // lowercased header cells, positional
}

func readHeader(reader *csv.Reader) (*headerIndex, error) {
	record, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewValidationError("statement file has no header row")
	}
	h := &headerIndex{columns: make([]string, len(record))}
	for i, cell := range record {
		h.columns[i] = strings.ToLower(strings.TrimSpace(cell))
	}
	for _, required := range []string{colDate, colDescription, colAmount} {
		if !h.has(required) {
			return nil, apperrors.NewValidationError("statement header is missing required column: " + required)
		}
	}
	return h, nil
}

func (h *headerIndex) has(name string) bool {
	for _, c := range h.columns {
		if c == name {
			return true
		}
	}
	return false
}

// fieldMap pairs header names with the record's cells. Extra cells beyond the
// header width are kept under positional keys so the raw row stays auditable.
func (h *headerIndex) fieldMap(record []string) map[string]string {
	fields := make(map[string]string, len(record))
	for i, cell := range record {
		if i < len(h.columns) && h.columns[i] != "" {
			fields[h.columns[i]] = cell
		} else {
			fields[fmt.Sprintf("col_%d", i)] = cell
		}
	}
	return fields
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

package engine

import (
	"bytes"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// LoadDataset reads a comma-delimited file with a header row.
// Every cell is trimmed and parsed as a float; blank, non-numeric and
// non-finite cells are left out of the record.
func LoadDataset(fsys afero.Fs, path string, logger *zap.Logger) (*Dataset, error) {
	start := time.Now()
	logger.Info("loading dataset", zap.String("path", path))

	// A. Read file
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	columns, err := headerColumns(content)
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	ds := &Dataset{Source: path, Columns: columns}

	// B. Tokenize with a fixed all-text schema, whole file as one record batch.
	// Types are not inferred: a column may mix whole and fractional values.
	fields := make([]arrow.Field, len(columns))
	for i, name := range columns {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	r := csv.NewReader(bytes.NewReader(content), arrow.NewSchema(fields, nil),
		csv.WithHeader(true),
		csv.WithChunk(-1),
		csv.WithAllocator(memory.NewGoAllocator()),
	)
	defer r.Release()

	for r.Next() {
		ds.Records = append(ds.Records, toRecords(r.Record())...)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	logger.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", ds.Len()),
		zap.Strings("columns", ds.Columns),
		zap.Duration("took", time.Since(start)))
	return ds, nil
}

// toRecords converts one arrow batch of text columns into row records.
func toRecords(rec arrow.Record) []Record {
	nRows := int(rec.NumRows())
	nCols := int(rec.NumCols())

	rows := make([]Record, nRows)
	for i := range rows {
		rows[i] = make(Record, nCols)
	}

	for c := 0; c < nCols; c++ {
		name := rec.ColumnName(c)
		col, ok := rec.Column(c).(*array.String)
		if !ok {
			continue
		}
		for i := 0; i < nRows; i++ {
			if !col.IsValid(i) {
				continue
			}
			if v, ok := parseCell(col.Value(i)); ok {
				rows[i][name] = v
			}
		}
	}
	return rows
}

// parseCell accepts trimmed finite numbers only.
func parseCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// headerColumns returns the trimmed names on the first record.
func headerColumns(content []byte) ([]string, error) {
	hr := stdcsv.NewReader(bytes.NewReader(content))
	hr.FieldsPerRecord = -1
	names, err := hr.Read()
	if err != nil {
		return nil, err
	}
	for i, n := range names {
		names[i] = strings.TrimSpace(n)
	}
	return names, nil
}

// LoadRules reads the auxiliary rules file, one rule per line. The content is
// only exposed for display; selection always uses the built-in RuleSet.
// A missing file yields no lines.
func LoadRules(fsys afero.Fs, path string, logger *zap.Logger) ([]string, error) {
	content, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("rules file not found", zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	logger.Debug("rules loaded", zap.String("path", path), zap.Int("lines", len(lines)))
	return lines, nil
}

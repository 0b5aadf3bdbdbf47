package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/xuri/excelize/v2"
)

// ErrEmptyFile is returned when an input has no header row.
var ErrEmptyFile = errors.New("file has no header row")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile loads a table from disk. Files ending in .xlsx are read from their
// first sheet; everything else is parsed as comma-separated text with a
// header row.
func ReadFile(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		t, err := readXLSX(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses comma-separated text with a header row. All columns are
// read as nullable strings; empty cells are null.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	mem := memory.DefaultAllocator
	rdr := arrowcsv.NewReader(bytes.NewReader(data), stringSchema(header),
		arrowcsv.WithAllocator(mem),
		arrowcsv.WithHeader(true),
		arrowcsv.WithChunk(-1),
		arrowcsv.WithNullReader(true, ""),
	)
	defer rdr.Release()

	if !rdr.Next() {
		if err := rdr.Err(); err != nil {
			return nil, fmt.Errorf("parse rows: %w", err)
		}
		return fromRows(mem, header, nil)
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("parse rows: %w", err)
	}

	// the reader names fields from the raw header, so reapply the unique names
	raw := rdr.Record()
	rec := array.NewRecord(stringSchema(header), raw.Columns(), raw.NumRows())
	return newTable(rec, mem), nil
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	header := rows[0]
	body := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, fmt.Errorf("sheet %q row %d: got %d fields, want %d", sheets[0], i+2, len(row), len(header))
		}
		// trailing empty cells are trimmed by excelize
		padded := make([]string, len(header))
		copy(padded, row)
		body = append(body, padded)
	}
	return FromRows(header, body)
}

// Package table provides an immutable, column-oriented table of string cells
// backed by Apache Arrow records. Every cell is either a string or null; empty
// input cells are read as null.
package table

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ErrNoTables is returned by Concat when called without inputs.
var ErrNoTables = errors.New("no tables to concatenate")

// Shape is the (rows, columns) pair shown in the dataset overview.
type Shape struct {
	Rows int
	Cols int
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
}

// Table wraps an Arrow record whose columns are all of type utf8.
// Tables must be released when no longer needed.
type Table struct {
	rec arrow.Record
	mem memory.Allocator
}

func newTable(rec arrow.Record, mem memory.Allocator) *Table {
	return &Table{rec: rec, mem: mem}
}

// FromRows builds a table from a header and string rows. Empty strings become
// nulls. Every row must have exactly len(header) cells.
func FromRows(header []string, rows [][]string) (*Table, error) {
	return fromRows(memory.DefaultAllocator, header, rows)
}

func fromRows(mem memory.Allocator, header []string, rows [][]string) (*Table, error) {
	builders := make([]*array.StringBuilder, len(header))
	for i := range builders {
		builders[i] = array.NewStringBuilder(mem)
		builders[i].Reserve(len(rows))
	}
	defer func() {
		for _, b := range builders {
			b.Release()
		}
	}()

	for n, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d: got %d fields, want %d", n+1, len(row), len(header))
		}
		for i, v := range row {
			if v == "" {
				builders[i].AppendNull()
				continue
			}
			builders[i].Append(v)
		}
	}

	cols := make([]arrow.Array, len(header))
	for i, b := range builders {
		cols[i] = b.NewArray()
	}
	defer releaseAll(cols)

	rec := array.NewRecord(stringSchema(header), cols, int64(len(rows)))
	return newTable(rec, mem), nil
}

// stringSchema builds an all-utf8 schema. Repeated names are renamed with
// a numeric suffix ("A", "A.1", "A.2") so no column is lost by name lookup.
func stringSchema(names []string) *arrow.Schema {
	names = uniqueNames(names)
	fields := make([]arrow.Field, len(names))
	for i, n := range names {
		fields[i] = arrow.Field{Name: n, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		name := n
		for k := 1; ; k++ {
			if _, dup := seen[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s.%d", n, k)
		}
		seen[name] = struct{}{}
		out[i] = name
	}
	return out
}

// Release frees the underlying Arrow buffers.
func (t *Table) Release() {
	if t == nil || t.rec == nil {
		return
	}
	t.rec.Release()
	t.rec = nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return int(t.rec.NumRows()) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return int(t.rec.NumCols()) }

// Shape returns the table dimensions.
func (t *Table) Shape() Shape {
	return Shape{Rows: t.NumRows(), Cols: t.NumCols()}
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	fields := t.rec.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	return t.rec.Schema().HasField(name)
}

// Column returns the first column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	idx := t.rec.Schema().FieldIndices(name)
	if len(idx) == 0 {
		return Column{}, false
	}
	return t.columnAt(idx[0]), true
}

func (t *Table) columnAt(i int) Column {
	return Column{name: t.rec.Schema().Field(i).Name, arr: t.rec.Column(i).(*array.String)}
}

// Drop returns a new table without the named columns. Names that are not
// present are ignored, so the result never has more columns than t.
func (t *Table) Drop(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	schema := t.rec.Schema()
	var (
		fields []arrow.Field
		cols   []arrow.Array
	)
	for i, f := range schema.Fields() {
		if _, ok := drop[f.Name]; ok {
			continue
		}
		fields = append(fields, f)
		cols = append(cols, t.rec.Column(i))
	}

	rec := array.NewRecord(arrow.NewSchema(fields, nil), cols, t.rec.NumRows())
	return newTable(rec, t.mem)
}

// Concat stacks tables vertically. The result has the union of all column
// names in first-seen order; a column absent from an input is null for that
// input's rows. The row count of the result is the sum of the inputs.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, ErrNoTables
	}
	mem := tables[0].mem

	var names []string
	seen := make(map[string]struct{})
	var total int64
	for _, t := range tables {
		total += t.rec.NumRows()
		for _, n := range t.Columns() {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}

	cols := make([]arrow.Array, len(names))
	defer releaseAll(cols)

	for ci, name := range names {
		parts := make([]arrow.Array, 0, len(tables))
		var nulls []arrow.Array
		for _, t := range tables {
			if c, ok := t.Column(name); ok {
				parts = append(parts, c.arr)
				continue
			}
			n := array.MakeArrayOfNull(mem, arrow.BinaryTypes.String, t.NumRows())
			nulls = append(nulls, n)
			parts = append(parts, n)
		}
		joined, err := array.Concatenate(parts, mem)
		releaseAll(nulls)
		if err != nil {
			return nil, fmt.Errorf("concatenate column %q: %w", name, err)
		}
		cols[ci] = joined
	}

	rec := array.NewRecord(stringSchema(names), cols, total)
	return newTable(rec, mem), nil
}

func releaseAll(arrs []arrow.Array) {
	for _, a := range arrs {
		if a != nil {
			a.Release()
		}
	}
}

// Column is a read-only view of one table column.
type Column struct {
	name string
	arr  *array.String
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Len returns the number of cells.
func (c Column) Len() int { return c.arr.Len() }

// IsNull reports whether cell i is null.
func (c Column) IsNull(i int) bool { return c.arr.IsNull(i) }

// Value returns cell i, or "" when it is null.
func (c Column) Value(i int) string {
	if c.arr.IsNull(i) {
		return ""
	}
	return c.arr.Value(i)
}

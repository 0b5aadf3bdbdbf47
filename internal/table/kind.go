package table

import "strconv"

// Kind is the inferred value type of a column.
type Kind int

const (
	KindEmpty Kind = iota
	KindInteger
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "int64"
	case KindFloat:
		return "float64"
	case KindString:
		return "object"
	default:
		return "empty"
	}
}

// ColumnKind pairs a column name with its inferred kind.
type ColumnKind struct {
	Name string
	Kind Kind
}

// Kinds infers a kind for every column by looking at all non-null cells.
// A column is integer if every cell parses as an integer, float if every
// cell parses as a number, empty if it has no non-null cells, and string
// otherwise.
func (t *Table) Kinds() []ColumnKind {
	out := make([]ColumnKind, t.NumCols())
	for i := range out {
		c := t.columnAt(i)
		out[i] = ColumnKind{Name: c.Name(), Kind: inferKind(c)}
	}
	return out
}

func inferKind(c Column) Kind {
	kind := KindEmpty
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v := c.Value(i)
		switch {
		case kind <= KindInteger && isInt(v):
			kind = KindInteger
		case kind <= KindFloat && isFloat(v):
			kind = KindFloat
		default:
			return KindString
		}
	}
	return kind
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

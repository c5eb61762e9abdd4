package bucketx

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dtype is the declared type of a Frame column
type Dtype string

const (
	String    Dtype = "string"
	Int64     Dtype = "int64"
	Float64   Dtype = "float64"
	Bool      Dtype = "bool"
	Timestamp Dtype = "timestamp"
)

// Column is a named, typed column of cells. Cells are `any` values holding
// either nil (null) or the Go representation of the column's Dtype: string,
// int64, float64, bool, or time.Time.
type Column struct {
	Name   string
	Type   Dtype
	Values []any
}

// StringColumn builds a non-null string column
func StringColumn(name string, values ...string) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{Name: name, Type: String, Values: cells}
}

// Int64Column builds a non-null int64 column
func Int64Column(name string, values ...int64) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{Name: name, Type: Int64, Values: cells}
}

// Float64Column builds a non-null float64 column
func Float64Column(name string, values ...float64) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{Name: name, Type: Float64, Values: cells}
}

// BoolColumn builds a non-null bool column
func BoolColumn(name string, values ...bool) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{Name: name, Type: Bool, Values: cells}
}

// TimestampColumn builds a non-null timestamp column
func TimestampColumn(name string, values ...time.Time) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{Name: name, Type: Timestamp, Values: cells}
}

// Frame is an in-memory tabular dataset: ordered named columns of equal
// length, each with a declared Dtype and per-cell nullability.
type Frame struct {
	columns []Column
}

// NewFrame builds a frame from columns, validating that names are unique,
// lengths match, and every cell fits its column's Dtype.
func NewFrame(columns ...Column) (*Frame, error) {
	f := &Frame{columns: columns}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// NumRows returns the number of rows
func (f *Frame) NumRows() int {
	if len(f.columns) == 0 {
		return 0
	}
	return len(f.columns[0].Values)
}

// NumCols returns the number of columns
func (f *Frame) NumCols() int { return len(f.columns) }

// Names returns the column names in order
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, col := range f.columns {
		names[i] = col.Name
	}
	return names
}

// Columns returns the columns in order
func (f *Frame) Columns() []Column { return f.columns }

// Column returns the named column, or false when absent
func (f *Frame) Column(name string) (Column, bool) {
	for _, col := range f.columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Cell returns the value at (column name, row index)
func (f *Frame) Cell(name string, row int) (any, error) {
	col, ok := f.Column(name)
	if !ok {
		return nil, fmt.Errorf("no column %q", name)
	}
	if row < 0 || row >= len(col.Values) {
		return nil, fmt.Errorf("row %d out of range for column %q", row, name)
	}
	return col.Values[row], nil
}

func (f *Frame) validate() error {
	seen := make(map[string]struct{}, len(f.columns))
	rows := -1
	for _, col := range f.columns {
		if col.Name == "" {
			return fmt.Errorf("column name cannot be empty")
		}
		if _, dup := seen[col.Name]; dup {
			return fmt.Errorf("duplicate column %q", col.Name)
		}
		seen[col.Name] = struct{}{}

		if rows == -1 {
			rows = len(col.Values)
		} else if len(col.Values) != rows {
			return fmt.Errorf("column %q has %d rows, want %d", col.Name, len(col.Values), rows)
		}

		for i, v := range col.Values {
			if err := checkCell(col.Type, v); err != nil {
				return fmt.Errorf("column %q row %d: %w", col.Name, i, err)
			}
		}
	}
	return nil
}

// checkCell verifies a cell value matches the column Dtype (nil is null)
func checkCell(dtype Dtype, v any) error {
	if v == nil {
		return nil
	}
	switch dtype {
	case String:
		if _, ok := v.(string); ok {
			return nil
		}
	case Int64:
		if _, ok := v.(int64); ok {
			return nil
		}
	case Float64:
		if _, ok := v.(float64); ok {
			return nil
		}
	case Bool:
		if _, ok := v.(bool); ok {
			return nil
		}
	case Timestamp:
		if _, ok := v.(time.Time); ok {
			return nil
		}
	default:
		return fmt.Errorf("unknown dtype %q", dtype)
	}
	return fmt.Errorf("cell %T does not match dtype %s", v, dtype)
}

// formatCell renders a cell for text formats (csv, xlsx index column).
// Nulls render as the empty string.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// inferColumn rebuilds a typed column from text cells, trying int64, then
// float64, bool, and timestamp before falling back to string. Empty cells
// become nulls.
func inferColumn(name string, cells []string) Column {
	try := func(parse func(string) (any, bool)) ([]any, bool) {
		out := make([]any, len(cells))
		sawValue := false
		for i, cell := range cells {
			if cell == "" {
				out[i] = nil
				continue
			}
			v, ok := parse(cell)
			if !ok {
				return nil, false
			}
			out[i] = v
			sawValue = true
		}
		return out, sawValue
	}

	if values, ok := try(func(s string) (any, bool) {
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}); ok {
		return Column{Name: name, Type: Int64, Values: values}
	}

	if values, ok := try(func(s string) (any, bool) {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}); ok {
		return Column{Name: name, Type: Float64, Values: values}
	}

	if values, ok := try(func(s string) (any, bool) {
		switch strings.ToUpper(s) {
		case "TRUE":
			return true, true
		case "FALSE":
			return false, true
		}
		return nil, false
	}); ok {
		return Column{Name: name, Type: Bool, Values: values}
	}

	if values, ok := try(func(s string) (any, bool) {
		t, err := time.Parse(time.RFC3339, s)
		return t, err == nil
	}); ok {
		return Column{Name: name, Type: Timestamp, Values: values}
	}

	values := make([]any, len(cells))
	for i, cell := range cells {
		if cell == "" {
			values[i] = nil
			continue
		}
		values[i] = cell
	}
	return Column{Name: name, Type: String, Values: values}
}

// Package table loads harness CSV output into immutable, row-oriented tables.
//
// Two row sources are supported: a single stream (stdin or a file) where data
// lines are interleaved with test-runner chatter, and a directory of named CSV
// files loaded as independent tables.
package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingColumn is returned when a row is asked for a column its table lacks.
	ErrMissingColumn = errors.New("missing column")
	// ErrNotNumeric is returned when a cell cannot be read as a number.
	ErrNotNumeric = errors.New("not numeric")
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindText
)

func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

// Value is one cell. Raw keeps the original text; Num is valid only when IsNum.
type Value struct {
	Raw   string
	Num   float64
	IsNum bool
}

func parseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	v := Value{Raw: s}
	if s == "" {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v.Num = f
		v.IsNum = true
	}
	return v
}

// schema is shared by every row of a table.
type schema struct {
	columns []string
	index   map[string]int
}

// Row is an ordered mapping from column name to value.
type Row struct {
	// Line is the 1-based position of the row among the table's data rows.
	Line   int
	values []Value
	schema *schema
}

// Has reports whether the row's table has column col.
func (r Row) Has(col string) bool {
	if r.schema == nil {
		return false
	}
	_, ok := r.schema.index[col]
	return ok
}

// Value returns the cell for col.
func (r Row) Value(col string) (Value, bool) {
	if r.schema == nil {
		return Value{}, false
	}
	i, ok := r.schema.index[col]
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// Text returns the raw text of col.
func (r Row) Text(col string) (string, bool) {
	v, ok := r.Value(col)
	return v.Raw, ok
}

// Float returns col as a number. Absent columns yield ErrMissingColumn and
// non-numeric or empty cells yield ErrNotNumeric.
func (r Row) Float(col string) (float64, error) {
	v, ok := r.Value(col)
	if !ok {
		return 0, fmt.Errorf("%s: %w", col, ErrMissingColumn)
	}
	if !v.IsNum {
		return 0, fmt.Errorf("%s=%q: %w", col, v.Raw, ErrNotNumeric)
	}
	return v.Num, nil
}

// Columns returns the row's column names in header order.
func (r Row) Columns() []string {
	if r.schema == nil {
		return nil
	}
	return append([]string(nil), r.schema.columns...)
}

// Table is an ordered sequence of rows sharing one column schema.
type Table struct {
	Name     string
	Kinds    map[string]Kind
	Rows     []Row
	Warnings []string
	schema   *schema
}

func newTable(name string, header []string) *Table {
	sc := &schema{columns: make([]string, len(header)), index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		sc.columns[i] = h
		sc.index[h] = i
	}
	return &Table{Name: name, Kinds: map[string]Kind{}, schema: sc}
}

// Columns returns the header in source order.
func (t *Table) Columns() []string {
	if t == nil || t.schema == nil {
		return nil
	}
	return append([]string(nil), t.schema.columns...)
}

// HasColumn reports whether the header contains col.
func (t *Table) HasColumn(col string) bool {
	if t == nil || t.schema == nil {
		return false
	}
	_, ok := t.schema.index[col]
	return ok
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Unique returns the distinct raw values of col in first-seen order.
func (t *Table) Unique(col string) []string {
	if t == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range t.Rows {
		s, ok := r.Text(col)
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func (t *Table) append(fields []string) {
	vals := make([]Value, len(fields))
	for i, f := range fields {
		vals[i] = parseValue(f)
	}
	t.Rows = append(t.Rows, Row{Line: len(t.Rows) + 1, values: vals, schema: t.schema})
}

// inferKinds marks a column numeric only when every non-empty value parses as a
// number. Mixed columns are left as text; the reducer decides what to do.
func (t *Table) inferKinds() {
	for i, col := range t.schema.columns {
		kind := KindNumeric
		seen := false
		for _, r := range t.Rows {
			v := r.values[i]
			if v.Raw == "" {
				continue
			}
			seen = true
			if !v.IsNum {
				kind = KindText
				break
			}
		}
		if !seen {
			kind = KindText
		}
		t.Kinds[col] = kind
	}
}

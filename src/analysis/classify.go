package analysis

import (
	"errors"
	"fmt"

	"github.com/iafilius/TUVxPlots/src/table"
)

// Record is one classified row with its numeric values and derived metrics.
type Record struct {
	Line     int // data-row position in the source table
	TestName string
	Label    string // test name with the category prefix stripped
	Values   map[string]float64
	Metrics  Metrics
}

// Get returns a numeric column value. Optional columns that were absent or
// non-numeric report false.
func (r Record) Get(col string) (float64, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// Exclusion explains why a matching row was left out of a category.
type Exclusion struct {
	Line     int
	TestName string
	Reason   string
}

func (e Exclusion) String() string {
	return fmt.Sprintf("row %d (%s): %s", e.Line, e.TestName, e.Reason)
}

// Group is the working set of one category, in source order.
type Group struct {
	Category Category
	Records  []Record
	Excluded []Exclusion
}

// Len returns the number of usable records.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Records)
}

// Empty reports whether the group has no usable records.
func (g *Group) Empty() bool { return g.Len() == 0 }

// Column collects col from every record that has it, in record order.
func (g *Group) Column(col string) []float64 {
	if g == nil {
		return nil
	}
	out := make([]float64, 0, len(g.Records))
	for _, r := range g.Records {
		if v, ok := r.Values[col]; ok {
			out = append(out, v)
		}
	}
	return out
}

// HasColumn reports whether every record carries col.
func (g *Group) HasColumn(col string) bool {
	if g.Empty() {
		return false
	}
	for _, r := range g.Records {
		if _, ok := r.Values[col]; !ok {
			return false
		}
	}
	return true
}

// Labels returns the display labels in record order.
func (g *Group) Labels() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.Records))
	for i, r := range g.Records {
		out[i] = r.Label
	}
	return out
}

// ErrorPcts returns error_pct per record.
func (g *Group) ErrorPcts() []float64 {
	return g.metric(func(m Metrics) (float64, bool) { return m.ErrorPct, m.HasErrorPct })
}

// EnergyErrors returns energy_error per record.
func (g *Group) EnergyErrors() []float64 {
	return g.metric(func(m Metrics) (float64, bool) { return m.EnergyError, m.HasEnergy })
}

// RPlusTs returns R+T per record.
func (g *Group) RPlusTs() []float64 {
	return g.metric(func(m Metrics) (float64, bool) { return m.RPlusT, m.HasEnergy })
}

func (g *Group) metric(pick func(Metrics) (float64, bool)) []float64 {
	if g == nil {
		return nil
	}
	out := make([]float64, 0, len(g.Records))
	for _, r := range g.Records {
		if v, ok := pick(r.Metrics); ok {
			out = append(out, v)
		}
	}
	return out
}

// Filter returns a copy of the group holding only records for which keep is true.
func (g *Group) Filter(keep func(Record) bool) *Group {
	out := &Group{}
	if g == nil {
		return out
	}
	out.Category = g.Category
	for _, r := range g.Records {
		if keep(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Classification is the result of classifying one table.
type Classification struct {
	Source    string
	Total     int // data rows in the table
	Unmatched int // rows matching no category
	Groups    map[Category]*Group
}

// Group returns the group for c; never nil.
func (c *Classification) Group(cat Category) *Group {
	if c != nil {
		if g, ok := c.Groups[cat]; ok {
			return g
		}
	}
	return &Group{Category: cat}
}

// Matched returns the number of rows that matched at least one category.
func (c *Classification) Matched() int {
	if c == nil {
		return 0
	}
	return c.Total - c.Unmatched
}

// Classify partitions t into categories. Every category is evaluated
// independently; rows that match a pattern but break the required-column
// contract are recorded as exclusions. Rows matching nothing are counted only.
func Classify(t *table.Table) *Classification {
	cl := &Classification{Groups: map[Category]*Group{}}
	for _, c := range Categories {
		cl.Groups[c] = &Group{Category: c}
	}
	if t == nil {
		return cl
	}
	cl.Source = t.Name
	cl.Total = t.Len()
	for _, row := range t.Rows {
		name, _ := row.Text(ColTestName)
		matched := false
		for _, c := range Categories {
			if !c.Matches(name) {
				continue
			}
			matched = true
			g := cl.Groups[c]
			rec, err := newRecord(c, row, name)
			if err != nil {
				g.Excluded = append(g.Excluded, Exclusion{Line: row.Line, TestName: name, Reason: err.Error()})
				continue
			}
			g.Records = append(g.Records, rec)
		}
		if !matched {
			cl.Unmatched++
		}
	}
	return cl
}

func newRecord(c Category, row table.Row, name string) (Record, error) {
	spec := Spec(c)
	vals := make(map[string]float64, len(spec.Required)+len(spec.Optional))
	for _, col := range spec.Required {
		if col == ColTestName {
			continue
		}
		v, err := row.Float(col)
		if err != nil {
			if errors.Is(err, table.ErrMissingColumn) {
				return Record{}, fmt.Errorf("required column %s absent", col)
			}
			return Record{}, fmt.Errorf("required column %w", err)
		}
		vals[col] = v
	}
	for _, col := range spec.Optional {
		if v, err := row.Float(col); err == nil {
			vals[col] = v
		}
	}
	return Record{
		Line:     row.Line,
		TestName: name,
		Label:    c.DisplayLabel(name),
		Values:   vals,
		Metrics:  spec.Derive(vals),
	}, nil
}

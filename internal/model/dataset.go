package model

import (
	"errors"
	"fmt"
	"sort"
)

// ColumnKind is the semantic type of a column.
type ColumnKind int

const (
	KindNumeric ColumnKind = iota
	KindText
	KindTimestamp
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

func (k ColumnKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ColumnKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "numeric":
		*k = KindNumeric
	case "timestamp":
		*k = KindTimestamp
	case "text":
		*k = KindText
	default:
		return fmt.Errorf("unknown column kind %q", b)
	}
	return nil
}

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrNoDataset      = errors.New("no dataset available")
	ErrNonNumeric     = errors.New("column is not numeric")
	ErrNoValues       = errors.New("column has no non-null values")
)

// Dataset is an in-memory table with ordered columns and typed cells. A
// Dataset is never mutated after construction; derive new versions with
// WithColumn, Filter or Clone.
type Dataset struct {
	columns []string
	kinds   []ColumnKind
	index   map[string]int
	rows    [][]Value
}

// NewDataset builds a dataset, inferring every column kind from its values.
// The dataset takes ownership of rows.
func NewDataset(columns []string, rows [][]Value) (*Dataset, error) {
	return newDataset(columns, nil, rows)
}

// NewDatasetWithKinds builds a dataset with declared kinds. The declared kind
// is kept for all-null columns; otherwise the kind follows the values.
func NewDatasetWithKinds(columns []string, kinds []ColumnKind, rows [][]Value) (*Dataset, error) {
	if len(kinds) != len(columns) {
		return nil, fmt.Errorf("got %d kinds for %d columns", len(kinds), len(columns))
	}
	return newDataset(columns, kinds, rows)
}

func newDataset(columns []string, declared []ColumnKind, rows [][]Value) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		index[name] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
	}

	d := &Dataset{
		columns: append([]string(nil), columns...),
		kinds:   make([]ColumnKind, len(columns)),
		index:   index,
		rows:    rows,
	}
	for i := range columns {
		fallback := KindNumeric
		if declared != nil {
			fallback = declared[i]
		}
		d.kinds[i] = d.inferKind(i, fallback)
	}
	return d, nil
}

func (d *Dataset) inferKind(col int, fallback ColumnKind) ColumnKind {
	seen := false
	allNum, allTime := true, true
	for _, row := range d.rows {
		v := row[col]
		if v.IsNull() {
			continue
		}
		seen = true
		if v.Kind != NumberValue {
			allNum = false
		}
		if v.Kind != TimeValue {
			allTime = false
		}
		if !allNum && !allTime {
			return KindText
		}
	}
	switch {
	case !seen:
		return fallback
	case allNum:
		return KindNumeric
	case allTime:
		return KindTimestamp
	}
	return KindText
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.columns...)
}

func (d *Dataset) NumRows() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

func (d *Dataset) NumColumns() int {
	if d == nil {
		return 0
	}
	return len(d.columns)
}

// HasColumn reports whether name is a column of the dataset.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.Index(name)
	return ok
}

// Index returns the position of the named column.
func (d *Dataset) Index(name string) (int, bool) {
	if d == nil {
		return 0, false
	}
	i, ok := d.index[name]
	return i, ok
}

// Kind returns the kind of the named column.
func (d *Dataset) Kind(name string) (ColumnKind, bool) {
	i, ok := d.Index(name)
	if !ok {
		return KindText, false
	}
	return d.kinds[i], true
}

// At returns the value at row r of column c (both by position).
func (d *Dataset) At(r, c int) Value {
	return d.rows[r][c]
}

// Row returns a copy of row r.
func (d *Dataset) Row(r int) []Value {
	return append([]Value(nil), d.rows[r]...)
}

// Column returns a copy of the values of the named column.
func (d *Dataset) Column(name string) ([]Value, error) {
	i, ok := d.Index(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	out := make([]Value, len(d.rows))
	for r, row := range d.rows {
		out[r] = row[i]
	}
	return out, nil
}

// MissingCount returns the number of null cells in the named column.
func (d *Dataset) MissingCount(name string) int {
	i, ok := d.Index(name)
	if !ok {
		return 0
	}
	n := 0
	for _, row := range d.rows {
		if row[i].IsNull() {
			n++
		}
	}
	return n
}

// UniqueCount returns the number of distinct non-null values in the named column.
func (d *Dataset) UniqueCount(name string) int {
	i, ok := d.Index(name)
	if !ok {
		return 0
	}
	seen := make(map[string]struct{})
	for _, row := range d.rows {
		if !row[i].IsNull() {
			seen[row[i].Key()] = struct{}{}
		}
	}
	return len(seen)
}

// Frequency counts non-null values of a column. Order is by descending
// count, ties by Value.Less.
type Frequency struct {
	Value Value `json:"value"`
	Count int   `json:"count"`
}

// Frequencies tabulates the named column.
func (d *Dataset) Frequencies(name string) []Frequency {
	i, ok := d.Index(name)
	if !ok {
		return nil
	}
	counts := make(map[string]*Frequency)
	var order []*Frequency
	for _, row := range d.rows {
		v := row[i]
		if v.IsNull() {
			continue
		}
		f, ok := counts[v.Key()]
		if !ok {
			f = &Frequency{Value: v}
			counts[v.Key()] = f
			order = append(order, f)
		}
		f.Count++
	}
	out := make([]Frequency, len(order))
	for k, f := range order {
		out[k] = *f
	}
	sortFrequencies(out)
	return out
}

// Mode returns the most frequent non-null value. Ties resolve to the
// smallest value.
func (d *Dataset) Mode(name string) (Value, int, bool) {
	freq := d.Frequencies(name)
	if len(freq) == 0 {
		return Null(), 0, false
	}
	return freq[0].Value, freq[0].Count, true
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	rows := make([][]Value, len(d.rows))
	for r, row := range d.rows {
		rows[r] = append([]Value(nil), row...)
	}
	index := make(map[string]int, len(d.index))
	for k, v := range d.index {
		index[k] = v
	}
	return &Dataset{
		columns: append([]string(nil), d.columns...),
		kinds:   append([]ColumnKind(nil), d.kinds...),
		index:   index,
		rows:    rows,
	}
}

// WithColumn returns a new dataset whose named column holds values. The
// column kind is re-inferred; an all-null result keeps the previous kind.
func (d *Dataset) WithColumn(name string, values []Value) (*Dataset, error) {
	i, ok := d.Index(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	if len(values) != len(d.rows) {
		return nil, fmt.Errorf("column %q: got %d values, want %d", name, len(values), len(d.rows))
	}
	out := d.Clone()
	for r := range out.rows {
		out.rows[r][i] = values[r]
	}
	out.kinds[i] = out.inferKind(i, d.kinds[i])
	return out, nil
}

// Filter returns a new dataset holding the rows for which keep is true.
func (d *Dataset) Filter(keep func(row []Value) bool) *Dataset {
	if d == nil {
		return nil
	}
	out := d.Clone()
	kept := out.rows[:0]
	for _, row := range out.rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	out.rows = kept
	out.reinfer()
	return out
}

// Select returns a new dataset holding the rows at the given positions, in order.
func (d *Dataset) Select(positions []int) *Dataset {
	if d == nil {
		return nil
	}
	out := d.Clone()
	rows := make([][]Value, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, out.rows[p])
	}
	out.rows = rows
	out.reinfer()
	return out
}

func (d *Dataset) reinfer() {
	for i := range d.kinds {
		d.kinds[i] = d.inferKind(i, d.kinds[i])
	}
}

func sortFrequencies(f []Frequency) {
	sort.SliceStable(f, func(a, b int) bool {
		if f[a].Count != f[b].Count {
			return f[a].Count > f[b].Count
		}
		return f[a].Value.Less(f[b].Value)
	})
}

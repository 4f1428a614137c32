package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"crash-data-audit/internal/model"
)

// Step is one cleaning transform. Apply never modifies its input.
type Step interface {
	// Name labels the step in metrics and logs.
	Name() string
	Apply(ds *model.Dataset) Outcome
}

// Method selects how Impute fills missing values.
type Method string

const (
	MethodMean        Method = "Mean"
	MethodMedian      Method = "Median"
	MethodMode        Method = "Mode"
	MethodDropRows    Method = "Drop Rows"
	MethodFillZero    Method = "Fill Zero"
	MethodFillUnknown Method = "Fill 'Unknown'"
)

// Methods lists the imputation methods in display order.
var Methods = []Method{MethodMean, MethodMedian, MethodMode, MethodDropRows, MethodFillZero, MethodFillUnknown}

var methodAliases = map[string]Method{
	"mean":           MethodMean,
	"median":         MethodMedian,
	"mode":           MethodMode,
	"drop":           MethodDropRows,
	"drop rows":      MethodDropRows,
	"drop-rows":      MethodDropRows,
	"zero":           MethodFillZero,
	"fill zero":      MethodFillZero,
	"fill-zero":      MethodFillZero,
	"unknown":        MethodFillUnknown,
	"fill unknown":   MethodFillUnknown,
	"fill-unknown":   MethodFillUnknown,
	"fill 'unknown'": MethodFillUnknown,
}

// ParseMethod resolves a method name case-insensitively. Unknown names are
// returned as given so Impute reports them.
func ParseMethod(s string) Method {
	if m, ok := methodAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m
	}
	return Method(s)
}

// Impute fills or drops the missing values of one column.
type Impute struct {
	Column string `json:"column"`
	Method Method `json:"method"`
}

func (Impute) Name() string { return "impute" }

func (s Impute) Apply(ds *model.Dataset) Outcome {
	if ds == nil {
		return failed(ds, model.ErrNoDataset, "No dataset available.")
	}
	idx, ok := ds.Index(s.Column)
	if !ok {
		return failed(ds, fmt.Errorf("%w: %s", model.ErrColumnNotFound, s.Column), fmt.Sprintf("Column %s not found.", s.Column))
	}
	if !isKnownMethod(s.Method) {
		return failed(ds, fmt.Errorf("%w: %q", ErrUnknownMethod, s.Method), "Invalid imputation method selected.")
	}
	missing := ds.MissingCount(s.Column)
	if missing == 0 {
		return noop(ds, fmt.Sprintf("No missing values in %s to fill.", s.Column))
	}
	kind, _ := ds.Kind(s.Column)

	var (
		next *model.Dataset
		msg  string
		err  error
	)
	switch s.Method {
	case MethodMean, MethodMedian:
		if kind != model.KindNumeric {
			return failed(ds, fmt.Errorf("%w: %s", model.ErrNonNumeric, s.Column),
				fmt.Sprintf("Cannot calculate %s for non-numeric column %s.", s.Method, s.Column))
		}
		nums := numericValues(ds, idx)
		if len(nums) == 0 {
			return failed(ds, fmt.Errorf("%w: %s", model.ErrNoValues, s.Column),
				fmt.Sprintf("Cannot calculate %s for %s: the column has no values.", s.Method, s.Column))
		}
		var val float64
		if s.Method == MethodMean {
			val = stat.Mean(nums, nil)
		} else {
			val = median(nums)
		}
		next, err = fillNulls(ds, s.Column, model.Number(val))
		msg = fmt.Sprintf("Filled missing %s with %s: %.2f", s.Column, s.Method, val)
	case MethodMode:
		val, _, ok := ds.Mode(s.Column)
		if !ok {
			return failed(ds, fmt.Errorf("%w: %s", model.ErrNoValues, s.Column),
				fmt.Sprintf("Could not determine Mode for %s.", s.Column))
		}
		next, err = fillNulls(ds, s.Column, val)
		msg = fmt.Sprintf("Filled missing %s with Mode: %s", s.Column, val)
	case MethodDropRows:
		next = ds.Filter(func(row []model.Value) bool { return !row[idx].IsNull() })
		msg = fmt.Sprintf("Dropped %d rows with missing %s", missing, s.Column)
	case MethodFillZero:
		next, err = fillNulls(ds, s.Column, model.Number(0))
		msg = fmt.Sprintf("Filled missing %s with 0", s.Column)
	case MethodFillUnknown:
		next, err = fillNulls(ds, s.Column, model.Text("Unknown"))
		msg = fmt.Sprintf("Filled missing %s with 'Unknown'", s.Column)
	}
	if err != nil {
		return failed(ds, err, fmt.Sprintf("Could not impute %s: %v", s.Column, err))
	}

	out := applied(ds, next, msg)
	out.MissingBefore = missing
	out.MissingAfter = next.MissingCount(s.Column)
	return out
}

func isKnownMethod(m Method) bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

func numericValues(ds *model.Dataset, idx int) []float64 {
	var out []float64
	for r := 0; r < ds.NumRows(); r++ {
		if f, ok := ds.At(r, idx).Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// median averages the two middle values of an even-length sample.
func median(x []float64) float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func fillNulls(ds *model.Dataset, column string, fill model.Value) (*model.Dataset, error) {
	values, err := ds.Column(column)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if v.IsNull() {
			values[i] = fill
		}
	}
	return ds.WithColumn(column, values)
}

// FixDates converts text columns to timestamps. With no Columns it picks
// every column with a word starting with "date" or "time" in its name.
// Unparsable cells become null.
type FixDates struct {
	Columns  []string       `json:"columns,omitempty"`
	Location *time.Location `json:"-"`
}

func (FixDates) Name() string { return "fix-dates" }

func (s FixDates) Apply(ds *model.Dataset) Outcome {
	if ds == nil {
		return failed(ds, model.ErrNoDataset, "No dataset available.")
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	columns := s.Columns
	if len(columns) == 0 {
		columns = DateLikeColumns(ds)
	}

	next := ds
	var converted []string
	for _, col := range columns {
		idx, ok := next.Index(col)
		if !ok || !hasText(next, idx) {
			continue
		}
		values, _ := next.Column(col)
		for i, v := range values {
			if t, ok := model.CoerceTime(v, loc); ok {
				values[i] = model.Timestamp(t)
			} else {
				values[i] = model.Null()
			}
		}
		var err error
		next, err = next.WithColumn(col, values)
		if err != nil {
			return failed(ds, err, fmt.Sprintf("Could not convert %s: %v", col, err))
		}
		converted = append(converted, fmt.Sprintf("Converted %s to Datetime", col))
	}

	if len(converted) == 0 {
		return noop(ds, "No date columns required fixing.")
	}
	return applied(ds, next, "Fixed Date Formats: "+strings.Join(converted, ", "))
}

// DateLikeColumns returns the columns FixDates picks by default.
func DateLikeColumns(ds *model.Dataset) []string {
	var out []string
	for _, col := range ds.Columns() {
		for _, w := range model.NameWords(col) {
			if strings.HasPrefix(w, "date") || strings.HasPrefix(w, "time") {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

func hasText(ds *model.Dataset, idx int) bool {
	for r := 0; r < ds.NumRows(); r++ {
		if ds.At(r, idx).Kind == model.TextValue {
			return true
		}
	}
	return false
}

// TrimWhitespace strips leading and trailing spaces from every text cell.
// Cells left empty become null.
type TrimWhitespace struct{}

func (TrimWhitespace) Name() string { return "trim" }

func (TrimWhitespace) Apply(ds *model.Dataset) Outcome {
	if ds == nil {
		return failed(ds, model.ErrNoDataset, "No dataset available.")
	}
	next := ds
	cells, columns := 0, 0
	for _, col := range ds.Columns() {
		values, _ := next.Column(col)
		changed := 0
		for i, v := range values {
			if v.Kind != model.TextValue {
				continue
			}
			trimmed := strings.TrimSpace(v.Str)
			if trimmed == v.Str {
				continue
			}
			changed++
			if trimmed == "" {
				values[i] = model.Null()
			} else {
				values[i] = model.Text(trimmed)
			}
		}
		if changed == 0 {
			continue
		}
		var err error
		next, err = next.WithColumn(col, values)
		if err != nil {
			return failed(ds, err, fmt.Sprintf("Could not trim %s: %v", col, err))
		}
		cells += changed
		columns++
	}
	if cells == 0 {
		return noop(ds, "No text values required trimming.")
	}
	return applied(ds, next, fmt.Sprintf("Trimmed whitespace in %d cells across %d columns", cells, columns))
}

// RemoveDuplicates drops rows whose key repeats an earlier row, keeping the
// first occurrence.
type RemoveDuplicates struct {
	KeyColumn string `json:"keyColumn"`
}

func (RemoveDuplicates) Name() string { return "dedupe" }

func (s RemoveDuplicates) Apply(ds *model.Dataset) Outcome {
	if ds == nil {
		return failed(ds, model.ErrNoDataset, "No dataset available.")
	}
	idx, ok := ds.Index(s.KeyColumn)
	if !ok {
		return failed(ds, fmt.Errorf("%w: %s", model.ErrColumnNotFound, s.KeyColumn), fmt.Sprintf("Column %s not found.", s.KeyColumn))
	}
	seen := make(map[string]struct{}, ds.NumRows())
	keep := make([]int, 0, ds.NumRows())
	for r := 0; r < ds.NumRows(); r++ {
		k := ds.At(r, idx).Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, r)
	}
	removed := ds.NumRows() - len(keep)
	if removed == 0 {
		return noop(ds, fmt.Sprintf("No duplicate %s values to remove.", s.KeyColumn))
	}
	return applied(ds, ds.Select(keep), fmt.Sprintf("Removed %d duplicate rows by %s", removed, s.KeyColumn))
}

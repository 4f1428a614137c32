package audit

import (
	"math"

	"crash-data-audit/internal/model"
)

// RangeRule flags non-null values of a column that fall outside [Min, Max].
type RangeRule struct {
	Name   string
	Column string
	Min    float64
	Max    float64
	// StrictNumeric counts non-null values that are not numbers as violations.
	StrictNumeric bool
}

// Count returns the number of rows of ds violating the rule.
func (r RangeRule) Count(ds *model.Dataset) int {
	idx, ok := ds.Index(r.Column)
	if !ok {
		return 0
	}
	n := 0
	for row := 0; row < ds.NumRows(); row++ {
		v := ds.At(row, idx)
		if v.IsNull() {
			continue
		}
		f, ok := v.Float()
		if !ok {
			if r.StrictNumeric {
				n++
			}
			continue
		}
		if f < r.Min || f > r.Max {
			n++
		}
	}
	return n
}

// AccuracyRules returns the rules that apply to ds: coordinate bounds when
// both coordinate columns exist, and a non-negative rule for every numeric
// column named like an age.
func AccuracyRules(ds *model.Dataset, c model.Contract) []RangeRule {
	c = c.WithDefaults()
	var rules []RangeRule
	if ds.HasColumn(c.LatitudeColumn) && ds.HasColumn(c.LongitudeColumn) {
		rules = append(rules,
			RangeRule{Name: "Invalid Latitude", Column: c.LatitudeColumn, Min: -90, Max: 90, StrictNumeric: true},
			RangeRule{Name: "Invalid Longitude", Column: c.LongitudeColumn, Min: -180, Max: 180, StrictNumeric: true},
		)
	}
	for _, col := range ds.Columns() {
		if kind, _ := ds.Kind(col); kind != model.KindNumeric || !isAgeColumn(col) {
			continue
		}
		rules = append(rules, RangeRule{Name: "Negative " + col, Column: col, Min: 0, Max: math.Inf(1)})
	}
	return rules
}

// CheckAccuracy runs rules against ds. Every rule yields an issue, even
// when its count is zero.
func CheckAccuracy(ds *model.Dataset, rules []RangeRule) model.AccuracyResult {
	out := model.AccuracyResult{Issues: make([]model.AccuracyIssue, 0, len(rules))}
	for _, r := range rules {
		out.Issues = append(out.Issues, model.AccuracyIssue{Name: r.Name, Column: r.Column, Count: r.Count(ds)})
	}
	return out
}

// isAgeColumn matches names carrying "age" as a word: "Driver Age",
// "person_age", "DriverAge". "Agency Name" and "Damage" do not match.
func isAgeColumn(name string) bool {
	for _, w := range model.NameWords(name) {
		if w == "age" {
			return true
		}
	}
	return false
}


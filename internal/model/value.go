package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ValueKind tags the dynamic type held by a Value.
type ValueKind int

const (
	NullValue ValueKind = iota
	TextValue
	NumberValue
	TimeValue
)

// Value is a single typed cell of a Dataset.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Time time.Time
}

// naTokens mirrors the strings a dataframe loader reads as missing.
var naTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"-nan": true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
	"<NA>": true,
	"#NA":  true,
}

func Null() Value                 { return Value{Kind: NullValue} }
func Text(s string) Value         { return Value{Kind: TextValue, Str: s} }
func Number(f float64) Value      { return Value{Kind: NumberValue, Num: f} }
func Timestamp(t time.Time) Value { return Value{Kind: TimeValue, Time: t} }

// IsNull reports whether the cell is missing.
func (v Value) IsNull() bool { return v.Kind == NullValue }

// String renders the value the way it is written back to CSV.
func (v Value) String() string {
	switch v.Kind {
	case TextValue:
		return v.Str
	case NumberValue:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case TimeValue:
		return v.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

// Key identifies the value for equality and distinct counting. Values of
// different kinds never collide.
func (v Value) Key() string {
	switch v.Kind {
	case TextValue:
		return "s:" + v.Str
	case NumberValue:
		return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	case TimeValue:
		return "t:" + strconv.FormatInt(v.Time.UnixNano(), 10)
	default:
		return "null"
	}
}

// Float returns the numeric reading of the value. Text is coerced when it
// holds a finite number.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case NumberValue:
		return v.Num, true
	case TextValue:
		return ParseNumber(v.Str)
	default:
		return 0, false
	}
}

// Less orders values for deterministic tie breaking: numbers, then
// timestamps, then text, each in natural order.
func (v Value) Less(o Value) bool {
	if v.Kind != o.Kind {
		return kindRank(v.Kind) < kindRank(o.Kind)
	}
	switch v.Kind {
	case NumberValue:
		return v.Num < o.Num
	case TimeValue:
		return v.Time.Before(o.Time)
	case TextValue:
		return v.Str < o.Str
	}
	return false
}

func kindRank(k ValueKind) int {
	switch k {
	case NumberValue:
		return 0
	case TimeValue:
		return 1
	case TextValue:
		return 2
	}
	return 3
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case TextValue:
		return json.Marshal(v.Str)
	case NumberValue:
		return json.Marshal(v.Num)
	case TimeValue:
		return json.Marshal(v.Time)
	default:
		return []byte("null"), nil
	}
}

// ParseColumn converts the raw cells of one delimited-text column. NA tokens
// become null. The column becomes numeric only when every other cell parses
// as a number; otherwise every cell keeps its original text.
func ParseColumn(raw []string) []Value {
	out := make([]Value, len(raw))
	numeric := true
	for i, cell := range raw {
		if isNA(cell) {
			out[i] = Null()
			continue
		}
		out[i] = Text(cell)
		if numeric {
			_, numeric = ParseNumber(cell)
		}
	}
	if !numeric {
		return out
	}
	for i, v := range out {
		if !v.IsNull() {
			f, _ := ParseNumber(v.Str)
			out[i] = Number(f)
		}
	}
	return out
}

func isNA(cell string) bool {
	return naTokens[cell] || naTokens[strings.TrimSpace(cell)]
}

// ParseNumber parses a finite decimal number. Infinity and NaN spellings are
// rejected so they stay text.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// timeLayouts are tried in order before falling back to cast's parser.
var timeLayouts = []string{
	"01/02/2006 03:04:05 PM",
	"01/02/2006 3:04:05 PM",
	"01/02/2006 03:04 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"2006/01/02 03:04:05 PM",
	"2006/01/02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
}

// ParseTime coerces text into a timestamp. Zone-less layouts are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || naTokens[s] {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	// Pure numbers are not dates here, even though cast would read them as
	// unix seconds.
	if _, isNum := ParseNumber(s); isNum {
		return time.Time{}, false
	}
	t, err := cast.ToTimeInDefaultLocationE(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CoerceTime reads a cell as a timestamp. Numbers and unparsable text yield
// false.
func CoerceTime(v Value, loc *time.Location) (time.Time, bool) {
	switch v.Kind {
	case TimeValue:
		return v.Time, true
	case TextValue:
		return ParseTime(v.Str, loc)
	default:
		return time.Time{}, false
	}
}

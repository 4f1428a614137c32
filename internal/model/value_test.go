package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumn(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []Value
	}{
		{
			name: "numeric with NA tokens",
			raw:  []string{"42", "", " N/A ", "-3.5", " 7 ", "NULL", "None"},
			want: []Value{Number(42), Null(), Null(), Number(-3.5), Number(7), Null(), Null()},
		},
		{
			name: "mixed column keeps text",
			raw:  []string{"MCP001", "0042", "42", "NA"},
			want: []Value{Text("MCP001"), Text("0042"), Text("42"), Null()},
		},
		{
			name: "leading zeros and exponents survive in text columns",
			raw:  []string{"02134", "1e3", "x"},
			want: []Value{Text("02134"), Text("1e3"), Text("x")},
		},
		{
			name: "infinity spellings are text",
			raw:  []string{"1", "Inf"},
			want: []Value{Text("1"), Text("Inf")},
		},
		{
			name: "all null",
			raw:  []string{"", "nan"},
			want: []Value{Null(), Null()},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseColumn(tt.raw))
		})
	}
}

func TestParseTime(t *testing.T) {
	utc := time.UTC
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"05/12/2024 03:15:00 PM", time.Date(2024, 5, 12, 15, 15, 0, 0, utc), true},
		{"2024-05-12", time.Date(2024, 5, 12, 0, 0, 0, 0, utc), true},
		{"2024-05-12 08:30:00", time.Date(2024, 5, 12, 8, 30, 0, 0, utc), true},
		{"2024-05-12T08:30:00Z", time.Date(2024, 5, 12, 8, 30, 0, 0, utc), true},
		{"not a date", time.Time{}, false},
		{"12345", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTime(tt.in, utc)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestCoerceTime(t *testing.T) {
	ts := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)

	got, ok := CoerceTime(Timestamp(ts), time.UTC)
	require.True(t, ok)
	assert.Equal(t, ts, got)

	_, ok = CoerceTime(Number(20230102), time.UTC)
	assert.False(t, ok)

	_, ok = CoerceTime(Null(), time.UTC)
	assert.False(t, ok)
}

func TestValueKeyAndLess(t *testing.T) {
	assert.NotEqual(t, Text("1").Key(), Number(1).Key())
	assert.Equal(t, Number(1).Key(), Number(1.0).Key())
	assert.True(t, Number(5).Less(Text("a")))
	assert.True(t, Text("a").Less(Text("b")))
	assert.False(t, Number(2).Less(Number(1)))
}

func TestValueFloat(t *testing.T) {
	f, ok := Text(" 2.5").Float()
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok = Text("abc").Float()
	assert.False(t, ok)

	_, ok = Null().Float()
	assert.False(t, ok)
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewDataset(
		[]string{"Report Number", "Speed Limit", "Agency Name", "Empty"},
		[][]Value{
			{Text("A1"), Number(35), Text("Police"), Null()},
			{Text("A2"), Null(), Text("Sheriff"), Null()},
			{Text("A3"), Number(25), Text("Police"), Null()},
		},
	)
	require.NoError(t, err)
	return ds
}

func TestNewDatasetInfersKinds(t *testing.T) {
	ds := sampleDataset(t)

	kind, ok := ds.Kind("Speed Limit")
	require.True(t, ok)
	assert.Equal(t, KindNumeric, kind)

	kind, _ = ds.Kind("Agency Name")
	assert.Equal(t, KindText, kind)

	kind, _ = ds.Kind("Empty")
	assert.Equal(t, KindNumeric, kind, "all-null columns default to numeric")

	_, ok = ds.Kind("Missing")
	assert.False(t, ok)
}

func TestNewDatasetRejectsBadShape(t *testing.T) {
	_, err := NewDataset([]string{"a", "a"}, nil)
	assert.Error(t, err)

	_, err = NewDataset([]string{"a", "b"}, [][]Value{{Number(1)}})
	assert.Error(t, err)

	_, err = NewDatasetWithKinds([]string{"a"}, nil, nil)
	assert.Error(t, err)
}

func TestDatasetCounts(t *testing.T) {
	ds := sampleDataset(t)

	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, 4, ds.NumColumns())
	assert.Equal(t, 1, ds.MissingCount("Speed Limit"))
	assert.Equal(t, 3, ds.MissingCount("Empty"))
	assert.Equal(t, 2, ds.UniqueCount("Agency Name"))
	assert.Equal(t, 0, ds.UniqueCount("Empty"))
}

func TestDatasetNilIsEmpty(t *testing.T) {
	var ds *Dataset
	assert.Equal(t, 0, ds.NumRows())
	assert.Nil(t, ds.Columns())
	assert.False(t, ds.HasColumn("x"))
	assert.Nil(t, ds.Clone())
}

func TestFrequenciesAndMode(t *testing.T) {
	ds, err := NewDataset([]string{"v"}, [][]Value{
		{Number(3)}, {Number(1)}, {Number(3)}, {Number(1)}, {Number(2)}, {Null()},
	})
	require.NoError(t, err)

	freq := ds.Frequencies("v")
	require.Len(t, freq, 3)
	assert.Equal(t, Number(1), freq[0].Value, "ties resolve to the smallest value")
	assert.Equal(t, 2, freq[0].Count)
	assert.Equal(t, Number(3), freq[1].Value)

	mode, count, ok := ds.Mode("v")
	require.True(t, ok)
	assert.Equal(t, Number(1), mode)
	assert.Equal(t, 2, count)
}

func TestWithColumnCopiesOnWrite(t *testing.T) {
	ds := sampleDataset(t)

	next, err := ds.WithColumn("Agency Name", []Value{Number(1), Number(2), Number(3)})
	require.NoError(t, err)

	kind, _ := next.Kind("Agency Name")
	assert.Equal(t, KindNumeric, kind)
	assert.Equal(t, Text("Police"), ds.At(0, 2), "original must be untouched")

	_, err = ds.WithColumn("nope", nil)
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = ds.WithColumn("Agency Name", []Value{Null()})
	assert.Error(t, err)
}

func TestFilterAndSelect(t *testing.T) {
	ds := sampleDataset(t)
	idx, _ := ds.Index("Speed Limit")

	kept := ds.Filter(func(row []Value) bool { return !row[idx].IsNull() })
	assert.Equal(t, 2, kept.NumRows())
	assert.Equal(t, 3, ds.NumRows())

	picked := ds.Select([]int{2, 0})
	require.Equal(t, 2, picked.NumRows())
	assert.Equal(t, Text("A3"), picked.At(0, 0))
	assert.Equal(t, Text("A1"), picked.At(1, 0))
}

func TestContractWithDefaults(t *testing.T) {
	c := Contract{ReportIDColumn: "ID"}.WithDefaults()
	assert.Equal(t, "ID", c.ReportIDColumn)
	assert.Equal(t, DefaultTimestampColumn, c.TimestampColumn)
	assert.Equal(t, []string{"ID", DefaultTimestampColumn, DefaultLatitudeColumn, DefaultLongitudeColumn}, c.KeyFields)

	ds := sampleDataset(t)
	set := DefaultContract().KeyFieldSet(ds)
	assert.Equal(t, map[string]bool{"Report Number": true}, set)
}

package audit

import (
	"time"

	"crash-data-audit/internal/model"
)

// CheckTimeliness reads column as timestamps and reports the date range and
// the rows dated strictly after now. Unparsable cells count as invalid and
// are left out of the range.
func CheckTimeliness(ds *model.Dataset, column string, now time.Time, loc *time.Location) model.TimelinessResult {
	out := model.TimelinessResult{Column: column, CheckedAt: now}
	idx, ok := ds.Index(column)
	if !ok {
		return out
	}
	out.ColumnPresent = true

	var earliest, latest time.Time
	for row := 0; row < ds.NumRows(); row++ {
		v := ds.At(row, idx)
		if v.IsNull() {
			continue
		}
		t, ok := model.CoerceTime(v, loc)
		if !ok {
			out.InvalidCount++
			continue
		}
		if out.ValidCount == 0 || t.Before(earliest) {
			earliest = t
		}
		if out.ValidCount == 0 || t.After(latest) {
			latest = t
		}
		out.ValidCount++
		if t.After(now) {
			out.FutureDateCount++
		}
	}
	if out.ValidCount > 0 {
		out.EarliestDate = &earliest
		out.LatestDate = &latest
	}
	return out
}

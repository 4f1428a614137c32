package audit

import "crash-data-audit/internal/model"

// CheckConsistency counts rows whose key repeats an earlier row. Missing
// keys compare equal to each other.
func CheckConsistency(ds *model.Dataset, keyColumn string) model.ConsistencyResult {
	out := model.ConsistencyResult{KeyColumn: keyColumn}
	idx, ok := ds.Index(keyColumn)
	if !ok {
		return out
	}
	out.KeyPresent = true

	seen := make(map[string]struct{}, ds.NumRows())
	for row := 0; row < ds.NumRows(); row++ {
		k := ds.At(row, idx).Key()
		if _, dup := seen[k]; dup {
			out.DuplicateCount++
			continue
		}
		seen[k] = struct{}{}
	}
	if rows := ds.NumRows(); rows > 0 {
		out.DuplicateRate = float64(out.DuplicateCount) * 100 / float64(rows)
	}
	return out
}

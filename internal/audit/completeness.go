package audit

import (
	"sort"

	"crash-data-audit/internal/model"
)

const (
	criticalMissingPct = 1.0
	warningMissingPct  = 20.0
)

// CheckCompleteness reports missing values per column. Key fields missing
// more than 1% of their values are Critical, any column missing more than
// 20% is a Warning. Columns are ordered by descending missing percentage,
// ties kept in dataset order.
func CheckCompleteness(ds *model.Dataset, keyFields map[string]bool) model.CompletenessResult {
	rows := ds.NumRows()
	cols := ds.Columns()
	out := model.CompletenessResult{Rows: rows, Columns: make([]model.ColumnCompleteness, 0, len(cols))}

	for _, name := range cols {
		missing := ds.MissingCount(name)
		pct := 0.0
		if rows > 0 {
			pct = float64(missing) * 100 / float64(rows)
		}
		kind, _ := ds.Kind(name)
		out.Columns = append(out.Columns, model.ColumnCompleteness{
			Column:            name,
			Kind:              kind,
			MissingCount:      missing,
			MissingPercentage: pct,
			UniqueCount:       ds.UniqueCount(name),
			Status:            completenessStatus(keyFields[name], pct),
		})
	}

	sort.SliceStable(out.Columns, func(i, j int) bool {
		return out.Columns[i].MissingPercentage > out.Columns[j].MissingPercentage
	})
	return out
}

func completenessStatus(key bool, pct float64) model.Status {
	switch {
	case key && pct > criticalMissingPct:
		return model.StatusCritical
	case pct > warningMissingPct:
		return model.StatusWarning
	default:
		return model.StatusValid
	}
}

// Package trend prepares the data behind the dashboard and trend views:
// filtering, daily counts, category rankings and numeric distributions.
package trend

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"crash-data-audit/internal/model"
)

const (
	// DefaultSampleSize caps the rows handed to chart rendering.
	DefaultSampleSize = 10000
	// DefaultSeed keeps samples reproducible.
	DefaultSeed = 42

	rollingWindow = 7
	dayLayout     = "2006-01-02"
)

// FilterOptions narrows a dataset by calendar day and category. Zero values
// disable a filter.
type FilterOptions struct {
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Categories []string  `json:"categories"`
}

// Filter keeps the rows whose timestamp falls within [From, To] by calendar
// day in loc and whose category is one of Categories. With a date bound set,
// rows without a readable timestamp are dropped.
func Filter(ds *model.Dataset, c model.Contract, opts FilterOptions, loc *time.Location) *model.Dataset {
	if ds == nil {
		return nil
	}
	c = c.WithDefaults()
	loc = orLocal(loc)

	tsIdx, hasTS := ds.Index(c.TimestampColumn)
	dated := hasTS && (!opts.From.IsZero() || !opts.To.IsZero())
	from, to := dayOf(opts.From, loc), dayOf(opts.To, loc)

	catIdx, hasCat := ds.Index(c.CategoryColumn)
	wanted := make(map[string]bool, len(opts.Categories))
	for _, cat := range opts.Categories {
		wanted[cat] = true
	}
	byCategory := hasCat && len(wanted) > 0

	if !dated && !byCategory {
		return ds
	}
	return ds.Filter(func(row []model.Value) bool {
		if dated {
			t, ok := model.CoerceTime(row[tsIdx], loc)
			if !ok {
				return false
			}
			day := dayOf(t, loc)
			if !opts.From.IsZero() && day.Before(from) {
				return false
			}
			if !opts.To.IsZero() && day.After(to) {
				return false
			}
		}
		if byCategory && (row[catIdx].IsNull() || !wanted[row[catIdx].String()]) {
			return false
		}
		return true
	})
}

// Categories lists the distinct non-null values of column, sorted.
func Categories(ds *model.Dataset, column string) []string {
	freq := ds.Frequencies(column)
	out := make([]string, 0, len(freq))
	for _, f := range freq {
		out = append(out, f.Value.String())
	}
	sort.Strings(out)
	return out
}

// DailyCount is the number of rows dated on one calendar day.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
	// RollingMean is the mean over the last seven days, nil until seven
	// days are available.
	RollingMean *float64 `json:"rollingMean,omitempty"`
}

// DailyCounts buckets column by calendar day in loc, filling days without
// rows with zero. Unreadable timestamps are skipped.
func DailyCounts(ds *model.Dataset, column string, loc *time.Location, rolling bool) ([]DailyCount, error) {
	idx, ok := ds.Index(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrColumnNotFound, column)
	}
	loc = orLocal(loc)

	counts := make(map[string]int)
	var first, last time.Time
	for r := 0; r < ds.NumRows(); r++ {
		t, ok := model.CoerceTime(ds.At(r, idx), loc)
		if !ok {
			continue
		}
		day := dayOf(t, loc)
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
		counts[day.Format(dayLayout)]++
	}
	if first.IsZero() {
		return []DailyCount{}, nil
	}

	var out []DailyCount
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayLayout)
		out = append(out, DailyCount{Day: key, Count: counts[key]})
	}
	if rolling {
		sum := 0
		for i := range out {
			sum += out[i].Count
			if i >= rollingWindow {
				sum -= out[i-rollingWindow].Count
			}
			if i >= rollingWindow-1 {
				mean := float64(sum) / rollingWindow
				out[i].RollingMean = &mean
			}
		}
	}
	return out, nil
}

// CategoryCount is one row of a frequency table.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopCategories returns the n most frequent values of column. n <= 0 means
// all of them.
func TopCategories(ds *model.Dataset, column string, n int) ([]CategoryCount, error) {
	if !ds.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s", model.ErrColumnNotFound, column)
	}
	freq := ds.Frequencies(column)
	if n > 0 && len(freq) > n {
		freq = freq[:n]
	}
	out := make([]CategoryCount, len(freq))
	for i, f := range freq {
		out[i] = CategoryCount{Value: f.Value.String(), Count: f.Count}
	}
	return out, nil
}

// Distribution summarises a numeric column.
type Distribution struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"stdDev"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	Outliers int     `json:"outliers"`
}

// Describe computes the distribution of a numeric column. Outliers are
// values beyond 1.5 IQR from the quartiles.
func Describe(ds *model.Dataset, column string) (Distribution, error) {
	idx, ok := ds.Index(column)
	if !ok {
		return Distribution{}, fmt.Errorf("%w: %s", model.ErrColumnNotFound, column)
	}
	if kind, _ := ds.Kind(column); kind != model.KindNumeric {
		return Distribution{}, fmt.Errorf("%w: %s", model.ErrNonNumeric, column)
	}
	var x []float64
	for r := 0; r < ds.NumRows(); r++ {
		if f, ok := ds.At(r, idx).Float(); ok {
			x = append(x, f)
		}
	}
	d := Distribution{Column: column, Count: len(x), Missing: ds.MissingCount(column)}
	if len(x) == 0 {
		return d, fmt.Errorf("%w: %s", model.ErrNoValues, column)
	}
	sort.Float64s(x)

	d.Mean = stat.Mean(x, nil)
	if len(x) > 1 {
		d.StdDev = stat.StdDev(x, nil)
	}
	d.Min, d.Max = x[0], x[len(x)-1]
	d.Q1 = stat.Quantile(0.25, stat.Empirical, x, nil)
	d.Q3 = stat.Quantile(0.75, stat.Empirical, x, nil)
	d.Median = median(x)

	iqr := d.Q3 - d.Q1
	lo, hi := d.Q1-1.5*iqr, d.Q3+1.5*iqr
	for _, v := range x {
		if v < lo || v > hi {
			d.Outliers++
		}
	}
	return d, nil
}

// median expects sorted input.
func median(x []float64) float64 {
	n := len(x)
	if n%2 == 1 {
		return x[n/2]
	}
	return (x[n/2-1] + x[n/2]) / 2
}

// Sample returns at most limit rows chosen with a fixed seed, in their
// original order, and whether sampling happened.
func Sample(ds *model.Dataset, limit int, seed int64) (*model.Dataset, bool) {
	if limit <= 0 || ds.NumRows() <= limit {
		return ds, false
	}
	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(ds.NumRows())[:limit]
	sort.Ints(picked)
	return ds.Select(picked), true
}

// ReportTypeColumn and InjuryCrash identify injury crashes.
const (
	ReportTypeColumn = "ACRS Report Type"
	InjuryCrash      = "Injury Crash"
)

// DashboardStats are the headline figures of the dashboard.
type DashboardStats struct {
	TotalRows      int        `json:"totalRows"`
	TopCategory    string     `json:"topCategory,omitempty"`
	CategoryColumn string     `json:"categoryColumn"`
	InjuryCrashes  *int       `json:"injuryCrashes,omitempty"`
	LatestDate     *time.Time `json:"latestDate,omitempty"`
}

// Dashboard computes the headline figures. Figures whose column is absent
// are left empty.
func Dashboard(ds *model.Dataset, c model.Contract, loc *time.Location) DashboardStats {
	c = c.WithDefaults()
	out := DashboardStats{TotalRows: ds.NumRows(), CategoryColumn: c.CategoryColumn}

	if v, _, ok := ds.Mode(c.CategoryColumn); ok {
		out.TopCategory = v.String()
	}
	if idx, ok := ds.Index(ReportTypeColumn); ok {
		n := 0
		for r := 0; r < ds.NumRows(); r++ {
			if v := ds.At(r, idx); v.Kind == model.TextValue && v.Str == InjuryCrash {
				n++
			}
		}
		out.InjuryCrashes = &n
	}
	if idx, ok := ds.Index(c.TimestampColumn); ok {
		loc = orLocal(loc)
		var latest time.Time
		found := false
		for r := 0; r < ds.NumRows(); r++ {
			if t, ok := model.CoerceTime(ds.At(r, idx), loc); ok && (!found || t.After(latest)) {
				latest, found = t, true
			}
		}
		if found {
			out.LatestDate = &latest
		}
	}
	return out
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

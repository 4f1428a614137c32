package model

import "time"

// Status classifies the completeness of a column.
type Status string

const (
	StatusCritical Status = "Critical"
	StatusWarning  Status = "Warning"
	StatusValid    Status = "Valid"
)

// ColumnCompleteness is one row of the completeness check.
type ColumnCompleteness struct {
	Column            string     `json:"column"`
	Kind              ColumnKind `json:"kind"`
	MissingCount      int        `json:"missingCount"`
	MissingPercentage float64    `json:"missingPercentage"`
	UniqueCount       int        `json:"uniqueCount"`
	Status            Status     `json:"status"`
}

// CompletenessResult lists every column once, worst first.
type CompletenessResult struct {
	Rows    int                  `json:"rows"`
	Columns []ColumnCompleteness `json:"columns"`
}

// WithStatus returns the names of the columns carrying status s, in result order.
func (c CompletenessResult) WithStatus(s Status) []string {
	var out []string
	for _, col := range c.Columns {
		if col.Status == s {
			out = append(out, col.Column)
		}
	}
	return out
}

// TotalMissing sums the missing cells over all columns.
func (c CompletenessResult) TotalMissing() int {
	n := 0
	for _, col := range c.Columns {
		n += col.MissingCount
	}
	return n
}

// AccuracyIssue counts the rows violating one accuracy rule.
type AccuracyIssue struct {
	Name   string `json:"name"`
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// AccuracyResult holds one entry per rule that applied to the dataset. A
// zero count means the rule ran and passed.
type AccuracyResult struct {
	Issues []AccuracyIssue `json:"issues"`
}

// Total sums all issue counts.
func (a AccuracyResult) Total() int {
	n := 0
	for _, is := range a.Issues {
		n += is.Count
	}
	return n
}

// Counts returns the issues as a name to count mapping.
func (a AccuracyResult) Counts() map[string]int {
	out := make(map[string]int, len(a.Issues))
	for _, is := range a.Issues {
		out[is.Name] += is.Count
	}
	return out
}

// Count returns the count of the named issue and whether its rule ran.
func (a AccuracyResult) Count(name string) (int, bool) {
	for _, is := range a.Issues {
		if is.Name == name {
			return is.Count, true
		}
	}
	return 0, false
}

// ConsistencyResult reports duplicate keys. KeyPresent is false when the key
// column does not exist and the check did not run.
type ConsistencyResult struct {
	KeyColumn      string  `json:"keyColumn"`
	KeyPresent     bool    `json:"keyPresent"`
	DuplicateCount int     `json:"duplicateCount"`
	DuplicateRate  float64 `json:"duplicateRate"`
}

// TimelinessResult reports the date range of the timestamp column and the
// rows dated after the audit ran.
type TimelinessResult struct {
	Column          string     `json:"column"`
	ColumnPresent   bool       `json:"columnPresent"`
	EarliestDate    *time.Time `json:"earliestDate"`
	LatestDate      *time.Time `json:"latestDate"`
	FutureDateCount int        `json:"futureDateCount"`
	ValidCount      int        `json:"validCount"`
	InvalidCount    int        `json:"invalidCount"`
	CheckedAt       time.Time  `json:"checkedAt"`
}

// Penalty is one deduction from the health score.
type Penalty struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// Report is the combined result of one audit run.
type Report struct {
	AuditID      string             `json:"auditId"`
	RanAt        time.Time          `json:"ranAt"`
	Rows         int                `json:"rows"`
	Columns      int                `json:"columns"`
	Score        int                `json:"score"`
	Penalties    []Penalty          `json:"penalties"`
	Completeness CompletenessResult `json:"completeness"`
	Accuracy     AccuracyResult     `json:"accuracy"`
	Consistency  ConsistencyResult  `json:"consistency"`
	Timeliness   TimelinessResult   `json:"timeliness"`
	SummaryText  string             `json:"summaryText"`
}

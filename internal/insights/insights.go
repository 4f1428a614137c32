// Package insights derives the top category and the worst missing-value
// column of a dataset and phrases them as a What / Why / So What / Now What
// narrative.
package insights

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"crash-data-audit/internal/model"
)

const painPointType = "Missing Values"

// TopPerformer returns the most frequent value of column, or nil when the
// column is absent or holds no values. Ties resolve to the smallest value.
func TopPerformer(ds *model.Dataset, column string) *model.TopPerformer {
	val, count, ok := ds.Mode(column)
	if !ok {
		return nil
	}
	return &model.TopPerformer{
		Category:   column,
		Value:      val.String(),
		Count:      count,
		Percentage: percent(count, ds.NumRows()),
	}
}

// PainPoint returns the column with the most missing values, the first one
// on ties, or nil when nothing is missing.
func PainPoint(ds *model.Dataset) *model.PainPoint {
	var worst *model.PainPoint
	for _, col := range ds.Columns() {
		n := ds.MissingCount(col)
		if n == 0 || (worst != nil && n <= worst.Count) {
			continue
		}
		worst = &model.PainPoint{Type: painPointType, Column: col, Count: n}
	}
	if worst != nil {
		worst.Percentage = percent(worst.Count, ds.NumRows())
	}
	return worst
}

// Generate computes both insights and their narrative.
func Generate(ds *model.Dataset, categoryColumn string) model.Insights {
	top := TopPerformer(ds, categoryColumn)
	pain := PainPoint(ds)
	return model.Insights{TopPerformer: top, PainPoint: pain, Narrative: Narrative(top, pain)}
}

// percent is count/total as a percentage rounded to one decimal.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*1000/float64(total)) / 10
}

var printer = message.NewPrinter(language.English)

// Narrative renders the insights as markdown. Absent insights are left out;
// both absent yields an empty string.
func Narrative(top *model.TopPerformer, pain *model.PainPoint) string {
	var sections []string
	if top != nil {
		sections = append(sections, printer.Sprintf(`### Key Insight: Top Performer
* **What:** %s '%s' is the most frequent, appearing %d times.
* **Why:** Represents %.1f%% of the total dataset, potentially indicating a high-activity zone or reporting bias.
* **So What:** This %s drives the majority of reports, making it a critical area for resource allocation.
* **Now What:** Focus deep-dive analysis on this specific %s to understand underlying drivers.
`, top.Category, top.Value, top.Count, top.Percentage, top.Category, top.Category))
	}
	if pain != nil {
		sections = append(sections, printer.Sprintf(`### Key Insight: Data Quality Pain Point
* **What:** Column '%s' has significant missing data (%d rows).
* **Why:** Missing %.1f%% of values, likely due to optional field status or data collection gaps.
* **So What:** This reduces the reliability of analysis involving '%s'.
* **Now What:** Use the **Data Cleaning** module to impute missing values (Mean/Median/Mode) or filter out incomplete records.
`, pain.Column, pain.Count, pain.Percentage, pain.Column))
	}
	return strings.Join(sections, "\n---\n\n")
}

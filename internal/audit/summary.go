package audit

import (
	"fmt"
	"strings"

	"crash-data-audit/internal/model"
)

// CleanMessage is the summary of a dataset with no reported issue.
const CleanMessage = "Data looks clean! No major issues detected."

// Summarize writes one sentence per category with an issue, in the order
// consistency, completeness, accuracy, timeliness.
func Summarize(comp model.CompletenessResult, cons model.ConsistencyResult, acc model.AccuracyResult, tl model.TimelinessResult) string {
	var lines []string

	if cons.DuplicateCount > 0 {
		lines = append(lines, fmt.Sprintf("Found %d duplicate IDs (Duplicate Rate: %.2f%%).", cons.DuplicateCount, cons.DuplicateRate))
	}
	if critical := comp.WithStatus(model.StatusCritical); len(critical) > 0 {
		lines = append(lines, fmt.Sprintf("Critical missing values (>1%%) found in key fields: %s.", strings.Join(critical, ", ")))
	}
	if total := acc.Total(); total > 0 {
		var details []string
		for _, is := range acc.Issues {
			if is.Count > 0 {
				details = append(details, fmt.Sprintf("%s: %d", is.Name, is.Count))
			}
		}
		lines = append(lines, fmt.Sprintf("Identified %d logical errors (%s).", total, strings.Join(details, ", ")))
	}
	if tl.FutureDateCount > 0 {
		lines = append(lines, fmt.Sprintf("Detected %d records with future dates.", tl.FutureDateCount))
	}

	skipped := ""
	if !cons.KeyPresent {
		skipped = fmt.Sprintf("Duplicate check skipped: key column %q not found.", cons.KeyColumn)
	}
	if len(lines) == 0 {
		if skipped != "" {
			return CleanMessage + " " + skipped
		}
		return CleanMessage
	}
	if skipped != "" {
		lines = append([]string{skipped}, lines...)
	}
	return strings.Join(lines, " ")
}

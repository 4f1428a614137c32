package audit

import (
	"fmt"

	"crash-data-audit/internal/model"
)

// ScoreBreakdown itemises the deductions from a perfect score of 100.
func ScoreBreakdown(comp model.CompletenessResult, cons model.ConsistencyResult, acc model.AccuracyResult, tl model.TimelinessResult) []model.Penalty {
	var out []model.Penalty
	for _, col := range comp.WithStatus(model.StatusCritical) {
		out = append(out, model.Penalty{Reason: fmt.Sprintf("critical missing values in %s", col), Points: 10})
	}
	if cons.DuplicateRate > 0 {
		out = append(out, model.Penalty{Reason: "duplicate report ids", Points: 10})
		if cons.DuplicateRate > 5 {
			out = append(out, model.Penalty{Reason: "duplicate rate above 5%", Points: 10})
		}
	}
	if total := acc.Total(); total > 0 {
		out = append(out, model.Penalty{Reason: "logical errors", Points: 5})
		if total > 100 {
			out = append(out, model.Penalty{Reason: "more than 100 logical errors", Points: 10})
		}
	}
	if tl.FutureDateCount > 0 {
		out = append(out, model.Penalty{Reason: "future-dated records", Points: 5})
	}
	return out
}

// Score subtracts the penalties from 100, floored at 0.
func Score(penalties []model.Penalty) int {
	score := 100
	for _, p := range penalties {
		score -= p.Points
	}
	if score < 0 {
		return 0
	}
	return score
}

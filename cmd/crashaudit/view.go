package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"crash-data-audit/internal/model"
	"crash-data-audit/internal/pipeline"
	"crash-data-audit/internal/session"
	"crash-data-audit/internal/trend"
)

// view renders results for a terminal. Colours are dropped when w is not a
// terminal.
type view struct {
	w io.Writer
	p *message.Printer

	header  lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
}

func newView(w io.Writer) *view {
	r := lipgloss.NewRenderer(w)
	return &view{
		w:       w,
		p:       message.NewPrinter(language.English),
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("45")).MarginTop(1),
		label:   r.NewStyle().Foreground(lipgloss.Color("45")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("245")),
		good:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		warn:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("226")),
		bad:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

func (v *view) line(format string, args ...any) {
	fmt.Fprintln(v.w, v.p.Sprintf(format, args...))
}

func (v *view) note(s string) {
	fmt.Fprintln(v.w, v.dim.Render(s))
}

func (v *view) scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return v.good
	case score >= 50:
		return v.warn
	default:
		return v.bad
	}
}

func (v *view) statusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusCritical:
		return v.bad
	case model.StatusWarning:
		return v.warn
	default:
		return v.good
	}
}

func (v *view) report(r *model.Report) {
	fmt.Fprintln(v.w, v.header.Render("Data Health Score ")+v.scoreStyle(r.Score).Render(fmt.Sprintf("%d/100", r.Score)))
	v.line("%s %d rows, %d columns", v.label.Render("Dataset:"), r.Rows, r.Columns)
	fmt.Fprintln(v.w, r.SummaryText)

	if len(r.Penalties) > 0 {
		fmt.Fprintln(v.w, v.section.Render("Penalties"))
		for _, p := range r.Penalties {
			v.line("  -%d  %s", p.Points, p.Reason)
		}
	}

	fmt.Fprintln(v.w, v.section.Render("Completeness"))
	flagged := 0
	for _, c := range r.Completeness.Columns {
		if c.Status == model.StatusValid {
			continue
		}
		flagged++
		v.line("  %-28s %8d missing (%5.2f%%)  %s", c.Column, c.MissingCount, c.MissingPercentage, v.statusStyle(c.Status).Render(string(c.Status)))
	}
	if flagged == 0 {
		v.note("  every column is complete enough")
	}

	fmt.Fprintln(v.w, v.section.Render("Accuracy"))
	if len(r.Accuracy.Issues) == 0 {
		v.note("  no logical errors")
	}
	for _, issue := range r.Accuracy.Issues {
		v.line("  %-28s %8d", issue.Name, issue.Count)
	}

	fmt.Fprintln(v.w, v.section.Render("Consistency"))
	if r.Consistency.KeyPresent {
		v.line("  %d duplicate %s values (%.2f%%)", r.Consistency.DuplicateCount, r.Consistency.KeyColumn, r.Consistency.DuplicateRate)
	} else {
		v.note(fmt.Sprintf("  key column %q not found", r.Consistency.KeyColumn))
	}

	fmt.Fprintln(v.w, v.section.Render("Timeliness"))
	tl := r.Timeliness
	switch {
	case !tl.ColumnPresent:
		v.note(fmt.Sprintf("  timestamp column %q not found", tl.Column))
	case tl.EarliestDate == nil:
		v.note("  no readable timestamps")
	default:
		v.line("  %s to %s, %d future-dated, %d unreadable",
			tl.EarliestDate.Format("2006-01-02"), tl.LatestDate.Format("2006-01-02"), tl.FutureDateCount, tl.InvalidCount)
	}
}

func (v *view) outcome(name string, out pipeline.Outcome) {
	var status string
	switch out.Status {
	case pipeline.StatusApplied:
		status = v.good.Render("applied")
	case pipeline.StatusNoOp:
		status = v.dim.Render("no-op")
	default:
		status = v.bad.Render("failed")
	}
	fmt.Fprintf(v.w, "%s %s %s\n", v.label.Render(name), status, out.Message)
}

func (v *view) cleaningLog(entries []model.CleaningLogEntry) {
	fmt.Fprintln(v.w, v.section.Render("Cleaning log"))
	if len(entries) == 0 {
		v.note("  nothing applied")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(v.w, "  %d. %s\n", e.SequenceNumber, e.Description)
	}
}

func (v *view) history(entries []model.HistoryLogEntry) {
	fmt.Fprintln(v.w, v.section.Render("History"))
	for _, e := range entries {
		fmt.Fprintf(v.w, "  %s  %s  %s\n", v.dim.Render(e.Timestamp.Format(model.HistoryTimeLayout)), v.label.Render(e.Action), e.Details)
	}
}

func (v *view) insights(ins model.Insights) {
	if ins.Narrative == "" {
		v.note("No insights: the category column is missing and no values are missing.")
		return
	}
	fmt.Fprintln(v.w, strings.TrimSpace(ins.Narrative))
}

func (v *view) dashboard(d trend.DashboardStats) {
	fmt.Fprintln(v.w, v.header.Render("Dashboard"))
	v.line("  %s %d", v.label.Render("Total crashes:"), d.TotalRows)
	if d.TopCategory != "" {
		fmt.Fprintf(v.w, "  %s %s\n", v.label.Render("Top "+d.CategoryColumn+":"), d.TopCategory)
	}
	if d.InjuryCrashes != nil {
		v.line("  %s %d", v.label.Render("Injury crashes:"), *d.InjuryCrashes)
	}
	if d.LatestDate != nil {
		fmt.Fprintf(v.w, "  %s %s\n", v.label.Render("Latest crash:"), d.LatestDate.Format("2006-01-02 15:04"))
	}
}

func (v *view) trend(res session.TrendResult) {
	v.line("%s %d rows after filters", v.label.Render("Selection:"), res.Rows)

	fmt.Fprintln(v.w, v.section.Render("Crashes per day"))
	if len(res.Daily) == 0 {
		v.note("  no readable timestamps")
	}
	for _, d := range res.Daily {
		if d.RollingMean != nil {
			v.line("  %s %6d  (7-day mean %.1f)", d.Day, d.Count, *d.RollingMean)
		} else {
			v.line("  %s %6d", d.Day, d.Count)
		}
	}

	fmt.Fprintln(v.w, v.section.Render("Top categories"))
	for i, c := range res.TopCategories {
		v.line("  %2d. %-32s %8d", i+1, c.Value, c.Count)
	}

	if d := res.Distribution; d != nil {
		fmt.Fprintln(v.w, v.section.Render("Distribution of "+d.Column))
		v.line("  count %d, missing %d, mean %.2f, std %.2f", d.Count, d.Missing, d.Mean, d.StdDev)
		v.line("  min %.2f, q1 %.2f, median %.2f, q3 %.2f, max %.2f", d.Min, d.Q1, d.Median, d.Q3, d.Max)
		v.line("  %d outliers beyond 1.5 IQR", d.Outliers)
		if res.Sampled {
			v.note(fmt.Sprintf("  computed on a sample of %d rows", d.Count+d.Missing))
		}
	}
}

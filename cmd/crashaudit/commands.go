package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"crash-data-audit/internal/api"
	"crash-data-audit/internal/pipeline"
	"crash-data-audit/internal/session"
	"crash-data-audit/internal/trend"
)

func newAuditCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		out    string
	)
	cmd := &cobra.Command{
		Use:   "audit <csv>",
		Short: "Score the data quality of a CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report, err := s.Audit(cmd.Context())
			if err != nil {
				return err
			}
			if out != "" {
				if err := writeFile(out, func(w io.Writer) error { return pipeline.WriteJSON(w, report) }); err != nil {
					return err
				}
			}
			if asJSON {
				return pipeline.WriteJSON(cmd.OutOrStdout(), report)
			}
			newView(cmd.OutOrStdout()).report(report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&out, "out", "", "also write the JSON report to this file")
	return cmd
}

func newCleanCmd(a *app) *cobra.Command {
	var (
		steps   []string
		out     string
		reAudit bool
		showLog bool
	)
	cmd := &cobra.Command{
		Use:   "clean <csv>",
		Short: "Apply cleaning steps to a CSV",
		Long: `Apply cleaning steps in order. Steps:
  impute:<column>:<method>   method is Mean, Median, Mode, Drop Rows, Fill Zero or Fill 'Unknown'
  fix-dates[:<col>,<col>]    convert date columns to timestamps
  trim                       trim whitespace in text cells
  dedupe[:<column>]          drop repeated report ids, keeping the first`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(steps) == 0 {
				return errors.New("at least one --step is required")
			}
			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			parsed := make([]pipeline.Step, 0, len(steps))
			for _, spec := range steps {
				step, err := pipeline.ParseStep(spec, s.Contract(), s.Location())
				if err != nil {
					return err
				}
				parsed = append(parsed, step)
			}

			v := newView(cmd.OutOrStdout())
			var failure error
			for _, step := range parsed {
				outcome := s.Clean(cmd.Context(), step)
				v.outcome(step.Name(), outcome)
				if outcome.Status == pipeline.StatusFailed {
					failure = fmt.Errorf("cleaning stopped at %s: %s", step.Name(), outcome.Message)
					break
				}
			}

			entries, err := s.CleaningLog(cmd.Context())
			if err != nil {
				return err
			}
			v.cleaningLog(entries)

			if out != "" {
				if err := writeFile(out, func(w io.Writer) error { return pipeline.WriteCSV(w, s.Dataset()) }); err != nil {
					return err
				}
				v.note(fmt.Sprintf("Wrote %s", out))
			}
			if reAudit {
				report, err := s.Audit(cmd.Context())
				if err != nil {
					return err
				}
				v.report(report)
			}
			if showLog {
				entries, err := s.History(cmd.Context())
				if err != nil {
					return err
				}
				v.history(entries)
			}
			return failure
		},
	}
	cmd.Flags().StringArrayVar(&steps, "step", nil, "cleaning step (repeatable)")
	cmd.Flags().StringVar(&out, "out", "", "write the cleaned CSV to this file")
	cmd.Flags().BoolVar(&reAudit, "audit", false, "audit the cleaned dataset")
	cmd.Flags().BoolVar(&showLog, "history", false, "print the session history")
	return cmd
}

func newInsightsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "insights <csv>",
		Short: "Summarise the top category and the worst missing column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ins, err := s.Insights()
			if err != nil {
				return err
			}
			if asJSON {
				return pipeline.WriteJSON(cmd.OutOrStdout(), ins)
			}
			newView(cmd.OutOrStdout()).insights(ins)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print insights as JSON")
	return cmd
}

func newTrendCmd(a *app) *cobra.Command {
	var (
		from, to   string
		categories []string
		rolling    bool
		top        int
		column     string
		sample     int
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "trend <csv>",
		Short: "Daily crash counts, category ranking and distributions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := session.TrendOptions{
				Filter:     trend.FilterOptions{Categories: categories},
				Rolling:    rolling,
				TopN:       top,
				Column:     column,
				SampleSize: sample,
			}
			for _, d := range []struct {
				flag, value string
				dst         *time.Time
			}{{"from", from, &opts.Filter.From}, {"to", to, &opts.Filter.To}} {
				if d.value == "" {
					continue
				}
				t, err := time.ParseInLocation("2006-01-02", d.value, a.loc)
				if err != nil {
					return fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", d.flag, d.value)
				}
				*d.dst = t
			}

			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := s.Trend(opts)
			if err != nil {
				return err
			}
			if asJSON {
				return pipeline.WriteJSON(cmd.OutOrStdout(), res)
			}
			v := newView(cmd.OutOrStdout())
			if stats, err := s.Dashboard(cmd.Context()); err == nil {
				v.dashboard(stats)
			}
			v.trend(res)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "categories to keep (repeatable)")
	cmd.Flags().BoolVar(&rolling, "rolling", false, "add the 7-day rolling mean")
	cmd.Flags().IntVar(&top, "top", 10, "number of categories to rank")
	cmd.Flags().StringVar(&column, "column", "", "numeric column to describe")
	cmd.Flags().IntVar(&sample, "sample", trend.DefaultSampleSize, "rows sampled for the distribution (negative disables)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return api.Serve(cmd.Context(), a.cfg, a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

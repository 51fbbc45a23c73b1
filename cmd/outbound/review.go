package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autotouch/outbound/internal/collector"
	"github.com/autotouch/outbound/internal/filter"
	"github.com/autotouch/outbound/internal/model"
	"github.com/autotouch/outbound/internal/review"
	"github.com/autotouch/outbound/internal/titles"
)

var reviewSearch searchFlags

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse collected jobs interactively (TUI)",
	Long: "Shows the title-set picker, collects jobs for the chosen set, then launches " +
		"the split-pane view of all merged jobs against the ones the local title filter keeps.",
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	reviewSearch.register(reviewCmd)
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	s, err := reviewSearch.resolve(cmd, cfg)
	if err != nil {
		return err
	}

	// Log output before the alt screen starts corrupts the display.
	logger := discardLogger()
	sources, err := buildSources(cfg, s.sources, logger)
	if err != nil {
		return err
	}
	coll := collector.New(sources, logger)

	names := titles.Names()
	options := make([]review.Option, len(names))
	for i, name := range names {
		list, _ := titles.Lookup(name)
		options[i] = review.Option{Label: name, Detail: fmt.Sprintf("%d titles", len(list))}
	}

	for {
		choice, err := review.RunPicker("Job Review: select a title set", options)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if choice < 0 {
			return nil
		}

		set := names[choice]
		list, _ := titles.Lookup(set)
		q := s.query
		q.TitleFilter = titles.ToORQuery(list)

		merged, err := review.RunLoader(cmd.Context(), "Collecting "+strings.ToUpper(set)+" jobs",
			func(ctx context.Context) (*collector.Merged, error) {
				return coll.Collect(ctx, q)
			})
		if err != nil {
			return err
		}
		for _, f := range merged.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", f)
		}

		all := merged.Records(q.Window, q.EmployeesLTE, q.EmployeesGTE)
		matched := filter.Apply(filter.NewTitleFilter(list, cfg.Filters.TitleExcludeKeywords), all)
		if matched == nil {
			matched = []model.Record{}
		}

		quit, err := review.Run(strings.ToUpper(set), all, matched)
		if err != nil {
			return fmt.Errorf("review: %w", err)
		}
		if quit {
			return nil
		}
	}
}

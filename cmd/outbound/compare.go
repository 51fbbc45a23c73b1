package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/autotouch/outbound/internal/collector"
	"github.com/autotouch/outbound/internal/model"
)

const (
	compareDefaultLimit   = 20
	compareDefaultKeyword = "Clay"
)

var (
	compareSearch  searchFlags
	compareSamples int
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare what each job source returns for the same search",
	Long: "Runs one search per source and prints raw, unique and duplicate counts, " +
		"the overlap by job key, and a few sample jobs per source. The first keyword is " +
		"used as the description filter (default Clay); the limit defaults to 20.",
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	compareSearch.register(compareCmd)
	compareCmd.Flags().IntVar(&compareSamples, "samples", 5, "sample jobs printed per source")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if compareSamples < 0 {
		return fmt.Errorf("--samples must not be negative, got %d", compareSamples)
	}
	s, err := compareSearch.resolve(cmd, cfg)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("limit") {
		s.query.Limit = compareDefaultLimit
	}
	if len(s.query.Keywords) == 0 {
		s.query.Keywords = []string{compareDefaultKeyword}
	}

	sources, err := buildSources(cfg, s.sources, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	q := model.JobQuery{
		Window:       s.query.Window,
		TitleFilter:  s.query.TitleFilter,
		EmployeesLTE: s.query.EmployeesLTE,
		EmployeesGTE: s.query.EmployeesGTE,
		Limit:        s.query.Limit,
	}
	if len(s.query.Keywords) > 0 {
		q.Keyword = s.query.Keywords[0]
	}

	c, err := collector.Compare(ctx, sources, q)
	if err != nil {
		return err
	}
	return c.Write(cmd.OutOrStdout(), compareSamples)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/autotouch/outbound/internal/collector"
	"github.com/autotouch/outbound/internal/config"
	"github.com/autotouch/outbound/internal/delivery"
	"github.com/autotouch/outbound/internal/filter"
	"github.com/autotouch/outbound/internal/model"
	"github.com/autotouch/outbound/internal/store"
)

var (
	sendSearch       searchFlags
	sendBatchSize    int
	sendDryRun       bool
	sendStrictTitles bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Fetch SDR/BDR job signals and send them to the Autotouch table webhook",
	Long: "Searches every source for every keyword, merges the results by job identity, " +
		"and posts the normalized records to the table webhook in batches.",
	Args: cobra.NoArgs,
	RunE: runSend,
}

func init() {
	sendSearch.register(sendCmd)
	sendCmd.Flags().IntVar(&sendBatchSize, "batch-size", 100, "records per webhook POST")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "do not send to the webhook; just print the summary")
	sendCmd.Flags().BoolVar(&sendStrictTitles, "strict-titles", false, "drop records whose title does not contain a phrase from the title set")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug).With("run_id", uuid.NewString())

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	s, err := sendSearch.resolve(cmd, cfg)
	if err != nil {
		return err
	}
	batchSize := cfg.Webhook.BatchSize
	if cmd.Flags().Changed("batch-size") {
		batchSize = sendBatchSize
	}
	if batchSize <= 0 {
		return fmt.Errorf("--batch-size must be positive, got %d", batchSize)
	}

	sources, err := buildSources(cfg, s.sources, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("searching",
		"window", s.query.Window,
		"title_set", s.titleSet,
		"keywords", s.query.Keywords,
		"sources", s.sources,
	)
	merged, err := collector.New(sources, logger).Collect(ctx, s.query)
	if err != nil {
		return err
	}
	if n := len(merged.Failures); n > 0 {
		logger.Warn("partial results: some source calls failed", "failed_calls", n)
	}

	records := merged.Records(s.query.Window, s.query.EmployeesLTE, s.query.EmployeesGTE)
	if sendStrictTitles {
		records = filter.Apply(filter.NewTitleFilter(s.titles, cfg.Filters.TitleExcludeKeywords), records)
		logger.Info("applied strict title filter", "kept", len(records), "of", merged.Len())
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fetched %d unique jobs.\n", len(records))
	if len(records) == 0 {
		return nil
	}
	if sendDryRun {
		_, err := delivery.NewDispatcher(delivery.NewLogDeliverer(logger), store.NopLedger{}, batchSize, logger).
			Dispatch(ctx, records)
		return err
	}

	res, err := deliver(ctx, cfg, records, batchSize, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Sent %d records to webhook.\n", res.Sent)
	if res.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d records already delivered.\n", res.Skipped)
	}
	return nil
}

func deliver(ctx context.Context, cfg *config.Config, records []model.Record, batchSize int, logger *slog.Logger) (delivery.Result, error) {
	webhook, err := delivery.NewWebhookDeliverer(
		cfg.Webhook.URL,
		cfg.Webhook.Token,
		&http.Client{Timeout: cfg.Webhook.Timeout},
		logger,
	)
	if err != nil {
		return delivery.Result{}, err
	}

	var ledger model.Ledger = store.NopLedger{}
	if cfg.Ledger.Enabled {
		l, err := store.NewSQLiteLedger(cfg.Ledger.Path)
		if err != nil {
			return delivery.Result{}, err
		}
		defer l.Close()
		ledger = l
	}

	return delivery.NewDispatcher(webhook, ledger, batchSize, logger).Dispatch(ctx, records)
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/autotouch/outbound/internal/store"
)

var ledgerOlderThan time.Duration

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and prune the delivered-jobs ledger",
}

var ledgerStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many job keys have been delivered",
	Args:  cobra.NoArgs,
	RunE:  runLedgerStats,
}

var ledgerPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Forget deliveries older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runLedgerPrune,
}

func init() {
	ledgerPruneCmd.Flags().DurationVar(&ledgerOlderThan, "older-than", 0, "age cutoff (default ledger.retention from config)")
	ledgerCmd.AddCommand(ledgerStatsCmd, ledgerPruneCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func openLedger() (*store.SQLiteLedger, time.Duration, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, 0, err
	}
	ledger, err := store.NewSQLiteLedger(cfg.Ledger.Path)
	if err != nil {
		return nil, 0, err
	}
	return ledger, cfg.Ledger.Retention, nil
}

func runLedgerStats(cmd *cobra.Command, args []string) error {
	ledger, _, err := openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()

	st, err := ledger.Stats()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Delivered keys: %d\n", st.Keys)
	fmt.Fprintf(out, "Batches:        %d\n", st.Batches)
	if st.Keys > 0 {
		fmt.Fprintf(out, "Oldest:         %s\n", st.Oldest.Format(time.RFC3339))
		fmt.Fprintf(out, "Newest:         %s\n", st.Newest.Format(time.RFC3339))
	}
	return nil
}

func runLedgerPrune(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ledger, retention, err := openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()

	age := retention
	if cmd.Flags().Changed("older-than") {
		age = ledgerOlderThan
	}
	if age <= 0 {
		return fmt.Errorf("--older-than must be positive, got %s", age)
	}

	n, err := ledger.Prune(age)
	if err != nil {
		return err
	}
	logger.Info("ledger pruned", "older_than", age.String(), "removed", n)
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries.\n", n)
	return nil
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/autotouch/outbound/internal/config"
	"github.com/autotouch/outbound/internal/model"
	"github.com/autotouch/outbound/internal/rapidapi"
	"github.com/autotouch/outbound/internal/ratelimit"
)

const defaultConfigPath = "outbound.yaml"

var (
	cfgPath string
	envPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "outbound",
	Short: "Outbound signal tooling for Autotouch",
	Long: "outbound aggregates SDR/BDR hiring signals from RapidAPI job boards, " +
		"merges them by job identity and delivers them to the Autotouch table webhook.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: OUTBOUND_CONFIG env var or ./outbound.yaml)")
	rootCmd.PersistentFlags().StringVar(&envPath, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > OUTBOUND_CONFIG env var > "./outbound.yaml".
// Without any file the defaults are filled from the environment.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("OUTBOUND_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); errors.Is(err, fs.ErrNotExist) {
			return config.FromEnv()
		}
		path = defaultConfigPath
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createSource builds the job source registered under name.
func createSource(cfg *config.Config, name string, httpClient *http.Client) (model.JobSource, string, error) {
	key := cfg.RapidAPI.APIKey
	switch name {
	case rapidapi.SourceLinkedInJobs:
		c, err := rapidapi.NewLinkedInJobsClient(key, cfg.RapidAPI.LinkedInJobsHost, httpClient)
		if err != nil {
			return nil, "", err
		}
		return c, c.Host(), nil
	case rapidapi.SourceActiveJobsDB:
		c, err := rapidapi.NewActiveJobsClient(key, cfg.RapidAPI.ActiveJobsHost, httpClient)
		if err != nil {
			return nil, "", err
		}
		return c, c.Host(), nil
	case rapidapi.SourceJSearch:
		c, err := rapidapi.NewJSearchClient(key, cfg.RapidAPI.JSearchHost, httpClient)
		if err != nil {
			return nil, "", err
		}
		return c, c.Host(), nil
	default:
		return nil, "", fmt.Errorf("unknown source %q (known: %v)", name, config.KnownSources)
	}
}

// buildSources creates the named sources in order, each paced by a limiter
// shared with every other source on the same host.
func buildSources(cfg *config.Config, names []string, logger *slog.Logger) ([]model.JobSource, error) {
	httpClient := &http.Client{Timeout: cfg.RapidAPI.Timeout}
	pacers := make(map[string]*ratelimit.HostPacer)

	var sources []model.JobSource
	for _, name := range names {
		src, host, err := createSource(cfg, name, httpClient)
		if err != nil {
			return nil, err
		}
		if delay := cfg.RateLimit.MinDelayFor(host); delay > 0 {
			p, ok := pacers[host]
			if !ok {
				p = ratelimit.NewHostPacer(delay)
				pacers[host] = p
			}
			src = ratelimit.NewPacedSource(src, p, host)
			logger.Debug("pacing source", "source", name, "host", host, "min_delay", delay.String())
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// printJSON writes a provider response body, indented. A non-success status
// is reported on stderr; the body is printed either way.
func printJSON(cmd *cobra.Command, resp *model.APIResponse) error {
	if !resp.OK() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: provider returned status %d\n", resp.Status)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp.Data)
}

// Package config loads the outbound CLI configuration: an optional YAML file,
// a .env file, and the environment variables the RapidAPI and webhook clients
// read.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/autotouch/outbound/internal/delivery"
	"github.com/autotouch/outbound/internal/model"
	"github.com/autotouch/outbound/internal/rapidapi"
)

// Config is the root configuration for the outbound CLI.
type Config struct {
	RapidAPI  RapidAPIConfig
	Webhook   WebhookConfig
	Search    SearchConfig
	Filters   FilterConfig
	Ledger    LedgerConfig
	RateLimit RateLimitConfig
}

// RapidAPIConfig holds the marketplace key and per-provider hosts.
type RapidAPIConfig struct {
	APIKey              string
	Timeout             time.Duration // per request
	LinkedInJobsHost    string
	ActiveJobsHost      string
	JSearchHost         string
	ApolloHost          string
	LinkedInProfileHost string
}

// WebhookConfig controls delivery to the Autotouch table.
type WebhookConfig struct {
	URL       string
	Token     string
	BatchSize int
	Timeout   time.Duration
}

// SearchConfig holds the defaults for job searches. Command-line flags
// override every field.
type SearchConfig struct {
	Window       model.Window
	Limit        int // per source per keyword
	Sources      []string
	TitleSet     string
	Keywords     []string
	EmployeesLTE *int
	EmployeesGTE *int
}

// FilterConfig holds the local title filter used by --strict-titles and the
// review screen.
type FilterConfig struct {
	TitleExcludeKeywords []string
}

// LedgerConfig controls the delivered-keys ledger.
type LedgerConfig struct {
	Enabled   bool
	Path      string
	Retention time.Duration // entries older than this are pruned by `ledger prune`
}

// RateLimitConfig controls request pacing per RapidAPI host.
type RateLimitConfig struct {
	MinDelay      time.Duration
	HostOverrides map[string]time.Duration // keyed by host
}

// MinDelayFor returns the configured delay for host, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(host string) time.Duration {
	if d, ok := r.HostOverrides[host]; ok {
		return d
	}
	return r.MinDelay
}

// KnownSources lists the job sources the CLI can query.
var KnownSources = []string{
	rapidapi.SourceLinkedInJobs,
	rapidapi.SourceActiveJobsDB,
	rapidapi.SourceJSearch,
}

const (
	defaultTimeout   = 30 * time.Second
	defaultLimit     = 50
	defaultBatchSize = 100
	defaultLedger    = "outbound.db"
	defaultRetention = 30 * 24 * time.Hour
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		RapidAPI: RapidAPIConfig{Timeout: defaultTimeout},
		Webhook: WebhookConfig{
			BatchSize: defaultBatchSize,
			Timeout:   defaultTimeout,
		},
		Search: SearchConfig{
			Window:   model.Window24h,
			Limit:    defaultLimit,
			Sources:  []string{rapidapi.SourceLinkedInJobs, rapidapi.SourceActiveJobsDB},
			TitleSet: "sdr",
		},
		Ledger: LedgerConfig{
			Path:      defaultLedger,
			Retention: defaultRetention,
		},
		RateLimit: RateLimitConfig{HostOverrides: map[string]time.Duration{}},
	}
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as
// strings).
type rawConfig struct {
	RapidAPI  rawRapidAPIConfig  `yaml:"rapidapi"`
	Webhook   rawWebhookConfig   `yaml:"webhook"`
	Search    rawSearchConfig    `yaml:"search"`
	Filters   rawFilterConfig    `yaml:"filters"`
	Ledger    rawLedgerConfig    `yaml:"ledger"`
	RateLimit rawRateLimitConfig `yaml:"rate_limit"`
}

type rawRapidAPIConfig struct {
	APIKey              string `yaml:"api_key"`
	Timeout             string `yaml:"timeout"`
	LinkedInJobsHost    string `yaml:"linkedin_jobs_host"`
	ActiveJobsHost      string `yaml:"active_jobs_host"`
	JSearchHost         string `yaml:"jsearch_host"`
	ApolloHost          string `yaml:"apollo_host"`
	LinkedInProfileHost string `yaml:"linkedin_profile_host"`
}

type rawWebhookConfig struct {
	URL       string `yaml:"url"`
	Token     string `yaml:"token"`
	BatchSize int    `yaml:"batch_size"`
	Timeout   string `yaml:"timeout"`
}

type rawSearchConfig struct {
	Window       string   `yaml:"window"`
	Limit        int      `yaml:"limit"`
	Sources      []string `yaml:"sources"`
	TitleSet     string   `yaml:"title_set"`
	Keywords     []string `yaml:"keywords"`
	EmployeesLTE *int     `yaml:"employees_lte"`
	EmployeesGTE *int     `yaml:"employees_gte"`
}

type rawFilterConfig struct {
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
}

type rawLedgerConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"`
}

type rawRateLimitConfig struct {
	MinDelay      string            `yaml:"min_delay"`
	HostOverrides map[string]string `yaml:"host_overrides"`
}

// Load reads and parses the YAML config file at path on top of Default,
// fills unset credentials and hosts from the environment, validates the
// result and returns it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := raw.apply(Default())
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv returns Default filled from the environment, for runs without a
// config file.
func FromEnv() (*Config, error) {
	cfg := Default()
	ApplyEnv(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (raw rawConfig) apply(cfg *Config) (*Config, error) {
	var err error

	r := raw.RapidAPI
	cfg.RapidAPI.APIKey = r.APIKey
	cfg.RapidAPI.LinkedInJobsHost = r.LinkedInJobsHost
	cfg.RapidAPI.ActiveJobsHost = r.ActiveJobsHost
	cfg.RapidAPI.JSearchHost = r.JSearchHost
	cfg.RapidAPI.ApolloHost = r.ApolloHost
	cfg.RapidAPI.LinkedInProfileHost = r.LinkedInProfileHost
	if cfg.RapidAPI.Timeout, err = parseDuration("rapidapi.timeout", r.Timeout, cfg.RapidAPI.Timeout); err != nil {
		return nil, err
	}

	w := raw.Webhook
	cfg.Webhook.URL = w.URL
	cfg.Webhook.Token = w.Token
	if w.BatchSize != 0 {
		cfg.Webhook.BatchSize = w.BatchSize
	}
	if cfg.Webhook.Timeout, err = parseDuration("webhook.timeout", w.Timeout, cfg.Webhook.Timeout); err != nil {
		return nil, err
	}

	s := raw.Search
	if s.Window != "" {
		cfg.Search.Window = model.Window(s.Window)
	}
	if s.Limit != 0 {
		cfg.Search.Limit = s.Limit
	}
	if len(s.Sources) > 0 {
		cfg.Search.Sources = s.Sources
	}
	if s.TitleSet != "" {
		cfg.Search.TitleSet = s.TitleSet
	}
	cfg.Search.Keywords = s.Keywords
	cfg.Search.EmployeesLTE = s.EmployeesLTE
	cfg.Search.EmployeesGTE = s.EmployeesGTE

	cfg.Filters.TitleExcludeKeywords = raw.Filters.TitleExcludeKeywords

	cfg.Ledger.Enabled = raw.Ledger.Enabled
	if raw.Ledger.Path != "" {
		cfg.Ledger.Path = raw.Ledger.Path
	}
	if cfg.Ledger.Retention, err = parseDuration("ledger.retention", raw.Ledger.Retention, cfg.Ledger.Retention); err != nil {
		return nil, err
	}

	if cfg.RateLimit.MinDelay, err = parseDuration("rate_limit.min_delay", raw.RateLimit.MinDelay, 0); err != nil {
		return nil, err
	}
	for host, v := range raw.RateLimit.HostOverrides {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.host_overrides[%q]: %w", host, err)
		}
		cfg.RateLimit.HostOverrides[host] = d
	}

	return cfg, nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

// ApplyEnv fills every credential and host left empty by the file from the
// environment, then falls back to the built-in defaults.
func ApplyEnv(cfg *Config) {
	r := &cfg.RapidAPI
	r.APIKey = firstNonEmpty(r.APIKey, os.Getenv("RAPID_API_KEY"), os.Getenv("RAPIDAPI_KEY"))
	r.LinkedInJobsHost = firstNonEmpty(r.LinkedInJobsHost, os.Getenv("RAPIDAPI_JOBS_HOST"), rapidapi.DefaultLinkedInJobsHost)
	r.ActiveJobsHost = firstNonEmpty(r.ActiveJobsHost, os.Getenv("RAPIDAPI_ACTIVE_JOBS_HOST"), rapidapi.DefaultActiveJobsHost)
	r.JSearchHost = firstNonEmpty(r.JSearchHost, os.Getenv("RAPIDAPI_JSEARCH_HOST"), rapidapi.DefaultJSearchHost)
	r.ApolloHost = firstNonEmpty(r.ApolloHost, os.Getenv("RAPIDAPI_APOLLO_HOST"), rapidapi.DefaultApolloHost)
	r.LinkedInProfileHost = firstNonEmpty(r.LinkedInProfileHost, os.Getenv("RAPIDAPI_LINKEDIN_HOST"), rapidapi.DefaultLinkedInProfileHost)

	w := &cfg.Webhook
	w.URL = firstNonEmpty(w.URL, os.Getenv("AUTOTOUCH_TABLE_WEBHOOK_URL"), delivery.DefaultWebhookURL)
	w.Token = firstNonEmpty(w.Token, os.Getenv("AUTOTOUCH_TABLE_WEBHOOK_TOKEN"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func validate(cfg *Config) error {
	if !cfg.Search.Window.Valid() {
		return fmt.Errorf("search.window must be 24h or 7d, got %q", cfg.Search.Window)
	}
	if cfg.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be positive, got %d", cfg.Search.Limit)
	}
	if len(cfg.Search.Sources) == 0 {
		return fmt.Errorf("search.sources must name at least one source")
	}
	for _, s := range cfg.Search.Sources {
		if !slices.Contains(KnownSources, s) {
			return fmt.Errorf("search.sources: unknown source %q (known: %v)", s, KnownSources)
		}
	}
	if cfg.Webhook.BatchSize <= 0 {
		return fmt.Errorf("webhook.batch_size must be positive, got %d", cfg.Webhook.BatchSize)
	}
	if cfg.RapidAPI.Timeout <= 0 || cfg.Webhook.Timeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}
	if cfg.Ledger.Enabled && cfg.Ledger.Path == "" {
		return fmt.Errorf("ledger.path is required when ledger.enabled is true")
	}
	return nil
}

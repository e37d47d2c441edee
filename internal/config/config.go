package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Config holds application configuration values.
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Storage
	DBPath string

	// Scraping
	BaseURL      string
	UserAgent    string
	ChromePath   string
	Proxy        string
	Headless     bool
	FetchTimeout time.Duration
	RunTimeout   time.Duration
	ReplyWorkers int

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Classifier service
	ClassifierURL     string
	ClassifierTimeout time.Duration

	// HTTP trigger
	ListenAddr string
}

// Load builds a Config by combining defaults, an optional .env file,
// SCRAPE_* environment variables, and CLI flags (highest priority).
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	// A missing .env file is normal.
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		DBPath:            DefaultDBPath,
		BaseURL:           DefaultBaseURL,
		UserAgent:         DefaultUserAgent,
		Headless:          DefaultHeadless,
		FetchTimeout:      DefaultFetchTimeout,
		RunTimeout:        DefaultRunTimeout,
		ReplyWorkers:      DefaultReplyWorkers,
		RateLimitRPS:      DefaultRateLimitRPS,
		RateLimitBurst:    DefaultRateLimitBurst,
		ClassifierURL:     DefaultClassifierURL,
		ClassifierTimeout: DefaultClassifierTimeout,
		ListenAddr:        DefaultListenAddr,
	}

	// Environment overrides
	if v := os.Getenv("SCRAPE_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SCRAPE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SCRAPE_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("SCRAPE_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("SCRAPE_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCRAPE_CLASSIFIER_URL"); v != "" {
		cfg.ClassifierURL = v
	}
	if v := os.Getenv("SCRAPE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("SCRAPE_REPLY_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReplyWorkers = n
		}
	}

	// CLI flags win over everything
	if cmd != nil {
		readFlags(cmd, cfg)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func readFlags(cmd *cobra.Command, cfg *Config) {
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		cfg.DBPath = f.Value.String()
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		if d, err := time.ParseDuration(f.Value.String()); err == nil {
			cfg.FetchTimeout = d
		}
	}
	if f := cmd.Flags().Lookup("run-timeout"); f != nil && f.Changed {
		if d, err := time.ParseDuration(f.Value.String()); err == nil {
			cfg.RunTimeout = d
		}
	}
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		if n, err := strconv.Atoi(f.Value.String()); err == nil {
			cfg.ReplyWorkers = n
		}
	}
	if f := cmd.Flags().Lookup("user-agent"); f != nil && f.Changed {
		cfg.UserAgent = f.Value.String()
	}
	if f := cmd.Flags().Lookup("proxy"); f != nil && f.Changed {
		cfg.Proxy = f.Value.String()
	}
	if f := cmd.Flags().Lookup("classifier-url"); f != nil && f.Changed {
		cfg.ClassifierURL = f.Value.String()
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.ListenAddr = f.Value.String()
	}
	if f := cmd.Flags().Lookup("headful"); f != nil && f.Value.String() == "true" {
		cfg.Headless = false
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "true" {
		cfg.JSONLog = true
	}
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "debug"
	}
}

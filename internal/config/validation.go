package config

import "fmt"

func validate(cfg *Config) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("db path must not be empty")
	}
	if cfg.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %v", cfg.FetchTimeout)
	}
	if cfg.RunTimeout <= 0 {
		return fmt.Errorf("run timeout must be positive, got %v", cfg.RunTimeout)
	}
	if cfg.RunTimeout < cfg.FetchTimeout {
		return fmt.Errorf("run timeout %v must not be shorter than fetch timeout %v", cfg.RunTimeout, cfg.FetchTimeout)
	}
	if cfg.ReplyWorkers < 1 || cfg.ReplyWorkers > 16 {
		return fmt.Errorf("reply workers must be in [1,16], got %d", cfg.ReplyWorkers)
	}
	if cfg.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1, got %d", cfg.RateLimitBurst)
	}
	return nil
}

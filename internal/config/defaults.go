package config

import "time"

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultJSONLog  = false

	DefaultDBPath  = "data/scrape.db"
	DefaultBaseURL = "https://www.threads.net"

	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultHeadless  = true

	DefaultFetchTimeout = 15 * time.Second
	DefaultRunTimeout   = 5 * time.Minute
	DefaultReplyWorkers = 3

	DefaultRateLimitRPS   = 2.0
	DefaultRateLimitBurst = 4

	DefaultClassifierURL     = ""
	DefaultClassifierTimeout = 30 * time.Second

	DefaultListenAddr = ":5001"
)

package config

import "time"

// Default configuration values.
const (
	DefaultInterface        = "eth0"
	DefaultLogLevel         = "info"
	DefaultMetricsAddr      = ""
	DefaultNRetries         = 5
	DefaultResponseTimeout  = 500 * time.Millisecond
	DefaultCacheTimeout     = 60 * time.Second
	DefaultBatchSize        = 32
)

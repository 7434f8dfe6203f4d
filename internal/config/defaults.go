package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultCoinGeckoURL      = "https://api.coingecko.com/api/v3"
	DefaultGammaURL          = "https://gamma-api.polymarket.com"
	DefaultAPITimeout        = 10 * time.Second
	DefaultMaxRetries        = 2
	DefaultRetryBackoff      = 500 * time.Millisecond
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 5
	DefaultUpdateTimeout     = 60
	DefaultLanguage          = "en"
	DefaultStorageBackend    = "postgres"
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultPollInterval      = 30 * time.Second
	DefaultPollTimeout       = 10 * time.Second
	DefaultPollConcurrency   = 4
	DefaultCommissionRate    = "0.10"
	DefaultMaxChainDepth     = 64
	DefaultTreeDepth         = 3
	DefaultCodeLength        = 8
	DefaultBatchSize         = 100
	DefaultFlushInterval     = 5 * time.Second
	DefaultBufferSize        = 1000
	DefaultClientBuffer      = 16
	DefaultServerPort        = 8080
	DefaultMetricsPath       = "/metrics"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultLogMaxSizeMB      = 100
	DefaultLogMaxBackups     = 5
	DefaultLogMaxAgeDays     = 14
)

// DefaultSymbols is the reference symbol -> CoinGecko id mapping.
func DefaultSymbols() map[string]string {
	return map[string]string{
		"POL":  "polymarket",
		"ETH":  "ethereum",
		"SOL":  "solana",
		"USDC": "usd-coin",
	}
}

func (c *BotConfig) applyDefaults() {
	// Bot defaults
	if c.Bot.UpdateTimeout == 0 {
		c.Bot.UpdateTimeout = DefaultUpdateTimeout
	}
	if c.Bot.DefaultLanguage == "" {
		c.Bot.DefaultLanguage = DefaultLanguage
	}

	// API defaults
	if c.API.CoinGeckoURL == "" {
		c.API.CoinGeckoURL = DefaultCoinGeckoURL
	}
	if c.API.GammaURL == "" {
		c.API.GammaURL = DefaultGammaURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}
	if c.API.RequestsPerSecond == 0 {
		c.API.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.API.Burst == 0 {
		c.API.Burst = DefaultBurst
	}

	// Storage & database defaults
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultStorageBackend
	}
	applyDBDefaults(&c.Database.Postgres)

	// Poller defaults
	if len(c.Poller.Symbols) == 0 {
		c.Poller.Symbols = DefaultSymbols()
	}
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}

	// Referral defaults
	if c.Referral.CommissionRate == "" {
		c.Referral.CommissionRate = DefaultCommissionRate
	}
	if c.Referral.MaxChainDepth == 0 {
		c.Referral.MaxChainDepth = DefaultMaxChainDepth
	}
	if c.Referral.TreeDepth == 0 {
		c.Referral.TreeDepth = DefaultTreeDepth
	}
	if c.Referral.CodeLength == 0 {
		c.Referral.CodeLength = DefaultCodeLength
	}

	// Writer defaults
	if c.Writer.BatchSize == 0 {
		c.Writer.BatchSize = DefaultBatchSize
	}
	if c.Writer.FlushInterval == 0 {
		c.Writer.FlushInterval = DefaultFlushInterval
	}
	if c.Writer.BufferSize == 0 {
		c.Writer.BufferSize = DefaultBufferSize
	}

	// Stream defaults
	if c.Stream.ClientBuffer == 0 {
		c.Stream.ClientBuffer = DefaultClientBuffer
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = DefaultLogMaxAgeDays
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

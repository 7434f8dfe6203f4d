package config

import "time"

// BotConfig is the root configuration for a bot instance.
type BotConfig struct {
	Bot      TelegramConfig `yaml:"bot"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Poller   PollerConfig   `yaml:"poller"`
	Referral ReferralConfig `yaml:"referral"`
	Writer   WriterConfig   `yaml:"writer"`
	Stream   StreamConfig   `yaml:"stream"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TelegramConfig holds Telegram Bot API settings.
type TelegramConfig struct {
	Token           string `yaml:"token"`
	Username        string `yaml:"username"` // Used to build referral links
	UpdateTimeout   int    `yaml:"update_timeout"`
	DefaultLanguage string `yaml:"default_language"`
	Debug           bool   `yaml:"debug"`
}

// APIConfig holds upstream REST API settings.
type APIConfig struct {
	CoinGeckoURL      string        `yaml:"coingecko_url"`
	CoinGeckoAPIKey   string        `yaml:"coingecko_api_key"`
	GammaURL          string        `yaml:"gamma_url"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// StorageConfig selects the user/referral store.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "postgres" or "memory"
}

// DatabaseConfig holds the PostgreSQL connection for users, rewards and price history.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
	Migrate  bool     `yaml:"migrate"` // Apply embedded schema on startup
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PollerConfig holds price poller settings.
type PollerConfig struct {
	// Symbols maps a short symbol to its CoinGecko id.
	Symbols     map[string]string `yaml:"symbols"`
	Interval    time.Duration     `yaml:"interval"`
	Timeout     time.Duration     `yaml:"timeout"`
	Concurrency int               `yaml:"concurrency"`
}

// ReferralConfig holds referral program settings.
type ReferralConfig struct {
	CommissionRate string `yaml:"commission_rate"` // Decimal string, e.g. "0.10"
	MaxChainDepth  int    `yaml:"max_chain_depth"`
	TreeDepth      int    `yaml:"tree_depth"`
	CodeLength     int    `yaml:"code_length"`
}

// WriterConfig holds price history writer settings.
type WriterConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// StreamConfig holds websocket price stream settings.
type StreamConfig struct {
	ClientBuffer int    `yaml:"client_buffer"`
	AuthToken    string `yaml:"auth_token"`
}

// ServerConfig holds the ops HTTP server settings (health, metrics, stream, settlement).
type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPath string `yaml:"metrics_path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // text or json
	File       string `yaml:"file"`   // Empty for stdout
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

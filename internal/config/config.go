package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug       bool   `mapstructure:"debug"`
	SentryDSN   string `mapstructure:"sentry_dsn"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
	NakDelay       time.Duration `mapstructure:"nak_delay"`
}

// HTTPConfig holds the outbound HTTP timeout and retry budget
type HTTPConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"` // per attempt
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

// RetryPolicy converts the config into the adapter retry policy
func (c HTTPConfig) RetryPolicy() adapter.RetryPolicy {
	p := adapter.DefaultRetryPolicy()
	if c.MaxAttempts > 0 {
		p.MaxAttempts = c.MaxAttempts
	}
	if c.InitialInterval > 0 {
		p.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		p.MaxInterval = c.MaxInterval
	}
	return p
}

// DexScreenerConfig holds DexScreener API configuration
type DexScreenerConfig struct {
	URL string `mapstructure:"url"`
}

// HeliusConfig holds Helius DAS API configuration. Holder counts are skipped when APIKey is empty.
type HeliusConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// ProvidersConfig groups the market data providers
type ProvidersConfig struct {
	HTTP        HTTPConfig        `mapstructure:"http"`
	DexScreener DexScreenerConfig `mapstructure:"dexscreener"`
	Helius      HeliusConfig      `mapstructure:"helius"`
}

// RateLimitConfig holds the request budget of one provider
type RateLimitConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
}

// RateLimiterConfig holds the rate limiter configuration keyed by provider name
type RateLimiterConfig struct {
	Providers map[string]RateLimitConfig `mapstructure:"providers"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	ReadTimeout  int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int      `mapstructure:"idle_timeout"`  // in seconds
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// RefreshSweeperConfig holds configuration for the market refresh sweeper
type RefreshSweeperConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
	Worker    WorkerConfig  `mapstructure:"worker"`
}

// HistoryConfig holds configuration for the token history snapshot sweeper
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Hours are the UTC hours of day a snapshot is taken at
	Hours     []int `mapstructure:"hours"`
	BatchSize int   `mapstructure:"batch_size"`
}

// IngestorConfig holds configuration for the ingestor
type IngestorConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Database    DatabaseConfig `mapstructure:"database"`
	NATS        NATSConfig     `mapstructure:"nats"`
	Worker      WorkerConfig   `mapstructure:"worker"`
	MetricsAddr string         `mapstructure:"metrics_addr"`
	// BlacklistPath points to a JSON file of contracts whose mentions are ignored
	BlacklistPath string `mapstructure:"blacklist_path"`
}

// RefresherConfig holds configuration for the refresher
type RefresherConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Database    DatabaseConfig       `mapstructure:"database"`
	Providers   ProvidersConfig      `mapstructure:"providers"`
	RateLimiter RateLimiterConfig    `mapstructure:"rate_limiter"`
	Sweeper     RefreshSweeperConfig `mapstructure:"sweeper"`
	History     HistoryConfig        `mapstructure:"history"`
	MetricsAddr string               `mapstructure:"metrics_addr"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Providers   ProvidersConfig   `mapstructure:"providers"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Auth        AuthConfig        `mapstructure:"auth"`
	// Worker bounds the concurrent refreshes of POST /tokens/index
	Worker WorkerConfig `mapstructure:"worker"`
}

// LoadIngestorConfig loads configuration for the ingestor
func LoadIngestorConfig(configFile string, envPath string) (*IngestorConfig, error) {
	v := configureViper("ingestor", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "TELEGRAM_MENTIONS")
	v.SetDefault("nats.consumer_name", "mention-ingestor")
	v.SetDefault("nats.connection_name", "tg-mention-ingestor")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 5)
	v.SetDefault("nats.nak_delay", "5s")
	v.SetDefault("worker.pool_size", 10)
	v.SetDefault("worker.queue_size", 1024)
	v.SetDefault("metrics_addr", ":9101")

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var cfg IngestorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadRefresherConfig loads configuration for the refresher
func LoadRefresherConfig(configFile string, envPath string) (*RefresherConfig, error) {
	v := configureViper("refresher", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setProviderDefaults(v)
	v.SetDefault("sweeper.interval", "5m")
	v.SetDefault("sweeper.batch_size", 100)
	v.SetDefault("sweeper.worker.pool_size", 5)
	v.SetDefault("sweeper.worker.queue_size", 500)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.hours", []int{0, 12})
	v.SetDefault("history.batch_size", 500)
	v.SetDefault("metrics_addr", ":9102")

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var cfg RefresherConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("worker.pool_size", 5)
	setDatabaseDefaults(v)
	setProviderDefaults(v)

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
}

// setProviderDefaults sets the provider endpoints and their request budgets.
// DexScreener allows 300 requests per minute on the token-pairs endpoint.
func setProviderDefaults(v *viper.Viper) {
	v.SetDefault("providers.http.timeout", "15s")
	v.SetDefault("providers.http.max_attempts", 3)
	v.SetDefault("providers.http.initial_interval", "1s")
	v.SetDefault("providers.http.max_interval", "10s")
	v.SetDefault("providers.dexscreener.url", "https://api.dexscreener.com")
	v.SetDefault("providers.helius.url", "https://mainnet.helius-rpc.com")
	v.SetDefault("rate_limiter.providers", map[string]any{
		"dexscreener": map[string]any{"requests_per_second": 5, "burst": 5, "max_queue_time": "2m"},
		"helius":      map[string]any{"requests_per_second": 10, "burst": 10, "max_queue_time": "1m"},
	})
}

// readInConfig reads the config file, falling back to defaults and environment when it does not exist
func readInConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("TG_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"environment",
		"metrics_addr",
		"blacklist_path",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		"nats.nak_delay",
		// Providers
		"providers.http.timeout",
		"providers.http.max_attempts",
		"providers.http.initial_interval",
		"providers.http.max_interval",
		"providers.dexscreener.url",
		"providers.helius.url",
		"providers.helius.api_key",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allow_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Workers
		"worker.pool_size",
		"worker.queue_size",
		// Refresh sweeper
		"sweeper.interval",
		"sweeper.batch_size",
		"sweeper.worker.pool_size",
		"sweeper.worker.queue_size",
		// Token history
		"history.enabled",
		"history.hours",
		"history.batch_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica database connection string.
// If ReadPort is not configured, it falls back to Port.
func (c *DatabaseConfig) ReadDSN() string {
	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}

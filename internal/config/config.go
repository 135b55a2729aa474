package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Trade    TradeConfig    `mapstructure:"trade"`
	Output   OutputConfig   `mapstructure:"output"`
	Progress ProgressConfig `mapstructure:"progress"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
}

// TradeConfig holds trade API configuration
type TradeConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Realm             string        `mapstructure:"realm"`
	League            string        `mapstructure:"league"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	Cooldown          time.Duration `mapstructure:"cooldown"`
	SearchDelay       time.Duration `mapstructure:"search_delay"`
	FetchDelay        time.Duration `mapstructure:"fetch_delay"`
	SubdivideDelay    time.Duration `mapstructure:"subdivide_delay"`
	FetchBatchSize    int           `mapstructure:"fetch_batch_size"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Dir          string `mapstructure:"dir"`
	ProgressFile string `mapstructure:"progress_file"`
}

// ProgressConfig selects the progress checkpoint backend
type ProgressConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "redis"
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	Database  int    `mapstructure:"database"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DatabaseConfig holds the optional Postgres sink configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Missing config.yaml is fine, defaults cover everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that the loaded configuration is usable
func (c *Config) Validate() error {
	if c.Trade.BaseURL == "" {
		return fmt.Errorf("trade.base_url must not be empty")
	}
	if c.Trade.League == "" {
		return fmt.Errorf("trade.league must not be empty")
	}
	if c.Trade.FetchBatchSize <= 0 {
		return fmt.Errorf("trade.fetch_batch_size must be positive")
	}
	if c.Trade.MaxRetries < 0 {
		return fmt.Errorf("trade.max_retries must not be negative")
	}
	if c.Trade.Timeout < 0 {
		return fmt.Errorf("trade.timeout must not be negative")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	switch c.Progress.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("progress.backend must be \"file\" or \"redis\", got %q", c.Progress.Backend)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("trade.base_url", "https://www.pathofexile.com/api/trade2")
	viper.SetDefault("trade.realm", "poe2")
	viper.SetDefault("trade.league", "Standard")
	viper.SetDefault("trade.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	viper.SetDefault("trade.timeout", "30s")
	viper.SetDefault("trade.max_retries", 5)
	viper.SetDefault("trade.cooldown", "60s")
	viper.SetDefault("trade.search_delay", "10s")
	viper.SetDefault("trade.fetch_delay", "5s")
	viper.SetDefault("trade.subdivide_delay", "2s")
	viper.SetDefault("trade.fetch_batch_size", 10)
	viper.SetDefault("trade.requests_per_second", 1)

	viper.SetDefault("output.dir", "poe2_session_dump")
	viper.SetDefault("output.progress_file", "progress.json")

	viper.SetDefault("progress.backend", "file")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.key_prefix", "poetrade:progress")

	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "poetrade")
	viper.SetDefault("database.user", "poetrade_user")
	viper.SetDefault("database.password", "poetrade_pass")
}

package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/fylo-cloud/fylo/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	ChangeFeed sharedConfig.ChangeFeedConfig `mapstructure:"changefeed"`
	Pricing    sharedConfig.PricingConfig    `mapstructure:"pricing"`
	Email      sharedConfig.EmailConfig      `mapstructure:"email"`
	Assistant  sharedConfig.AssistantConfig  `mapstructure:"assistant"`
	Auth       sharedConfig.AuthConfig       `mapstructure:"auth"`
	RateLimit  sharedConfig.RateLimitConfig  `mapstructure:"ratelimit"`
	Dashboard  sharedConfig.DashboardConfig  `mapstructure:"dashboard"`
}

const keyDelimiter = "::"

// DefaultJWTSecret is the published placeholder secret. Tokens signed with it
// can be forged by anyone who has read the sample config.
const DefaultJWTSecret = "change-me-in-production"

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A missing config file is not an error: defaults plus FYLO_* variables apply.
func Load(env string, configPath string) (*Config, error) {
	// OS identifiers such as ubuntu-22.04 are map keys, so "." cannot be
	// the key delimiter.
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("FYLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !asNotFound(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server::mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// UsesDefaultJWTSecret reports whether admin tokens are signed with the
// placeholder secret.
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.Auth.JWT.Secret == DefaultJWTSecret
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func asNotFound(err error, target *viper.ConfigFileNotFoundError) bool {
	nf, ok := err.(viper.ConfigFileNotFoundError)
	if ok {
		*target = nf
	}
	return ok
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server::host", "0.0.0.0")
	v.SetDefault("server::port", 8080)
	v.SetDefault("server::mode", "debug")
	v.SetDefault("server::base_url", "")
	v.SetDefault("server::timezone", "Europe/Madrid")
	v.SetDefault("server::allowed_origins", []string{"http://localhost:3000"})

	// Database defaults (empty driver keeps the order store disabled).
	// Every field needs a default, otherwise FYLO_DATABASE_* is never read.
	v.SetDefault("database::driver", "")
	v.SetDefault("database::host", "")
	v.SetDefault("database::port", 3306)
	v.SetDefault("database::username", "")
	v.SetDefault("database::password", "")
	v.SetDefault("database::database", "")
	v.SetDefault("database::path", "")
	v.SetDefault("database::max_idle_conns", 10)
	v.SetDefault("database::max_open_conns", 100)
	v.SetDefault("database::conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger::level", "info")
	v.SetDefault("logger::format", "console")
	v.SetDefault("logger::output_path", "stdout")

	// Redis defaults (empty host disables redis-backed features)
	v.SetDefault("redis::host", "")
	v.SetDefault("redis::port", 6379)
	v.SetDefault("redis::password", "")
	v.SetDefault("redis::db", 0)

	v.SetDefault("changefeed::driver", "memory")
	v.SetDefault("changefeed::nats_url", "nats://127.0.0.1:4222")

	// Pricing defaults
	v.SetDefault("pricing::currency", "EUR")
	v.SetDefault("pricing::core_price", 3.0)
	v.SetDefault("pricing::ram_price", 1.0)
	v.SetDefault("pricing::storage_price", 0.15)
	v.SetDefault("pricing::annual_discount_factor", 0.9)
	v.SetDefault("pricing::location_multipliers", map[string]float64{"miami": 1.05, "france": 1.0})
	v.SetDefault("pricing::os_license_fees", map[string]float64{"ubuntu-22.04": 0, "debian-12": 0, "windows-server-2022": 15})
	v.SetDefault("pricing::cores::min", 2)
	v.SetDefault("pricing::cores::max", 32)
	v.SetDefault("pricing::ram_gb::min", 4)
	v.SetDefault("pricing::ram_gb::max", 256)
	v.SetDefault("pricing::storage_gb::min", 100)
	v.SetDefault("pricing::storage_gb::max", 4000)

	// Email defaults
	v.SetDefault("email::smtp_host", "")
	v.SetDefault("email::smtp_port", 1025)
	v.SetDefault("email::smtp_user", "")
	v.SetDefault("email::smtp_password", "")
	v.SetDefault("email::from_address", "")
	v.SetDefault("email::from_name", "Fylo")

	// Assistant defaults
	v.SetDefault("assistant::api_key", "")
	v.SetDefault("assistant::base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("assistant::model", "gemini-2.5-flash")
	v.SetDefault("assistant::timeout", "30s")
	v.SetDefault("assistant::history_size", 10)

	// Auth defaults
	v.SetDefault("auth::jwt::secret", DefaultJWTSecret)
	v.SetDefault("auth::jwt::access_exp_minutes", 60)

	v.SetDefault("ratelimit::orders_per_minute", 10)
	v.SetDefault("ratelimit::assistant_per_minute", 20)

	v.SetDefault("dashboard::stats_cache_ttl", "15s")
	v.SetDefault("dashboard::revenue_months", 12)
	v.SetDefault("dashboard::list_limit", 500)
	v.SetDefault("dashboard::stream_bulk_limit", 0)
	v.SetDefault("dashboard::max_streams_per_user", 5)
}

package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the order store backend. An empty Driver means the
// store is not configured and the order endpoints run in a disabled state.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

// IsConfigured reports whether enough settings are present to open a connection.
func (d *DatabaseConfig) IsConfigured() bool {
	switch d.Driver {
	case "sqlite":
		return d.Path != ""
	case "mysql":
		return d.Host != "" && d.Database != ""
	default:
		return false
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (r *RedisConfig) IsConfigured() bool {
	return r.Host != ""
}

// ChangeFeedConfig selects how order change events are distributed to viewers.
type ChangeFeedConfig struct {
	Driver  string `mapstructure:"driver"` // memory, redis, nats
	NATSURL string `mapstructure:"nats_url"`
}

// RangeConfig is an inclusive quantity range.
type RangeConfig struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// PricingConfig carries the tariff constants. Amounts are in Currency units.
type PricingConfig struct {
	Currency             string             `mapstructure:"currency"`
	CorePrice            float64            `mapstructure:"core_price"`
	RAMPrice             float64            `mapstructure:"ram_price"`
	StoragePrice         float64            `mapstructure:"storage_price"`
	AnnualDiscountFactor float64            `mapstructure:"annual_discount_factor"`
	LocationMultipliers  map[string]float64 `mapstructure:"location_multipliers"`
	OSLicenseFees        map[string]float64 `mapstructure:"os_license_fees"`
	Cores                RangeConfig        `mapstructure:"cores"`
	RAMGb                RangeConfig        `mapstructure:"ram_gb"`
	StorageGb            RangeConfig        `mapstructure:"storage_gb"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

func (e *EmailConfig) IsConfigured() bool {
	return e.SMTPHost != "" && e.FromAddress != ""
}

type AssistantConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	HistorySize int           `mapstructure:"history_size"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type RateLimitConfig struct {
	OrdersPerMinute    int `mapstructure:"orders_per_minute"`
	AssistantPerMinute int `mapstructure:"assistant_per_minute"`
}

// DashboardConfig tunes the admin views. ListLimit caps the paged JSON list
// only; StreamBulkLimit caps the snapshot a live stream starts from, and zero
// loads every order.
type DashboardConfig struct {
	StatsCacheTTL   time.Duration `mapstructure:"stats_cache_ttl"`
	RevenueMonths   int           `mapstructure:"revenue_months"`
	ListLimit       int           `mapstructure:"list_limit"`
	StreamBulkLimit int           `mapstructure:"stream_bulk_limit"`
	MaxStreamsUser  int           `mapstructure:"max_streams_per_user"`
}

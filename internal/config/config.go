package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	LogLevel    string   `mapstructure:"LOG_LEVEL"`
	StoreDriver string   `mapstructure:"STORE_DRIVER"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	CacheDriver string        `mapstructure:"CACHE_DRIVER"`
	CacheTTL    time.Duration `mapstructure:"CACHE_TTL"`
	CacheSize   int           `mapstructure:"CACHE_SIZE"`
	RedisURL    string        `mapstructure:"REDIS_URL"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
	MetricsEnabled bool    `mapstructure:"METRICS_ENABLED"`

	WindowStartHour int `mapstructure:"WINDOW_START_HOUR"`
	WindowEndHour   int `mapstructure:"WINDOW_END_HOUR"`
	SlotMinutes     int `mapstructure:"SLOT_MINUTES"`
	UnitsPerSlot    int `mapstructure:"UNITS_PER_SLOT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", "memory")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("CACHE_DRIVER", "memory")
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("CACHE_SIZE", 1024)
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("WINDOW_START_HOUR", 8)
	v.SetDefault("WINDOW_END_HOUR", 18)
	v.SetDefault("SLOT_MINUTES", 30)
	v.SetDefault("UNITS_PER_SLOT", 40)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("STORE_DRIVER")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("CACHE_DRIVER")
	v.BindEnv("CACHE_TTL")
	v.BindEnv("CACHE_SIZE")
	v.BindEnv("REDIS_URL")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("METRICS_ENABLED")
	v.BindEnv("WINDOW_START_HOUR")
	v.BindEnv("WINDOW_END_HOUR")
	v.BindEnv("SLOT_MINUTES")
	v.BindEnv("UNITS_PER_SLOT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.StoreDriver == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is \"postgres\"")
	}

	if cfg.IsDev() && cfg.StoreDriver == "memory" {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: STORE_DRIVER=memory serves seeded demo data from memory.")
		log.Println("WARNING: All appointments reset on restart.")
		log.Println("WARNING: Set STORE_DRIVER=postgres and DATABASE_URL for durable data.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Driver names must be
// known, drivers that need a connection string must have one, and the display
// window must describe a real slot grid: hours within a single day, the end
// after the start, and a slot length that divides a whole hour.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is \"postgres\"")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be \"memory\" or \"postgres\", got %q", c.StoreDriver)
	}

	switch c.CacheDriver {
	case "off", "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_DRIVER is \"redis\"")
		}
	default:
		return fmt.Errorf("CACHE_DRIVER must be \"memory\", \"redis\", or \"off\", got %q", c.CacheDriver)
	}

	if c.CacheDriver != "off" {
		if c.CacheTTL <= 0 {
			return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
		}
		if c.CacheDriver == "memory" && c.CacheSize <= 0 {
			return fmt.Errorf("CACHE_SIZE must be positive, got %d", c.CacheSize)
		}
	}

	if c.WindowStartHour < 0 || c.WindowStartHour > 23 {
		return fmt.Errorf("WINDOW_START_HOUR must be between 0 and 23, got %d", c.WindowStartHour)
	}
	if c.WindowEndHour < 1 || c.WindowEndHour > 24 {
		return fmt.Errorf("WINDOW_END_HOUR must be between 1 and 24, got %d", c.WindowEndHour)
	}
	if c.WindowEndHour <= c.WindowStartHour {
		return fmt.Errorf("WINDOW_END_HOUR (%d) must be after WINDOW_START_HOUR (%d)", c.WindowEndHour, c.WindowStartHour)
	}
	if c.SlotMinutes <= 0 || 60%c.SlotMinutes != 0 {
		return fmt.Errorf("SLOT_MINUTES must divide an hour evenly, got %d", c.SlotMinutes)
	}
	if c.UnitsPerSlot <= 0 {
		return fmt.Errorf("UNITS_PER_SLOT must be positive, got %d", c.UnitsPerSlot)
	}

	return nil
}

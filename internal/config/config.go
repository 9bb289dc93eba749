package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. VACATION_SERVER_ADDR
const EnvPrefix = "VACATION"

// Config represents application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Vacation VacationConfig `mapstructure:"vacation"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// CalendarConfig represents holiday calendar configuration
type CalendarConfig struct {
	Type         string `mapstructure:"type"`   // "builtin", "isdayoff", "production-calendar" or "file"
	Region       string `mapstructure:"region"` // fixed for the whole process
	IsDayOffURL  string `mapstructure:"isdayoff_url"`
	APIURL       string `mapstructure:"api_url"` // production-calendar.ru
	APIToken     string `mapstructure:"api_token"`
	FallbackURL  string `mapstructure:"fallback_url"`  // xmlcalendar.ru template with {region} and {year}
	FallbackFile string `mapstructure:"fallback_file"` // local file used when the remote calendar fails
	File         string `mapstructure:"file"`          // for "file" type
	CacheTTL     string `mapstructure:"cache_ttl"`
	HTTPTimeout  string `mapstructure:"http_timeout"`
	PreloadYears []int  `mapstructure:"preload_years"`
}

// VacationConfig limits accepted requests
type VacationConfig struct {
	MaxRangeDays int `mapstructure:"max_range_days"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Calendar types
const (
	CalendarBuiltin    = "builtin"
	CalendarIsDayOff   = "isdayoff"
	CalendarProduction = "production-calendar"
	CalendarFile       = "file"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("calendar.type", CalendarBuiltin)
	v.SetDefault("calendar.region", "ru")
	v.SetDefault("calendar.isdayoff_url", "")
	v.SetDefault("calendar.api_url", "https://production-calendar.ru")
	v.SetDefault("calendar.api_token", "")
	v.SetDefault("calendar.fallback_url", "")
	v.SetDefault("calendar.fallback_file", "")
	v.SetDefault("calendar.file", "")
	v.SetDefault("calendar.cache_ttl", "24h")
	v.SetDefault("calendar.http_timeout", "10s")
	v.SetDefault("calendar.preload_years", []int{})

	v.SetDefault("vacation.max_range_days", 366)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load loads configuration from file, environment and defaults.
// Without an explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vacation-calculator")
		v.AddConfigPath("/etc/vacation-calculator")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	for key, value := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"calendar.cache_ttl":      c.Calendar.CacheTTL,
		"calendar.http_timeout":   c.Calendar.HTTPTimeout,
	} {
		if value == "" {
			continue
		}
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("%s must be a non-negative duration, got '%s'", key, value)
		}
	}

	if strings.TrimSpace(c.Calendar.Region) == "" {
		return fmt.Errorf("calendar.region is required")
	}

	switch c.Calendar.Type {
	case "", CalendarBuiltin:
		if !strings.EqualFold(strings.TrimSpace(c.Calendar.Region), "ru") {
			return fmt.Errorf("calendar.region must be 'ru' for builtin type, got '%s'", c.Calendar.Region)
		}
	case CalendarIsDayOff:
	case CalendarProduction:
		if c.Calendar.APIURL == "" {
			return fmt.Errorf("calendar.api_url is required for production-calendar type")
		}
		if c.Calendar.APIToken == "" {
			return fmt.Errorf("calendar.api_token is required for production-calendar type")
		}
	case CalendarFile:
		if c.Calendar.File == "" {
			return fmt.Errorf("calendar.file is required for file type")
		}
	default:
		return fmt.Errorf("calendar.type must be one of 'builtin', 'isdayoff', 'production-calendar', 'file', got '%s'", c.Calendar.Type)
	}

	for _, year := range c.Calendar.PreloadYears {
		if year < 1900 || year > 2200 {
			return fmt.Errorf("calendar.preload_years contains unsupported year %d", year)
		}
	}

	if c.Vacation.MaxRangeDays <= 0 {
		return fmt.Errorf("vacation.max_range_days must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got '%s'", c.Log.Level)
	}

	return nil
}

// GetReadTimeout returns HTTP server read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDuration(c.ReadTimeout, 10*time.Second)
}

// GetWriteTimeout returns HTTP server write timeout
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDuration(c.WriteTimeout, 10*time.Second)
}

// GetShutdownTimeout returns graceful shutdown timeout
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(c.ShutdownTimeout, 15*time.Second)
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	return parseDuration(c.CacheTTL, 24*time.Hour)
}

// GetHTTPTimeout returns timeout for remote calendar requests
func (c *CalendarConfig) GetHTTPTimeout() time.Duration {
	return parseDuration(c.HTTPTimeout, 10*time.Second)
}

// GetPreloadYears returns configured years, or the previous, current and next year
func (c *CalendarConfig) GetPreloadYears(now time.Time) []int {
	if len(c.PreloadYears) > 0 {
		return c.PreloadYears
	}
	year := now.Year()
	return []int{year - 1, year, year + 1}
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Calendar.APIToken = os.ExpandEnv(c.Calendar.APIToken)
	c.Calendar.File = os.ExpandEnv(c.Calendar.File)
	c.Calendar.FallbackFile = os.ExpandEnv(c.Calendar.FallbackFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}

func parseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return duration
}

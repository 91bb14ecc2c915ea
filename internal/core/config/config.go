package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Redis holds the optional Redis connection used for telemetry and payload caching.
	Redis RedisConfig `mapstructure:",squash"`

	// Shiprocket holds the logistics aggregator API configuration.
	Shiprocket ShiprocketConfig `mapstructure:",squash"`

	// Tracking holds tuning for shipment lookups.
	Tracking TrackingConfig `mapstructure:",squash"`

	// Scraper holds the browser fallback provider configuration.
	Scraper ScraperConfig `mapstructure:",squash"`

	// Report holds the unmapped status report configuration.
	Report ReportConfig `mapstructure:",squash"`
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	// URL has the form redis://[:password@]host[:port][/database]. Empty disables Redis.
	URL string `mapstructure:"REDIS_URL"`
}

// Enabled reports whether a Redis URL was configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// ShiprocketConfig holds the credentials for the shipment tracking API.
type ShiprocketConfig struct {
	// URL is the base URL of the API.
	URL string `mapstructure:"SHIPROCKET_URL" default:"https://apiv2.shiprocket.in"`
	// APIToken is the bearer token sent on every request.
	APIToken string `mapstructure:"SHIPROCKET_API_TOKEN" required:"true"`
	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int `mapstructure:"SHIPROCKET_TIMEOUT_SECONDS" default:"10"`
	// RatePerSecond limits outbound requests. 0 means unlimited.
	RatePerSecond float64 `mapstructure:"SHIPROCKET_RATE_PER_SECOND" default:"5"`
	// RateBurst is the limiter bucket size.
	RateBurst int `mapstructure:"SHIPROCKET_RATE_BURST" default:"5"`
}

// Timeout returns the per-request timeout.
func (c ShiprocketConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TrackingConfig tunes shipment lookups.
type TrackingConfig struct {
	// CacheTTLSeconds is how long raw provider payloads stay cached. 0 disables caching.
	CacheTTLSeconds int `mapstructure:"TRACKING_CACHE_TTL_SECONDS" default:"0"`
	// MaxConcurrency bounds parallel lookups for one order.
	MaxConcurrency int `mapstructure:"TRACKING_MAX_CONCURRENCY" default:"4"`
}

// CacheTTL returns the raw payload cache TTL.
func (c TrackingConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ScraperConfig configures the browser based tracking provider.
type ScraperConfig struct {
	// PageURL is a printf template taking the shipment identifier. Empty disables the scraper.
	PageURL string `mapstructure:"SCRAPER_PAGE_URL"`
	// APIPattern is the request pattern hijacked on the tracking page.
	APIPattern string `mapstructure:"SCRAPER_API_PATTERN"`
	// TimeoutSeconds bounds a whole scrape.
	TimeoutSeconds int `mapstructure:"SCRAPER_TIMEOUT_SECONDS" default:"45"`
}

// Enabled reports whether the scraper has enough configuration to run.
func (c ScraperConfig) Enabled() bool {
	return c.PageURL != "" && c.APIPattern != ""
}

// Timeout returns the scrape timeout.
func (c ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReportConfig configures the periodic unmapped status report.
type ReportConfig struct {
	// Schedule is a 5-field cron expression. Empty disables the report.
	Schedule string `mapstructure:"UNMAPPED_REPORT_SCHEDULE"`
	// TopN is the number of statuses included per report.
	TopN int `mapstructure:"UNMAPPED_REPORT_TOP_N" default:"20"`
	// MaxStatuses bounds how many distinct unmapped statuses are kept in Redis.
	MaxStatuses int `mapstructure:"UNMAPPED_MAX_STATUSES" default:"1000"`
	// SlackWebhookURL receives the report. Empty means log only.
	SlackWebhookURL string `mapstructure:"SLACK_WEBHOOK_URL"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if config.Tracking.MaxConcurrency < 1 {
		return nil, fmt.Errorf("invalid configuration: TRACKING_MAX_CONCURRENCY must be at least 1")
	}

	return &config, nil
}

// processTags binds every tagged field to its env key and registers defaults.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key == "" {
			continue
		}

		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}

		if defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}

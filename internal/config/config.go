package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/fraudknight/hsproxy/internal/core/domain"
)

const (
	DefaultPort = 3030
	DefaultHost = "0.0.0.0"

	DefaultDevBaseURL  = "https://dev.fraudknight.com/api/gateway"
	DefaultProdBaseURL = "https://fraudknight.com/api/gateway"

	DefaultTenantID     = "3"
	DefaultMaxBodySize  = 1 << 20
	DefaultEnvPrefix    = "HSPROXY"
	DefaultConfigEnvVar = "HSPROXY_CONFIG_FILE"
	PortEnvVar          = "PORT"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// DefaultCaseDefaults are sent with every cases listing unless the caller overrides them
func DefaultCaseDefaults() []QueryDefault {
	return []QueryDefault{
		{Key: "page", Value: "0"},
		{Key: "tenantId", Value: DefaultTenantID},
		{Key: "size", Value: "100"},
		{Key: "sort", Value: "createdDateTime,desc"},
		{Key: "caseStatus", Value: "OPEN"},
		{Key: "caseType", Value: "APPLICATION"},
		{Key: "assigneeId", Value: "3e5335d6-0edc-4db4-a8a9-f03dc81dc0a9"},
	}
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestLogging:  true,
			RequestLimits: ServerRequestLimits{
				MaxBodySize: DefaultMaxBodySize,
			},
		},
		Upstream: UpstreamConfig{
			DevBaseURL:  DefaultDevBaseURL,
			ProdBaseURL: DefaultProdBaseURL,
			Timeout:     30 * time.Second,
		},
		Routes: RoutesConfig{
			Cases: CasesRouteConfig{
				DefaultTenantID: DefaultTenantID,
				Defaults:        DefaultCaseDefaults(),
			},
		},
		CORS: CORSConfig{
			AllowOrigin:    "*",
			AllowMethods:   "GET,PUT,OPTIONS",
			DefaultHeaders: "Authorization,x-tenant-id,Content-Type",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{
				Enabled: true,
			},
		},
	}
}

// setDefaults registers every scalar key so env overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", cfg.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.request_logging", cfg.Server.RequestLogging)
	v.SetDefault("server.request_limits.max_body_size", cfg.Server.RequestLimits.MaxBodySize)

	v.SetDefault("upstream.dev_base_url", cfg.Upstream.DevBaseURL)
	v.SetDefault("upstream.prod_base_url", cfg.Upstream.ProdBaseURL)
	v.SetDefault("upstream.timeout", cfg.Upstream.Timeout)

	v.SetDefault("routes.cases.default_tenant_id", cfg.Routes.Cases.DefaultTenantID)

	v.SetDefault("cors.allow_origin", cfg.CORS.AllowOrigin)
	v.SetDefault("cors.allow_methods", cfg.CORS.AllowMethods)
	v.SetDefault("cors.default_headers", cfg.CORS.DefaultHeaders)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)

	v.SetDefault("telemetry.metrics.enabled", cfg.Telemetry.Metrics.Enabled)
	v.SetDefault("engineering.show_nerdstats", cfg.Engineering.ShowNerdStats)
	v.SetDefault("engineering.profiler_address", cfg.Engineering.ProfilerAddress)
}

// Load loads configuration from file and environment variables. When onChange
// is non-nil the config file is watched and every reload is passed to it,
// either as a validated config or as the error that rejected it.
func Load(onChange func(*Config, error)) (*Config, error) {
	config := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, config)

	if configFile := os.Getenv(DefaultConfigEnvVar); configFile != "" {
		v.SetConfigFile(configFile)
	}

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		fileFound = false
	}

	if err := decode(v, config); err != nil {
		return nil, err
	}
	if fileFound {
		config.Filename = v.ConfigFileUsed()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if fileFound && onChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				return
			}
			reloaded := DefaultConfig()
			if err := decode(v, reloaded); err != nil {
				onChange(nil, err)
				return
			}
			reloaded.Filename = e.Name
			if err := reloaded.Validate(); err != nil {
				onChange(nil, err)
				return
			}
			onChange(reloaded, nil)
		})
		v.WatchConfig()
	}

	return config, nil
}

func decode(v *viper.Viper, config *Config) error {
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}

	// PORT wins only when nothing more specific was given
	if os.Getenv(DefaultEnvPrefix+"_SERVER_PORT") == "" {
		if raw := os.Getenv(PortEnvVar); raw != "" {
			port, err := strconv.Atoi(raw)
			if err != nil {
				return &domain.ConfigValidationError{Field: PortEnvVar, Value: raw, Reason: "must be a number"}
			}
			config.Server.Port = port
		}
	}
	return nil
}

// Validate checks the config for values the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &domain.ConfigValidationError{Field: "server.port", Value: c.Server.Port, Reason: "must be between 1 and 65535"}
	}
	if c.Server.RequestLimits.MaxBodySize <= 0 {
		return &domain.ConfigValidationError{Field: "server.request_limits.max_body_size", Value: c.Server.RequestLimits.MaxBodySize, Reason: "must be positive"}
	}
	if err := validateBaseURL("upstream.dev_base_url", c.Upstream.DevBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("upstream.prod_base_url", c.Upstream.ProdBaseURL); err != nil {
		return err
	}
	if c.Upstream.Timeout < 0 {
		return &domain.ConfigValidationError{Field: "upstream.timeout", Value: c.Upstream.Timeout, Reason: "cannot be negative"}
	}
	if c.Routes.Cases.DefaultTenantID == "" {
		return &domain.ConfigValidationError{Field: "routes.cases.default_tenant_id", Value: "", Reason: "cannot be empty"}
	}
	for i, d := range c.Routes.Cases.Defaults {
		if d.Key == "" {
			return &domain.ConfigValidationError{Field: fmt.Sprintf("routes.cases.defaults[%d].key", i), Value: d.Value, Reason: "cannot be empty"}
		}
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return &domain.ConfigValidationError{Field: "logging.level", Value: c.Logging.Level, Reason: "unknown level"}
	}
	return nil
}

func validateBaseURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &domain.ConfigValidationError{Field: field, Value: raw, Reason: "must be an absolute URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &domain.ConfigValidationError{Field: field, Value: raw, Reason: "scheme must be http or https"}
	}
	return nil
}

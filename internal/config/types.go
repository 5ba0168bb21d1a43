package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Filename    string            `mapstructure:"-" yaml:"-"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Upstream    UpstreamConfig    `mapstructure:"upstream" yaml:"upstream"`
	Routes      RoutesConfig      `mapstructure:"routes" yaml:"routes"`
	CORS        CORSConfig        `mapstructure:"cors" yaml:"cors"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry" yaml:"telemetry"`
	Engineering EngineeringConfig `mapstructure:"engineering" yaml:"engineering"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string              `mapstructure:"host" yaml:"host"`
	RequestLimits   ServerRequestLimits `mapstructure:"request_limits" yaml:"request_limits"`
	Port            int                 `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration       `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration       `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration       `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration       `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	RequestLogging  bool                `mapstructure:"request_logging" yaml:"request_logging"`
}

// GetAddress returns the server address in host:port format
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ServerRequestLimits caps inbound request bodies (only PUT carries one)
type ServerRequestLimits struct {
	MaxBodySize int64 `mapstructure:"max_body_size" yaml:"max_body_size"`
}

// UpstreamConfig points at the case-management gateway
type UpstreamConfig struct {
	DevBaseURL  string        `mapstructure:"dev_base_url" yaml:"dev_base_url"`
	ProdBaseURL string        `mapstructure:"prod_base_url" yaml:"prod_base_url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"` // 0 disables
}

// RoutesConfig holds per-route tunables
type RoutesConfig struct {
	Cases CasesRouteConfig `mapstructure:"cases" yaml:"cases"`
}

// CasesRouteConfig holds the defaults the cases listing always sends upstream
type CasesRouteConfig struct {
	DefaultTenantID string         `mapstructure:"default_tenant_id" yaml:"default_tenant_id"`
	Defaults        []QueryDefault `mapstructure:"defaults" yaml:"defaults"`
}

// QueryDefault is one ordered default query parameter
type QueryDefault struct {
	Key   string `mapstructure:"key" yaml:"key"`
	Value string `mapstructure:"value" yaml:"value"`
}

// CORSConfig controls the headers attached to every response
type CORSConfig struct {
	AllowOrigin    string `mapstructure:"allow_origin" yaml:"allow_origin"`
	AllowMethods   string `mapstructure:"allow_methods" yaml:"allow_methods"`
	DefaultHeaders string `mapstructure:"default_headers" yaml:"default_headers"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// TelemetryConfig holds observability configuration
type TelemetryConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// MetricsConfig toggles the prometheus endpoint
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// EngineeringConfig holds development/debugging configuration
type EngineeringConfig struct {
	ProfilerAddress string `mapstructure:"profiler_address" yaml:"profiler_address"` // pprof listens here when set
	ShowNerdStats   bool   `mapstructure:"show_nerdstats" yaml:"show_nerdstats"`
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Authentication AuthenticationConfig `mapstructure:"authentication"`
	Authorization  AuthorizationConfig  `mapstructure:"authorization"`
	WaitingRoom    WaitingRoomConfig    `mapstructure:"waiting_room"`
	Staff          []StaffAccount       `mapstructure:"staff"`
	Password       PasswordConfig       `mapstructure:"password"`
	Nats           NatsConfig           `mapstructure:"nats"`
	Observability  ObservabilityConfig  `mapstructure:"observability"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

type NatsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url" yaml:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type RedisConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type ServerConfig struct {
	Port           int             `mapstructure:"port"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	Environment    string          `mapstructure:"environment"`
	CORS           CORSConfig      `mapstructure:"cors"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAgeSeconds    int      `mapstructure:"max_age_seconds"`
}

type AuthenticationConfig struct {
	Paseto            PasetoConfig `mapstructure:"paseto"`
	SessionTTLMinutes int          `mapstructure:"session_ttl_minutes"`
}

type PasetoConfig struct {
	Mode             string `mapstructure:"mode"`
	LocalKeyHex      string `mapstructure:"local_key_hex"`
	SecretKeyHex     string `mapstructure:"secret_key_hex"`
	PublicKeyHex     string `mapstructure:"public_key_hex"`
	Issuer           string `mapstructure:"issuer"`
	Audience         string `mapstructure:"audience"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
}

type AuthorizationConfig struct {
	EnableAudit bool `mapstructure:"enable_audit"`
}

// WaitingRoomConfig tunes the pager. Zero values fall back to the clinic defaults.
type WaitingRoomConfig struct {
	AutoClearSeconds int         `mapstructure:"auto_clear_seconds"`
	HistorySize      int         `mapstructure:"history_size"`
	SettingsKey      string      `mapstructure:"settings_key"`
	SubscriberBuffer int         `mapstructure:"subscriber_buffer"`
	DisplayHistory   int         `mapstructure:"display_history"`
	Audio            AudioConfig `mapstructure:"audio"`
}

type AudioConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	SampleRate int  `mapstructure:"sample_rate"`
}

// StaffAccount is a sign-in identity seeded from configuration.
type StaffAccount struct {
	ID           string `mapstructure:"id"`
	Username     string `mapstructure:"username"`
	FirstName    string `mapstructure:"first_name"`
	LastName     string `mapstructure:"last_name"`
	Role         string `mapstructure:"role"`
	PasswordHash string `mapstructure:"password_hash"`
}

type PasswordConfig struct {
	Algorithm     string `mapstructure:"algorithm"`
	MemoryKiB     uint32 `mapstructure:"memory_kib"`
	Iterations    uint32 `mapstructure:"iterations"`
	Parallelism   uint8  `mapstructure:"parallelism"`
	SaltLength    uint32 `mapstructure:"salt_length"`
	KeyLength     uint32 `mapstructure:"key_length"`
	LowMemoryMode bool   `mapstructure:"low_memory_mode"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/app.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	Username string `mapstructure:"username"` // for Grafana Cloud basic auth
	Password string `mapstructure:"password"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

// ApplyDefaults fills zero values that have a sensible clinic default.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 30
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.RateLimit.RequestsPerMinute == 0 {
		c.Server.RateLimit.RequestsPerMinute = 120
	}

	wr := &c.WaitingRoom
	if wr.AutoClearSeconds == 0 {
		wr.AutoClearSeconds = 60
	}
	if wr.HistorySize == 0 {
		wr.HistorySize = 10
	}
	if wr.SettingsKey == "" {
		wr.SettingsKey = "waitingRoomSettings"
	}
	if wr.SubscriberBuffer == 0 {
		wr.SubscriberBuffer = 16
	}
	if wr.DisplayHistory == 0 {
		wr.DisplayHistory = 6
	}
	if wr.Audio.SampleRate == 0 {
		wr.Audio.SampleRate = 22050
	}

	if c.Authentication.SessionTTLMinutes == 0 {
		c.Authentication.SessionTTLMinutes = 12 * 60
	}
	if c.Nats.SubjectPrefix == "" {
		c.Nats.SubjectPrefix = "dental"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "dentaldesk"
	}
	if c.Observability.Metrics.Path == "" {
		c.Observability.Metrics.Path = "/metrics"
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	wr := c.WaitingRoom
	if wr.AutoClearSeconds < 0 {
		errs = append(errs, fmt.Errorf("waiting_room.auto_clear_seconds must be positive"))
	}
	if wr.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("waiting_room.history_size must be positive"))
	}
	if wr.DisplayHistory > wr.HistorySize && wr.HistorySize > 0 {
		errs = append(errs, fmt.Errorf("waiting_room.display_history (%d) exceeds history_size (%d)", wr.DisplayHistory, wr.HistorySize))
	}
	if wr.Audio.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("waiting_room.audio.sample_rate must be positive"))
	}

	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		errs = append(errs, fmt.Errorf("redis.addr is required when redis is enabled"))
	}
	if c.Nats.Enabled && strings.TrimSpace(c.Nats.URL) == "" {
		errs = append(errs, fmt.Errorf("nats.url is required when nats is enabled"))
	}

	seen := make(map[string]bool, len(c.Staff))
	for i, s := range c.Staff {
		name := strings.ToLower(strings.TrimSpace(s.Username))
		if name == "" {
			errs = append(errs, fmt.Errorf("staff[%d].username is required", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("staff[%d]: duplicate username %q", i, s.Username))
		}
		seen[name] = true
		if s.Role == "" {
			errs = append(errs, fmt.Errorf("staff[%d].role is required", i))
		}
		if s.PasswordHash == "" {
			errs = append(errs, fmt.Errorf("staff[%d].password_hash is required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Package config loads the runtime configuration shared by the CLI and the
// HTTP server: a YAML or JSON file, overridden by CV_ATS_* environment
// variables, overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// CV_ATS_SERVER_PORT or CV_ATS_AI_API_KEY.
const EnvPrefix = "CV_ATS"

// Config is the full runtime configuration.
type Config struct {
	// Dictionary is a path to a keyword dictionary; empty uses the embedded one.
	Dictionary string `mapstructure:"dictionary" json:"dictionary,omitempty"`
	// Industry is the default industry used when a request names none.
	Industry string `mapstructure:"industry" json:"industry,omitempty"`

	AI     AIConfig     `mapstructure:"ai" json:"ai"`
	Server ServerConfig `mapstructure:"server" json:"server"`
	Log    LogConfig    `mapstructure:"log" json:"log"`
}

// AIConfig selects the optional AI provider used for tailoring.
type AIConfig struct {
	Provider string        `mapstructure:"provider" json:"provider" validate:"oneof=none gemini vertex"`
	APIKey   string        `mapstructure:"api-key" json:"-" validate:"required_if=Provider gemini"`
	Project  string        `mapstructure:"project" json:"project,omitempty" validate:"required_if=Provider vertex"`
	Region   string        `mapstructure:"region" json:"region,omitempty"`
	Timeout  time.Duration `mapstructure:"timeout" json:"timeout" validate:"gte=0"`
}

// Enabled reports whether an AI provider is configured.
func (c AIConfig) Enabled() bool {
	return c.Provider != "" && c.Provider != "none"
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `mapstructure:"port" json:"port" validate:"min=1,max=65535"`
	RateLimit      float64  `mapstructure:"rate-limit" json:"rate_limit" validate:"gte=0"`
	Burst          int      `mapstructure:"burst" json:"burst" validate:"gte=1"`
	MaxUploadBytes int64    `mapstructure:"max-upload-bytes" json:"max_upload_bytes" validate:"gte=1"`
	AllowedOrigins []string `mapstructure:"allowed-origins" json:"allowed_origins,omitempty"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json" json:"json"`
	Debug bool `mapstructure:"debug" json:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Industry: "technology",
		AI: AIConfig{
			Provider: "none",
			Region:   "us-central1",
			Timeout:  30 * time.Second,
		},
		Server: ServerConfig{
			Port:           8080,
			RateLimit:      2,
			Burst:          10,
			MaxUploadBytes: 10 << 20,
			AllowedOrigins: []string{"*"},
		},
	}
}

// Error is returned when the configuration cannot be read or is invalid.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Message: fmt.Sprintf("failed to read config file %s", path), Cause: err}
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, &Error{Message: "failed to decode config", Cause: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("dictionary", d.Dictionary)
	v.SetDefault("industry", d.Industry)
	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.api-key", d.AI.APIKey)
	v.SetDefault("ai.project", d.AI.Project)
	v.SetDefault("ai.region", d.AI.Region)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate-limit", d.Server.RateLimit)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("server.max-upload-bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.allowed-origins", d.Server.AllowedOrigins)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.debug", d.Log.Debug)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Conventional names used by the Google SDKs.
	_ = v.BindEnv("ai.api-key", EnvPrefix+"_AI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("ai.project", EnvPrefix+"_AI_PROJECT", "GOOGLE_CLOUD_PROJECT")

	return v
}

var validate = validator.New()

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Message: "validation failed", Cause: err}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), redact(fe)))
	}
	return &Error{Message: strings.Join(msgs, "; "), Cause: err}
}

func redact(fe validator.FieldError) any {
	if fe.Field() == "APIKey" {
		return "<redacted>"
	}
	return fe.Value()
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Dictionary == "" {
		result.Dictionary = defaults.Dictionary
	}
	if result.Industry == "" {
		result.Industry = defaults.Industry
	}
	if result.AI.Provider == "" {
		result.AI.Provider = defaults.AI.Provider
	}
	if result.AI.APIKey == "" {
		result.AI.APIKey = defaults.AI.APIKey
	}
	if result.AI.Project == "" {
		result.AI.Project = defaults.AI.Project
	}
	if result.AI.Region == "" {
		result.AI.Region = defaults.AI.Region
	}

	// Numeric fields: use default if zero
	if result.AI.Timeout == 0 {
		result.AI.Timeout = defaults.AI.Timeout
	}
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.RateLimit == 0 {
		result.Server.RateLimit = defaults.Server.RateLimit
	}
	if result.Server.Burst == 0 {
		result.Server.Burst = defaults.Server.Burst
	}
	if result.Server.MaxUploadBytes == 0 {
		result.Server.MaxUploadBytes = defaults.Server.MaxUploadBytes
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

package myconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/MarcGrol/travelshop/lib/myretry"
)

type Config struct {
	Port                 int           `mapstructure:"port" validate:"min=1,max=65535"`
	BackendBaseURL       string        `mapstructure:"backend_base_url" validate:"omitempty,url"`
	BackendTimeout       time.Duration `mapstructure:"backend_timeout" validate:"gt=0"`
	EnhancedEnabled      bool          `mapstructure:"payment_enhanced_enabled"`
	UnifiedLookupEnabled bool          `mapstructure:"payment_unified_lookup_enabled"`
	RetryMax             int           `mapstructure:"payment_retry_max" validate:"min=1,max=10"`
	RetryDelay           time.Duration `mapstructure:"payment_retry_delay" validate:"gte=0"`
	RetryBackoff         bool          `mapstructure:"payment_retry_backoff"`
	RetryTimeout         time.Duration `mapstructure:"payment_retry_timeout" validate:"gt=0"`
	GoogleCloudProject   string        `mapstructure:"google_cloud_project"`
}

// UsesFakeBackend is true for local runs without a backend.
func (c Config) UsesFakeBackend() bool {
	return c.BackendBaseURL == ""
}

func (c Config) RetryOptions() myretry.Options {
	return myretry.Options{
		MaxRetries: c.RetryMax,
		Delay:      c.RetryDelay,
		Backoff:    c.RetryBackoff,
		Timeout:    c.RetryTimeout,
	}
}

func (c Config) ListenAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}

var defaults = map[string]any{
	"port":                           8080,
	"backend_base_url":               "",
	"backend_timeout":                "15s",
	"payment_enhanced_enabled":       true,
	"payment_unified_lookup_enabled": true,
	"payment_retry_max":              myretry.DefaultMaxRetries,
	"payment_retry_delay":            myretry.DefaultDelay.String(),
	"payment_retry_backoff":          true,
	"payment_retry_timeout":          myretry.DefaultTimeout.String(),
	"google_cloud_project":           "",
}

// Load reads the configuration from environment variables only.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile reads an optional yaml file; environment variables take precedence over it.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		err := v.ReadInConfig()
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	cfg := Config{}
	err := v.Unmarshal(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error decoding configuration: %w", err)
	}
	cfg.BackendBaseURL = strings.TrimSuffix(cfg.BackendBaseURL, "/")

	err = validator.New().Struct(cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/provider"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/vin"
)

// Keys understood by Load. Each also reads from the upper-cased environment
// variable, dots replaced by underscores (vin.commercial.api_key -> VIN_COMMERCIAL_API_KEY).
const (
	KeyServerAddress     = "server.address"
	KeyLogLevel          = "log.level"
	KeyLogDevelopment    = "log.development"
	KeyProviderMode      = "provider.mode"
	KeyVINCommercialKey  = "vin.commercial.api_key"
	KeyVINCommercialURL  = "vin.commercial.base_url"
	KeyVINFallbackURL    = "vin.fallback.base_url"
	KeyVINRequestTimeout = "vin.request_timeout"
	KeyVINRetryAttempts  = "vin.retry_attempts"
	KeyVINCacheSize      = "vin.cache_size"
)

// Config is read once at process start.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Provider ProviderConfig `mapstructure:"provider"`
	VIN      VINConfig      `mapstructure:"vin"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type ProviderConfig struct {
	Mode string `mapstructure:"mode"`
	// Keys holds live-provider credentials by source, from <SOURCE>_API_KEY.
	Keys map[dal.SourceID]string `mapstructure:"-"`
}

type VINConfig struct {
	Commercial     CommercialConfig `mapstructure:"commercial"`
	Fallback       FallbackConfig   `mapstructure:"fallback"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	RetryAttempts  int              `mapstructure:"retry_attempts"`
	CacheSize      int              `mapstructure:"cache_size"`
}

type CommercialConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type FallbackConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerAddress, ":8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyProviderMode, provider.ModeDemo)
	v.SetDefault(KeyVINCommercialKey, "")
	v.SetDefault(KeyVINCommercialURL, "")
	v.SetDefault(KeyVINFallbackURL, vin.DefaultVPICBaseURL)
	v.SetDefault(KeyVINRequestTimeout, vin.DefaultTimeout)
	v.SetDefault(KeyVINRetryAttempts, vin.DefaultMaxAttempts)
	v.SetDefault(KeyVINCacheSize, 1024)
}

// Load reads configuration into a Config. A .env file in the working
// directory is loaded first if present; configFile, when non-empty, is a
// yaml file layered under the environment. A missing commercial key is not
// an error, it only removes that decoder from the chain.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env failed: %w", err)
	}

	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	cfg.Provider.Keys = make(map[dal.SourceID]string)
	for _, source := range dal.Sources {
		key := strings.ToLower(string(source)) + "_api_key"
		_ = v.BindEnv(key)
		if val := strings.TrimSpace(v.GetString(key)); val != "" {
			cfg.Provider.Keys[source] = val
		}
	}

	cfg.VIN.Commercial.APIKey = strings.TrimSpace(cfg.VIN.Commercial.APIKey)
	cfg.VIN.Commercial.BaseURL = strings.TrimSpace(cfg.VIN.Commercial.BaseURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	switch c.Provider.Mode {
	case provider.ModeDemo, provider.ModeLive:
	default:
		return fmt.Errorf("provider.mode must be %q or %q, got %q", provider.ModeDemo, provider.ModeLive, c.Provider.Mode)
	}
	if c.VIN.Commercial.APIKey != "" && c.VIN.Commercial.BaseURL == "" {
		return fmt.Errorf("vin.commercial.base_url is required when an api key is set")
	}
	if c.VIN.RetryAttempts < 1 {
		return fmt.Errorf("vin.retry_attempts must be at least 1")
	}
	if c.VIN.RequestTimeout <= 0 {
		return fmt.Errorf("vin.request_timeout must be positive")
	}
	return nil
}

// CommercialEnabled reports whether the commercial decoder joins the chain.
func (c *Config) CommercialEnabled() bool {
	return c.VIN.Commercial.APIKey != "" && c.VIN.Commercial.BaseURL != ""
}

// Package config loads the runtime configuration from a YAML file,
// TASKBOARD_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix       = "TASKBOARD"
	DefaultFileName = "taskboard.yaml"
)

var ErrExists = errors.New("config file already exists")

type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Weather WeatherConfig `yaml:"weather" mapstructure:"weather"`

	// Locale drives title collation in sorted views.
	Locale string `yaml:"locale" mapstructure:"locale"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type WeatherConfig struct {
	ForecastURL string `yaml:"forecast_url" mapstructure:"forecast_url"`
	GeocodeURL  string `yaml:"geocode_url" mapstructure:"geocode_url"`

	// Timeout of zero disables the upstream client timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{DataDir: "data"},
		Log:     LogConfig{Level: "info", Format: "json"},
		Locale:  "en",
		Weather: WeatherConfig{
			ForecastURL: "https://api.open-meteo.com/v1/forecast",
			GeocodeURL:  "https://api.bigdatacloud.net/data/reverse-geocode-client",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("weather.forecast_url", d.Weather.ForecastURL)
	v.SetDefault("weather.geocode_url", d.Weather.GeocodeURL)
	v.SetDefault("weather.timeout", d.Weather.Timeout)
}

// Load reads path, or taskboard.yaml in the working directory when path is
// empty. A missing default file yields the defaults; a missing explicit file
// is an error. Environment variables such as TASKBOARD_SERVER_ADDR override
// file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, filepath.Ext(DefaultFileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills blank values that an explicit empty string in the
// file would otherwise leave unset.
func (c *Config) ApplyDefaults() {
	d := Default()
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		c.Storage.DataDir = d.Storage.DataDir
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = d.Log.Level
	}
	if strings.TrimSpace(c.Log.Format) == "" {
		c.Log.Format = d.Log.Format
	}
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = d.Locale
	}
	if strings.TrimSpace(c.Weather.ForecastURL) == "" {
		c.Weather.ForecastURL = d.Weather.ForecastURL
	}
	if strings.TrimSpace(c.Weather.GeocodeURL) == "" {
		c.Weather.GeocodeURL = d.Weather.GeocodeURL
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if c.Weather.Timeout < 0 {
		return fmt.Errorf("weather.timeout must not be negative")
	}
	return nil
}

// Dump writes c as YAML.
func (c Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// WriteDefault writes the default configuration to path. An existing file
// is kept unless force is set.
func WriteDefault(path string, force bool) error {
	if strings.TrimSpace(path) == "" {
		path = DefaultFileName
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	cfg := Default()
	if err := cfg.Dump(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

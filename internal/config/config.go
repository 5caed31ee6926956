package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the navstack binaries.
type Config struct {
	LogLevel   string        `mapstructure:"log_level"`
	Animate    bool          `mapstructure:"animate"`
	MaxEffects int           `mapstructure:"max_effects"`
	HTTP       HTTPConfig    `mapstructure:"http"`
	Counter    CounterConfig `mapstructure:"counter"`
	Render     RenderConfig  `mapstructure:"render"`
	Redis      RedisConfig   `mapstructure:"redis"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// CounterConfig tunes the bundled counter screens.
type CounterConfig struct {
	// Delay before an increment_later action fires.
	Delay time.Duration `mapstructure:"delay"`
}

type RenderConfig struct {
	// Style is a glamour standard style ("dark", "light", "notty").
	// Empty detects the terminal background.
	Style string `mapstructure:"style"`
}

// RedisConfig enables the event feed. An empty URL disables it.
type RedisConfig struct {
	URL     string `mapstructure:"url"`
	Channel string `mapstructure:"channel"`
}

// Environment variables overriding file values.
const (
	EnvLogLevel = "NAVSTACK_LOG_LEVEL"
	EnvHTTPAddr = "NAVSTACK_HTTP_ADDR"
	EnvRedisURL = "NAVSTACK_REDIS_URL"
)

// Defaults returns the values used for keys absent from the file.
func Defaults() map[string]any {
	return map[string]any{
		"log_level":   "info",
		"animate":     true,
		"max_effects": 64,
		"http": map[string]any{
			"addr": ":8080",
		},
		"counter": map[string]any{
			"delay": "1s",
		},
		"render": map[string]any{
			"style": "",
		},
		"redis": map[string]any{
			"url":     "",
			"channel": "navstack:events",
		},
	}
}

// Load reads the YAML file at path over the defaults.
// An empty path loads the defaults only.
func Load(path string) (*Config, error) {
	raw := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		merge(raw, file)
	}

	applyEnv(raw, os.LookupEnv)
	return Decode(raw)
}

// Decode converts a generic map into a validated Config.
// Unknown keys are rejected.
func Decode(raw map[string]any) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.MaxEffects < 0 {
		errs = append(errs, fmt.Errorf("max_effects must not be negative, got %d", c.MaxEffects))
	}
	if c.Counter.Delay < 0 {
		errs = append(errs, fmt.Errorf("counter.delay must not be negative, got %s", c.Counter.Delay))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.Redis.URL != "" && c.Redis.Channel == "" {
		errs = append(errs, errors.New("redis.channel is required when redis.url is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

func applyEnv(raw map[string]any, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok {
		raw["log_level"] = v
	}
	if v, ok := lookup(EnvHTTPAddr); ok {
		if http, ok := raw["http"].(map[string]any); ok {
			http["addr"] = v
		}
	}
	if v, ok := lookup(EnvRedisURL); ok {
		if redis, ok := raw["redis"].(map[string]any); ok {
			redis["url"] = v
		}
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the reviewflow configuration.
type Config struct {
	Host         string            `yaml:"host"`
	Port         int               `yaml:"port"`
	Providers    []string          `yaml:"providers"`
	Models       map[string]string `yaml:"models,omitempty"`
	SystemPrompt string            `yaml:"systemPrompt,omitempty"`
	RateLimit    RateLimitConfig   `yaml:"rateLimit"`
	LogLevel     string            `yaml:"logLevel"`
}

// RateLimitConfig controls the inbound request limiter.
type RateLimitConfig struct {
	Requests      int `yaml:"requests"`
	WindowSeconds int `yaml:"windowSeconds"`
}

// DefaultPath is where Load looks when no config path is given.
const DefaultPath = "reviewflow.yaml"

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Host:      "127.0.0.1",
		Port:      8080,
		Providers: []string{"anthropic"},
		RateLimit: RateLimitConfig{
			Requests:      10,
			WindowSeconds: 60,
		},
		LogLevel: "info",
	}
}

// Load builds the effective config by merging: defaults <- file <- env.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	fileCfg, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Host != "" {
		dst.Host = src.Host
	}
	if src.Port > 0 {
		dst.Port = src.Port
	}
	if len(src.Providers) > 0 {
		dst.Providers = src.Providers
	}
	if len(src.Models) > 0 {
		dst.Models = src.Models
	}
	if src.SystemPrompt != "" {
		dst.SystemPrompt = src.SystemPrompt
	}
	if src.RateLimit.Requests > 0 {
		dst.RateLimit.Requests = src.RateLimit.Requests
	}
	if src.RateLimit.WindowSeconds > 0 {
		dst.RateLimit.WindowSeconds = src.RateLimit.WindowSeconds
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("REVIEWFLOW_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("REVIEWFLOW_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}
	if v := os.Getenv("REVIEWFLOW_PROVIDERS"); v != "" {
		cfg.Providers = splitList(v)
	}
	if v := os.Getenv("REVIEWFLOW_SYSTEM_PROMPT"); v != "" {
		cfg.SystemPrompt = v
	}
	if v := os.Getenv("REVIEWFLOW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("REVIEWFLOW_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimit.Requests = n
		}
	}
}

func (c *Config) validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

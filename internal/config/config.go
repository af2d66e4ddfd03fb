package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file locations tried in order.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ingechat", "config.yaml"))
	}

	paths = append(paths, "/etc/ingechat/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all IngeChat configuration.
type Config struct {
	Env       string          `yaml:"env"`
	Server    ServerConfig    `yaml:"server"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Data      DataConfig      `yaml:"data"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logger    LoggerConfig    `yaml:"logger"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type GeminiConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
	// Persona replaces the default persona sentence; the domain restriction stays
	Persona string `yaml:"persona"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyQuota int64   `yaml:"daily_quota"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port: "8080",
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.0-flash",
			Timeout: 30 * time.Second,
		},
		Data: DataConfig{
			Dir: "data",
		},
		RateLimit: RateLimitConfig{
			PerSecond:  1,
			Burst:      3,
			DailyQuota: 1000,
		},
		Logger: LoggerConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in that order of precedence. An explicit path must exist;
// without one the default search paths are tried and may all be absent.
func Load(path string) (*Config, error) {
	// .env files are optional and never override the real environment
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg := Default()

	file, err := FindConfig(path)
	switch {
	case err == nil:
		if err := loadFile(file, cfg); err != nil {
			return nil, err
		}
	case path != "":
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}

	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Gemini.Persona = getEnv("INGECHAT_PERSONA", cfg.Gemini.Persona)
	if v := getEnv("GEMINI_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GEMINI_TIMEOUT %q: %w", v, err)
		}
		cfg.Gemini.Timeout = d
	}

	cfg.Data.Dir = getEnv("INGECHAT_DATA_DIR", cfg.Data.Dir)
	cfg.Logger.Level = getEnv("LOG_LEVEL", cfg.Logger.Level)

	if v := getEnv("RATE_LIMIT_PER_SECOND", ""); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_PER_SECOND %q: %w", v, err)
		}
		cfg.RateLimit.PerSecond = f
	}
	if v := getEnv("RATE_LIMIT_BURST", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST %q: %w", v, err)
		}
		cfg.RateLimit.Burst = n
	}
	if v := getEnv("DAILY_QUOTA", ""); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid DAILY_QUOTA %q: %w", v, err)
		}
		cfg.RateLimit.DailyQuota = n
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

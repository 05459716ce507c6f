package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxPredictTokens caps PredictMaxTokens.
const MaxPredictTokens = 4096

type Config struct {
	Port        string        `yaml:"port"`
	DataPath    string        `yaml:"data_path"`
	DatabaseURL string        `yaml:"database_url"`
	DataTable   string        `yaml:"data_table"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	CORSOrigins []string      `yaml:"cors_origins"`
	LogLevel    slog.Level    `yaml:"log_level"`

	PredictorURL     string `yaml:"predictor_url"`
	GeminiAPIKey     string `yaml:"gemini_api_key"`
	GeminiModel      string `yaml:"gemini_model"`
	PredictMaxTokens int    `yaml:"predict_max_tokens"`
}

func Default() Config {
	return Config{
		Port:             "8000",
		DataPath:         "data/cleaned_campaign_data.csv",
		DataTable:        "campaigns",
		HTTPTimeout:      15 * time.Second,
		CORSOrigins:      []string{"*"},
		LogLevel:         slog.LevelInfo,
		PredictMaxTokens: 128,
	}
}

// Load reads CONFIG_FILE (if set) over the defaults, then applies the
// environment on top.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// FromEnv is Load without a config file.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			c.LogLevel = lvl
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("PREDICT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PredictMaxTokens = n
		}
	}
	c.Port = envOr("PORT", c.Port)
	c.DataPath = envOr("DATA_PATH", c.DataPath)
	c.DatabaseURL = envOr("DATABASE_URL", c.DatabaseURL)
	c.DataTable = envOr("DATA_TABLE", c.DataTable)
	c.PredictorURL = envOr("PREDICTOR_URL", c.PredictorURL)
	c.GeminiAPIKey = envOr("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = envOr("GEMINI_MODEL", c.GeminiModel)
	if c.PredictMaxTokens > MaxPredictTokens {
		c.PredictMaxTokens = MaxPredictTokens
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

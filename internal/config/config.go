// Package config loads runtime settings from an optional YAML file, then lets
// environment variables override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all hmmspell settings.
type Config struct {
	CorpusPath string        `yaml:"corpus_path"`
	HTTPAddr   string        `yaml:"http_addr"`
	Redis      RedisConfig   `yaml:"redis"`
	Decode     DecodeConfig  `yaml:"decode"`
	Logging    LoggingConfig `yaml:"logging"`
}

// RedisConfig configures the custom record store. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type DecodeConfig struct {
	Workers       int  `yaml:"workers"`
	PreserveCase  bool `yaml:"preserve_case"`
	MinWordLength int  `yaml:"min_word_length"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CorpusPath: "aspell.txt",
		HTTPAddr:   ":8080",
		Redis:      RedisConfig{Key: "custom_records"},
		Decode:     DecodeConfig{MinWordLength: 1},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// Load reads path (if non-empty) over the defaults and applies env overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.CorpusPath = getenv("CORPUS_PATH", c.CorpusPath)
	c.HTTPAddr = getenv("HTTP_ADDR", c.HTTPAddr)
	c.Redis.Addr = getenv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getenv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.Key = getenv("REDIS_KEY", c.Redis.Key)
	c.Decode.Workers = getEnvInt("DECODE_WORKERS", c.Decode.Workers)
	c.Logging.Level = getenv("LOG_LEVEL", c.Logging.Level)
}

// Validate checks settings that would otherwise fail later and less clearly.
func (c Config) Validate() error {
	var errs []error
	if c.CorpusPath == "" {
		errs = append(errs, errors.New("corpus_path is required"))
	}
	if c.Decode.Workers < 0 {
		errs = append(errs, fmt.Errorf("decode.workers must be >= 0, got %d", c.Decode.Workers))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

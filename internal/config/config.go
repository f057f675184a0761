// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the configuration of the secsess programs.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"code.hybscloud.com/secsess"
	"code.hybscloud.com/secsess/seal"
)

// Defaults applied to unset fields.
const (
	DefaultListen     = ":8888"
	DefaultBufferSize = 1024
	DefaultLogLevel   = "info"
)

// Config is the top-level configuration.
type Config struct {
	Listen       string        `yaml:"listen"`
	ServerKey    string        `yaml:"server_key"`
	ServerPubkey string        `yaml:"server_pubkey"`
	Retry        BudgetConfig  `yaml:"budget"`
	BufferSize   int           `yaml:"buffer_size"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"` // 0 = a session may stay idle forever
	MetricsAddr  string        `yaml:"metrics_addr"`
	Logging      LoggingConfig `yaml:"logging"`
}

// BudgetConfig bounds every retried session operation.
type BudgetConfig struct {
	Wait     time.Duration `yaml:"wait"`     // per-attempt readiness wait
	Attempts int           `yaml:"attempts"` // attempts per operation
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a YAML file. Variables from a .env file in
// the working directory, if any, are added to the environment first, and
// ${VAR} references in the file are expanded.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration after expanding environment variables.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.UnmarshalStrict([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Retry.Wait == 0 {
		c.Retry.Wait = secsess.DefaultWait
	}
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = secsess.DefaultAttempts
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

func (c *Config) validate() error {
	if c.Retry.Wait < 0 {
		return fmt.Errorf("invalid budget.wait %v", c.Retry.Wait)
	}
	if c.Retry.Attempts < 0 {
		return fmt.Errorf("invalid budget.attempts %d", c.Retry.Attempts)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("invalid idle_timeout %v", c.IdleTimeout)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("invalid buffer_size %d", c.BufferSize)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Budget returns the retry budget for sessions.
func (c *Config) Budget() secsess.Budget {
	return secsess.Budget{Wait: c.Retry.Wait, Attempts: c.Retry.Attempts}
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Logging.Level))); err != nil {
		return 0, fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	return level, nil
}

// ServerSeal returns the sealed transport configuration of a server.
// A server_pubkey, if present, must match server_key.
func (c *Config) ServerSeal() (seal.Config, error) {
	if c.ServerKey == "" {
		return seal.Config{}, fmt.Errorf("server_key is not set")
	}
	priv, err := seal.PrivkeyFromString(c.ServerKey)
	if err != nil {
		return seal.Config{}, err
	}
	pub, err := priv.Public()
	if err != nil {
		return seal.Config{}, err
	}
	if c.ServerPubkey != "" {
		want, err := seal.PubkeyFromString(c.ServerPubkey)
		if err != nil {
			return seal.Config{}, err
		}
		if want != pub {
			return seal.Config{}, fmt.Errorf("server_pubkey does not match server_key")
		}
	}
	return seal.Config{ServerKey: priv, ServerPubkey: pub}, nil
}

// ClientSeal returns the sealed transport configuration of a client,
// which pins server_pubkey.
func (c *Config) ClientSeal() (seal.Config, error) {
	if c.ServerPubkey == "" {
		return seal.Config{}, fmt.Errorf("server_pubkey is not set")
	}
	pub, err := seal.PubkeyFromString(c.ServerPubkey)
	if err != nil {
		return seal.Config{}, err
	}
	return seal.Config{ServerPubkey: pub}, nil
}

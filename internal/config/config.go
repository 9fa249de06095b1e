// Package config loads the application settings shared by the commands.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/layout"
)

// Config holds the application settings
// Values come from a YAML file, then the environment, then the env-default tags.
type Config struct {
	Env         string        `yaml:"env" env:"ENV" env-default:"local" env-description:"logging environment: local, dev or prod"`
	Workers     int           `yaml:"workers" env:"WORKERS" env-default:"4" env-description:"pages processed concurrently"`
	PageTimeout time.Duration `yaml:"page_timeout" env:"PAGE_TIMEOUT" env-default:"30s" env-description:"per-page deadline, 0 disables it"`

	Server     Server        `yaml:"server"`
	Redis      Redis         `yaml:"redis"`
	DocumentAI gdocai.Config `yaml:"document_ai"`
	Layout     layout.Config `yaml:"layout"`
}

// Server configures the HTTP service
type Server struct {
	Addr              string        `yaml:"addr" env:"SERVER_ADDR" env-default:":8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"SERVER_READ_HEADER_TIMEOUT" env-default:"5s"`
	WriteTimeout      time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" env:"SERVER_MAX_BODY_BYTES" env-default:"33554432"`
}

// Redis configures the result cache; an empty address disables it
type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"24h"`
}

// Path returns the config file path: the flag value, else CONFIG_PATH
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("CONFIG_PATH")
}

// Load reads the settings from path, or from the environment alone when path is empty
// Layout thresholds missing from the file keep their DefaultConfig values.
func Load(path string) (*Config, error) {
	cfg := &Config{Layout: layout.DefaultConfig()}

	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file does not exist: %w", err)
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that can not be defaulted
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.PageTimeout < 0 {
		return fmt.Errorf("page_timeout must not be negative")
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if c.DocumentAIEnabled() {
		if err := c.DocumentAI.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DocumentAIEnabled reports whether a Document AI processor is configured
func (c *Config) DocumentAIEnabled() bool {
	return c.DocumentAI.ProjectID != "" || c.DocumentAI.ProcessorID != ""
}

// Dump writes the effective settings as YAML
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// Usage writes the environment variables understood by Load
func Usage(w io.Writer) {
	header := "Environment variables:"
	cleanenv.FUsage(w, &Config{}, &header)()
}

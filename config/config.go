// Package config loads the server configuration from the environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"go.appointy.com/entityinput/logging"
	"go.appointy.com/entityinput/remap"
)

const DefaultConfigPath = "config.yaml"

type Config struct {
	ListenAddr        string        `yaml:"listen_addr" envDefault:"localhost:8080" env:"LISTEN_ADDR"`
	GraphQLPath       string        `yaml:"graphql_path" envDefault:"/graphql" env:"GRAPHQL_PATH"`
	PlaygroundEnabled bool          `yaml:"playground" envDefault:"true" env:"PLAYGROUND_ENABLED"`
	PlaygroundPath    string        `yaml:"playground_path" envDefault:"/" env:"PLAYGROUND_PATH"`
	SchemaPath        string        `yaml:"schema_path" envDefault:"schema.graphql" env:"SCHEMA_PATH"`
	StorageURL        string        `yaml:"storage_url" envDefault:"mem://entities/id" env:"STORAGE_URL"`
	UnknownKeys       string        `yaml:"unknown_keys" envDefault:"reject" env:"UNKNOWN_KEYS"`
	LogLevel          string        `yaml:"log_level" envDefault:"info" env:"LOG_LEVEL"`
	JSONLog           bool          `yaml:"json_log" envDefault:"true" env:"JSON_LOG"`
	ShutdownDelay     time.Duration `yaml:"shutdown_delay" envDefault:"10s" env:"SHUTDOWN_DELAY"`
	DevelopmentMode   bool          `yaml:"dev_mode" envDefault:"false" env:"DEV_MODE"`
}

// Policy returns the unknown key policy named by UnknownKeys.
func (c *Config) Policy() remap.Policy {
	if c.UnknownKeys == remap.DropUnknown.String() {
		return remap.DropUnknown
	}
	return remap.RejectUnknown
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.UnknownKeys {
	case remap.RejectUnknown.String(), remap.DropUnknown.String():
	default:
		result = multierror.Append(result, fmt.Errorf("unknown_keys must be %q or %q, got %q",
			remap.RejectUnknown, remap.DropUnknown, c.UnknownKeys))
	}
	if _, err := logging.LevelFromString(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	if !strings.HasPrefix(c.GraphQLPath, "/") {
		result = multierror.Append(result, fmt.Errorf("graphql_path must start with /, got %q", c.GraphQLPath))
	}
	if c.PlaygroundEnabled && c.PlaygroundPath == c.GraphQLPath {
		result = multierror.Append(result, errors.New("playground_path and graphql_path must differ"))
	}
	if c.SchemaPath == "" {
		result = multierror.Append(result, errors.New("schema_path is required"))
	}
	if c.StorageURL == "" {
		result = multierror.Append(result, errors.New("storage_url is required"))
	}

	return result.ErrorOrNil()
}

type LoadResult struct {
	Config Config
	// DefaultLoaded is false when no path was given and DefaultConfigPath
	// does not exist.
	DefaultLoaded bool
}

// LoadConfig reads .env files, then the environment, then the YAML file at
// configFilePath (or CONFIG_PATH, or DefaultConfigPath). Values in the file
// win over the environment; ${VAR} references in it are expanded.
func LoadConfig(configFilePath string, envOverride string) (*LoadResult, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	if envOverride != "" {
		_ = godotenv.Overload(envOverride)
	}

	cfg := &LoadResult{
		Config:        Config{},
		DefaultLoaded: true,
	}

	if err := env.Parse(&cfg.Config); err != nil {
		return nil, err
	}

	if configFilePath == "" {
		configFilePath = os.Getenv("CONFIG_PATH")
		if configFilePath == "" {
			configFilePath = DefaultConfigPath
		}
	}

	isDefaultConfigPath := configFilePath == DefaultConfigPath
	configFileBytes, err := os.ReadFile(configFilePath)
	if err != nil {
		if !isDefaultConfigPath {
			return nil, fmt.Errorf("could not read custom config file %s: %w", configFilePath, err)
		}
		cfg.DefaultLoaded = false
	}

	if configFileBytes != nil {
		configYamlData := os.ExpandEnv(string(configFileBytes))
		if err := yaml.UnmarshalWithOptions([]byte(configYamlData), &cfg.Config, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if cfg.Config.DevelopmentMode {
		cfg.Config.JSONLog = false
		cfg.Config.LogLevel = "debug"
	}

	if err := cfg.Config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}

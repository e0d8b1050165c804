package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Prefix for every environment variable, e.g. STATSBOARD_PORT.
const Prefix = "STATSBOARD"

// Config holds the configuration values for the application.
type Config struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	DatasetPath     string        `yaml:"dataset_path" envconfig:"DATASET_PATH" default:"dataset.csv" validate:"required"`
	RulesPath       string        `yaml:"rules_path" envconfig:"RULES_PATH" default:"rules.txt"`
	LogLevel        string        `yaml:"log_level" envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogDevelopment  bool          `yaml:"log_development" envconfig:"LOG_DEVELOPMENT" default:"false"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"20" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
	ConfigFile      string        `yaml:"-" envconfig:"CONFIG_FILE"`
}

// Load reads the environment, overlays the optional YAML file named by
// STATSBOARD_CONFIG_FILE (environment wins), and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if cfg.ConfigFile != "" {
		fileCfg, err := loadFromFile(cfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge takes file values for every field the environment left unset.
func merge(file, env Config) Config {
	set := func(name string) bool {
		_, ok := os.LookupEnv(Prefix + "_" + name)
		return ok
	}
	if !set("PORT") && file.Port != 0 {
		env.Port = file.Port
	}
	if !set("DATASET_PATH") && file.DatasetPath != "" {
		env.DatasetPath = file.DatasetPath
	}
	if !set("RULES_PATH") && file.RulesPath != "" {
		env.RulesPath = file.RulesPath
	}
	if !set("LOG_LEVEL") && file.LogLevel != "" {
		env.LogLevel = file.LogLevel
	}
	if !set("LOG_DEVELOPMENT") && file.LogDevelopment {
		env.LogDevelopment = true
	}
	if !set("RATE_LIMIT_RPS") && file.RateLimitRPS != 0 {
		env.RateLimitRPS = file.RateLimitRPS
	}
	if !set("SHUTDOWN_TIMEOUT") && file.ShutdownTimeout != 0 {
		env.ShutdownTimeout = file.ShutdownTimeout
	}
	return env
}

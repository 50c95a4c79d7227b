// Package config resolves where the board talks to and how it presents itself.
//
// Layers, later wins: built-in defaults, the YAML file, a .env file in the
// working directory, TASKBOARD_* environment variables. Flags are applied by
// the caller on top of the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/taskboard/internal/model"
)

const (
	// AppName is the configuration directory name.
	AppName = "taskboard"

	EnvProduction  = "production"
	EnvDevelopment = "development"

	DefaultProductionURL  = "https://adil-todo-app.onrender.com/"
	DefaultDevelopmentURL = "http://localhost:4000/"
	DefaultLogFile        = "taskboard.log"
)

type Config struct {
	// Env picks between ProductionURL and DevelopmentURL.
	Env            string        `yaml:"env"`
	BaseURL        string        `yaml:"base_url"`
	ProductionURL  string        `yaml:"production_url"`
	DevelopmentURL string        `yaml:"development_url"`
	Sort           string        `yaml:"sort"`
	Theme          string        `yaml:"theme"`
	LogFile        string        `yaml:"log_file"`
	Timeout        time.Duration `yaml:"timeout"`
}

func Default() *Config {
	return &Config{
		Env:            EnvDevelopment,
		ProductionURL:  DefaultProductionURL,
		DevelopmentURL: DefaultDevelopmentURL,
		Sort:           model.OldestFirst.String(),
		Theme:          "classic",
		LogFile:        DefaultLogFile,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/taskboard/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(AppName, "config.yaml")
	}
	return filepath.Join(home, ".config", AppName, "config.yaml")
}

// Load builds a Config. An empty path means DefaultPath; a missing file at
// the default path is not an error, a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := loadFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set("TASKBOARD_ENV", &cfg.Env)
	set("TASKBOARD_BASE_URL", &cfg.BaseURL)
	set("TASKBOARD_PRODUCTION_URL", &cfg.ProductionURL)
	set("TASKBOARD_DEVELOPMENT_URL", &cfg.DevelopmentURL)
	set("TASKBOARD_SORT", &cfg.Sort)
	set("TASKBOARD_THEME", &cfg.Theme)
	set("TASKBOARD_LOG_FILE", &cfg.LogFile)

	if v := strings.TrimSpace(os.Getenv("TASKBOARD_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TASKBOARD_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

// Validate checks the fields that have a closed set of values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Env) {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("env: want %q or %q, got %q", EnvProduction, EnvDevelopment, c.Env)
	}
	if _, ok := model.ParseSortMode(c.Sort); !ok {
		return fmt.Errorf("sort: unknown mode %q", c.Sort)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout: must not be negative")
	}
	return nil
}

// ResolveBaseURL returns BaseURL when set, otherwise the URL for Env.
func (c *Config) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if strings.EqualFold(c.Env, EnvProduction) {
		return c.ProductionURL
	}
	return c.DevelopmentURL
}

// SortMode returns the configured mode, oldest first when unparsable.
func (c *Config) SortMode() model.SortMode {
	m, _ := model.ParseSortMode(c.Sort)
	return m
}

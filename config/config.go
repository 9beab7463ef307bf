// config/config.go
//
// Server configuration. Values come from, in increasing priority:
// built-in defaults, the YAML file, ROSTER_* environment variables and the
// command-line flags handled in cmd/server.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvPort = "ROSTER_PORT"
	EnvDB   = "ROSTER_DB"

	defaultPort        = 8080
	defaultDBPath      = "roster.db"
	defaultEnvironment = "pronto-soccorso"
)

// DefaultYAML documents every key with its default value.
const DefaultYAML = `# roster engine configuration
server:
  port: 8080
  allowed_origins:
    - "http://localhost:3000"
    - "http://localhost:5173"

database:
  # Use ":memory:" for a throwaway database.
  path: roster.db

generation:
  default_environment: pronto-soccorso
  # Physicians on leave are not assigned. Requests can also force this with prioritizeLeave.
  leave_suppresses_availability: true
  # Optional YAML/JSON file with shift codes and coverage requirements.
  catalog_file: ""

scheduler:
  enabled: false
  interval: 6h
  lookahead_months: 1
`

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// GenerationConfig holds roster generation defaults.
type GenerationConfig struct {
	DefaultEnvironment          string `yaml:"default_environment"`
	LeaveSuppressesAvailability *bool  `yaml:"leave_suppresses_availability"`
	CatalogFile                 string `yaml:"catalog_file"`
}

// SuppressLeave reports the effective leave setting (true when unset).
func (g GenerationConfig) SuppressLeave() bool {
	return g.LeaveSuppressesAvailability == nil || *g.LeaveSuppressesAvailability
}

// SchedulerConfig controls the draft-roster scheduler.
type SchedulerConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Interval        time.Duration `yaml:"interval"`
	LookaheadMonths int           `yaml:"lookahead_months"`
}

// Config models the YAML file.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Generation GenerationConfig `yaml:"generation"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path (a missing file yields defaults), then applies env
// overrides and validates. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.AllowedOrigins == nil {
		c.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDBPath
	}
	if c.Generation.DefaultEnvironment == "" {
		c.Generation.DefaultEnvironment = defaultEnvironment
	}
	if c.Scheduler.Interval == 0 {
		c.Scheduler.Interval = 6 * time.Hour
	}
	if c.Scheduler.LookaheadMonths == 0 {
		c.Scheduler.LookaheadMonths = 1
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", EnvPort, v)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvDB); ok && strings.TrimSpace(v) != "" {
		c.Database.Path = strings.TrimSpace(v)
	}
	return nil
}

func (c *Config) normalize() {
	c.Database.Path = strings.TrimSpace(c.Database.Path)
	c.Generation.DefaultEnvironment = strings.TrimSpace(c.Generation.DefaultEnvironment)
	c.Generation.CatalogFile = strings.TrimSpace(c.Generation.CatalogFile)
	origins := c.Server.AllowedOrigins[:0]
	for _, o := range c.Server.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.Server.AllowedOrigins = origins
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Generation.DefaultEnvironment == "" {
		return fmt.Errorf("generation.default_environment is required")
	}
	if c.Scheduler.Interval < time.Minute {
		return fmt.Errorf("scheduler.interval must be at least 1m, got %s", c.Scheduler.Interval)
	}
	if c.Scheduler.LookaheadMonths < 0 || c.Scheduler.LookaheadMonths > 12 {
		return fmt.Errorf("scheduler.lookahead_months must be between 0 and 12")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

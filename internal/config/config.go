package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	RPC     RPCConfig     `yaml:"rpc"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port              string  `yaml:"port"`
	ReadTimeout       int     `yaml:"readTimeout"`
	WriteTimeout      int     `yaml:"writeTimeout"`
	IdleTimeout       int     `yaml:"idleTimeout"`
	WarmupChains      []int64 `yaml:"warmupChains"`
	WarmupConcurrency int     `yaml:"warmupConcurrency"`
}

// CatalogConfig holds chain-catalog configuration.
type CatalogConfig struct {
	Path                string `yaml:"path"`
	SourceURL           string `yaml:"sourceURL"`
	MaxAgeDays          int    `yaml:"maxAgeDays"`
	FetchTimeoutSeconds int    `yaml:"fetchTimeoutSeconds"`
	CacheTTLMinutes     int    `yaml:"cacheTTLMinutes"`
}

// MaxAge returns the staleness window as a duration.
func (c CatalogConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}

// RPCConfig holds endpoint probing and dispatch configuration.
type RPCConfig struct {
	ProbeTimeoutSeconds int     `yaml:"probeTimeoutSeconds"`
	CallTimeoutSeconds  int     `yaml:"callTimeoutSeconds"`
	RetryDelaySeconds   int     `yaml:"retryDelaySeconds"`
	ProbesPerSecond     float64 `yaml:"probesPerSecond"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML configuration file from the given path and applies
// defaults for anything left unset. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 120
	}
	if cfg.Server.WarmupConcurrency <= 0 {
		cfg.Server.WarmupConcurrency = 4
	}

	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "chains.json"
	}
	if cfg.Catalog.MaxAgeDays <= 0 {
		// Weekly refresh bounds the cost of hitting the chain list source.
		cfg.Catalog.MaxAgeDays = 7
	}
	if cfg.Catalog.FetchTimeoutSeconds <= 0 {
		cfg.Catalog.FetchTimeoutSeconds = 30
	}
	if cfg.Catalog.CacheTTLMinutes <= 0 {
		cfg.Catalog.CacheTTLMinutes = 5
	}

	if cfg.RPC.ProbeTimeoutSeconds <= 0 {
		cfg.RPC.ProbeTimeoutSeconds = 5
	}
	if cfg.RPC.CallTimeoutSeconds <= 0 {
		cfg.RPC.CallTimeoutSeconds = 30
	}
	if cfg.RPC.RetryDelaySeconds <= 0 {
		cfg.RPC.RetryDelaySeconds = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

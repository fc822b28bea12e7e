package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds gRPC server configuration
type ServerConfig struct {
	NodeID          string        `yaml:"node_id" env:"COUNTCHAIN_NODE_ID"`
	Host            string        `yaml:"host" env:"COUNTCHAIN_HOST"`
	Port            int           `yaml:"port" env:"COUNTCHAIN_PORT"`
	MaxConnections  int           `yaml:"max_connections"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// EngineConfig holds counting engine configuration
type EngineConfig struct {
	TenantShards      int `yaml:"tenant_shards"`
	ParticipantShards int `yaml:"participant_shards"`
	MaxTextLength     int `yaml:"max_text_length"`
	MaxIDLength       int `yaml:"max_id_length"`
}

// NotifyConfig holds notification dispatch configuration
type NotifyConfig struct {
	Workers         int           `yaml:"workers"`
	QueueSize       int           `yaml:"queue_size"`
	DispatchTimeout time.Duration `yaml:"dispatch_timeout"`
}

// GossipConfig holds gossip protocol configuration
type GossipConfig struct {
	Enabled        bool          `yaml:"enabled" env:"COUNTCHAIN_GOSSIP_ENABLED"`
	BindPort       int           `yaml:"bind_port" env:"COUNTCHAIN_GOSSIP_PORT"`
	SeedNodes      []string      `yaml:"seed_nodes" env:"COUNTCHAIN_GOSSIP_SEEDS"`
	GossipInterval time.Duration `yaml:"gossip_interval"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`
	ProbeInterval  time.Duration `yaml:"probe_interval"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled        bool          `yaml:"enabled" env:"COUNTCHAIN_METRICS_ENABLED"`
	Port           int           `yaml:"port" env:"COUNTCHAIN_METRICS_PORT"`
	SampleInterval time.Duration `yaml:"sample_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" env:"COUNTCHAIN_LOG_LEVEL"`
	Format     string `yaml:"format"`
	File       string `yaml:"file" env:"COUNTCHAIN_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Config represents the complete configuration for the counting engine
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Engine  EngineConfig  `yaml:"engine"`
	Notify  NotifyConfig  `yaml:"notify"`
	Gossip  GossipConfig  `yaml:"gossip"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoadConfig loads configuration from a YAML file, then applies
// environment overrides, defaults and validation.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for unspecified configuration
func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 50061
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 1000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Engine.TenantShards == 0 {
		cfg.Engine.TenantShards = 16
	}
	if cfg.Engine.ParticipantShards == 0 {
		cfg.Engine.ParticipantShards = 64
	}
	if cfg.Engine.MaxTextLength == 0 {
		cfg.Engine.MaxTextLength = 2000
	}
	if cfg.Engine.MaxIDLength == 0 {
		cfg.Engine.MaxIDLength = 256
	}

	if cfg.Notify.Workers == 0 {
		cfg.Notify.Workers = 8
	}
	if cfg.Notify.QueueSize == 0 {
		cfg.Notify.QueueSize = 1024
	}
	if cfg.Notify.DispatchTimeout == 0 {
		cfg.Notify.DispatchTimeout = 5 * time.Second
	}

	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9091
	}
	if cfg.Metrics.SampleInterval == 0 {
		cfg.Metrics.SampleInterval = 15 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 100
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 5
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = 14
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.NodeID == "" {
		return fmt.Errorf("server.node_id is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Engine.TenantShards < 1 {
		return fmt.Errorf("engine.tenant_shards must be positive")
	}
	if c.Engine.ParticipantShards < 1 {
		return fmt.Errorf("engine.participant_shards must be positive")
	}
	if c.Gossip.Enabled && (c.Gossip.BindPort < 1 || c.Gossip.BindPort > 65535) {
		return fmt.Errorf("gossip.bind_port must be between 1 and 65535 when gossip is enabled")
	}
	return nil
}

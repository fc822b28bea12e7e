package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Full(t *testing.T) {
	path := writeConfig(t, `
server:
  node_id: "engine-1"
  host: "127.0.0.1"
  port: 50099
  max_connections: 500
  shutdown_timeout: 10s
engine:
  tenant_shards: 8
  participant_shards: 32
  max_text_length: 512
  max_id_length: 128
notify:
  workers: 4
  queue_size: 256
  dispatch_timeout: 2s
gossip:
  enabled: true
  bind_port: 7948
  seed_nodes: ["10.0.0.1:7948"]
  gossip_interval: 200ms
metrics:
  enabled: true
  port: 9099
logging:
  level: "debug"
  format: "console"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "engine-1", cfg.Server.NodeID)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 50099, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Server.MaxConnections)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 8, cfg.Engine.TenantShards)
	assert.Equal(t, 32, cfg.Engine.ParticipantShards)
	assert.Equal(t, 512, cfg.Engine.MaxTextLength)
	assert.Equal(t, 4, cfg.Notify.Workers)
	assert.Equal(t, 256, cfg.Notify.QueueSize)
	assert.True(t, cfg.Gossip.Enabled)
	assert.Equal(t, []string{"10.0.0.1:7948"}, cfg.Gossip.SeedNodes)
	assert.Equal(t, 200*time.Millisecond, cfg.Gossip.GossipInterval)
	assert.Equal(t, 9099, cfg.Metrics.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
server:
  node_id: "engine-1"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 50061, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Server.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 16, cfg.Engine.TenantShards)
	assert.Equal(t, 64, cfg.Engine.ParticipantShards)
	assert.Equal(t, 2000, cfg.Engine.MaxTextLength)
	assert.Equal(t, 256, cfg.Engine.MaxIDLength)
	assert.Equal(t, 8, cfg.Notify.Workers)
	assert.Equal(t, 1024, cfg.Notify.QueueSize)
	assert.Equal(t, 5*time.Second, cfg.Notify.DispatchTimeout)
	assert.Equal(t, 9091, cfg.Metrics.Port)
	assert.Equal(t, 15*time.Second, cfg.Metrics.SampleInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  node_id: "from-file"
  port: 50061
logging:
  level: "info"
`)

	t.Setenv("COUNTCHAIN_NODE_ID", "from-env")
	t.Setenv("COUNTCHAIN_PORT", "50123")
	t.Setenv("COUNTCHAIN_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Server.NodeID)
	assert.Equal(t, 50123, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"missing node id",
			func(c *Config) { c.Server.NodeID = "" },
			"node_id",
		},
		{
			"port out of range",
			func(c *Config) { c.Server.Port = 70000 },
			"server.port",
		},
		{
			"zero tenant shards",
			func(c *Config) { c.Engine.TenantShards = 0 },
			"tenant_shards",
		},
		{
			"zero participant shards",
			func(c *Config) { c.Engine.ParticipantShards = 0 },
			"participant_shards",
		},
		{
			"gossip enabled without port",
			func(c *Config) { c.Gossip.Enabled = true; c.Gossip.BindPort = 0 },
			"gossip.bind_port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			cfg.Server.NodeID = "engine-1"
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

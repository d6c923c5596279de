package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdmin = "0x00000000000000000000000000000000000000ad"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, RegistryLocal, cfg.Registry.Mode)
	assert.Equal(t, AuditMemory, cfg.Audit.Sink)
	assert.Equal(t, 2*time.Second, cfg.Registry.Timeout)
	assert.Equal(t, uint64(1), cfg.Ledger.MinInvestment)
	assert.Equal(t, uint64(1000), cfg.Ledger.MaxInvestment)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "propledger.yaml")
	yaml := `
server:
  addr: ":9090"
ledger:
  admin: "` + testAdmin + `"
  token:
    symbol: HVR
    decimals: 2
  asset:
    name: Harbor View
    total_value: 1000000
    total_units: 10000
  max_investment: 500
registry:
  mode: remote
  url: http://registry.internal
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("PROPLEDGER_SERVER_ADDR", ":7070")
	t.Setenv("PROPLEDGER_AUTH_JWT_SIGNING_KEY", "secret")
	t.Setenv("PROPLEDGER_REGISTRY_COOLDOWN", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":7070", cfg.Server.Addr, "env overrides file")
	assert.Equal(t, time.Minute, cfg.Registry.Cooldown)
	assert.Equal(t, "HVR", cfg.Token().Symbol)
	assert.Equal(t, uint8(2), cfg.Token().Decimals)
	assert.Equal(t, uint64(10000), cfg.Asset().TotalUnits)
	assert.True(t, cfg.Asset().Active)
	assert.Equal(t, uint64(500), cfg.Limits().Max)
	assert.Equal(t, testAdmin, cfg.AdminAddress().String())
}

func TestLoad_BrokerList(t *testing.T) {
	t.Setenv("PROPLEDGER_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,kafka-1:9092")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		cfg.Ledger.Admin = testAdmin
		cfg.Auth.JWTSigningKey = "secret"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing admin", func(c *Config) { c.Ledger.Admin = "" }, "ledger.admin is required"},
		{"null admin", func(c *Config) { c.Ledger.Admin = "0x0000000000000000000000000000000000000000" }, "not a valid non-null address"},
		{"malformed admin", func(c *Config) { c.Ledger.Admin = "admin" }, "not a valid non-null address"},
		{"min equals max", func(c *Config) { c.Ledger.MinInvestment = 1000 }, "must be below"},
		{"too many decimals", func(c *Config) { c.Ledger.Token.Decimals = 19 }, "decimals"},
		{"missing signing key", func(c *Config) { c.Auth.JWTSigningKey = "" }, "jwt_signing_key"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"remote without url", func(c *Config) { c.Registry.Mode = RegistryRemote }, "registry.url"},
		{"unknown registry mode", func(c *Config) { c.Registry.Mode = "chain" }, "registry.mode"},
		{"postgres sink without dsn", func(c *Config) { c.Audit.Sink = AuditPostgres }, "postgres.dsn"},
		{"redis sink without url", func(c *Config) { c.Audit.Sink = AuditRedis }, "redis.url"},
		{"relay without outbox", func(c *Config) { c.Kafka.Brokers = []string{"localhost:9092"} }, "kafka relay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		cfg := valid()
		cfg.Ledger.Admin = ""
		cfg.Auth.JWTSigningKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ledger.admin")
		assert.Contains(t, err.Error(), "jwt_signing_key")
	})
}

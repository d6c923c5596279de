package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"propledger/internal/ledger/models"
	id "propledger/pkg/domain"
	strs "propledger/pkg/platform/strings"
)

// EnvPrefix namespaces environment overrides, e.g. PROPLEDGER_SERVER_ADDR.
const EnvPrefix = "PROPLEDGER"

// Registry modes.
const (
	RegistryLocal  = "local"
	RegistryRemote = "remote"
)

// Audit sinks.
const (
	AuditMemory   = "memory"
	AuditPostgres = "postgres"
	AuditRedis    = "redis"
)

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Registry RegistryConfig `mapstructure:"registry"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	OpsToken          string        `mapstructure:"ops_token"` // empty disables /ops
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

type AuthConfig struct {
	JWTSigningKey string        `mapstructure:"jwt_signing_key"`
	Issuer        string        `mapstructure:"issuer"`
	Audience      string        `mapstructure:"audience"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
}

// LedgerConfig describes the tokenized asset and the single admin that
// governs both the registry and the ledger.
type LedgerConfig struct {
	Admin         string      `mapstructure:"admin"`
	Token         TokenConfig `mapstructure:"token"`
	Asset         AssetConfig `mapstructure:"asset"`
	MinInvestment uint64      `mapstructure:"min_investment"`
	MaxInvestment uint64      `mapstructure:"max_investment"`
}

type TokenConfig struct {
	Name     string `mapstructure:"name"`
	Symbol   string `mapstructure:"symbol"`
	Decimals uint8  `mapstructure:"decimals"`
}

type AssetConfig struct {
	Name          string `mapstructure:"name"`
	Location      string `mapstructure:"location"`
	TotalValue    uint64 `mapstructure:"total_value"`
	TotalUnits    uint64 `mapstructure:"total_units"`
	LegalDocument string `mapstructure:"legal_document"`
}

// RegistryConfig selects where the ledger asks for verification status.
type RegistryConfig struct {
	Mode             string        `mapstructure:"mode"`
	URL              string        `mapstructure:"url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold int           `mapstructure:"failure_threshold"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
}

type AuditConfig struct {
	Sink string `mapstructure:"sink"`
}

// PostgresConfig holds the database connection. An empty DSN keeps registry
// state in memory.
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	Stream       string        `mapstructure:"stream"`
	MaxLen       int64         `mapstructure:"max_len"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig configures the outbox relay. No brokers means no relay.
type KafkaConfig struct {
	Brokers       []string      `mapstructure:"brokers"`
	Topic         string        `mapstructure:"topic"`
	RelayInterval time.Duration `mapstructure:"relay_interval"`
	BatchSize     int           `mapstructure:"batch_size"`
}

var defaults = map[string]any{
	"server.addr":                ":8080",
	"server.read_header_timeout": 5 * time.Second,
	"server.shutdown_timeout":    10 * time.Second,
	"server.ops_token":           "",

	"log.level":  "info",
	"log.format": "json",

	"auth.jwt_signing_key": "",
	"auth.issuer":          "propledger",
	"auth.audience":        "propledger-api",
	"auth.token_ttl":       time.Hour,

	"ledger.admin":                "",
	"ledger.token.name":           "Property Share",
	"ledger.token.symbol":         "PROP",
	"ledger.token.decimals":       0,
	"ledger.asset.name":           "",
	"ledger.asset.location":       "",
	"ledger.asset.total_value":    0,
	"ledger.asset.total_units":    0,
	"ledger.asset.legal_document": "",
	"ledger.min_investment":       1,
	"ledger.max_investment":       1000,

	"registry.mode":              RegistryLocal,
	"registry.url":               "",
	"registry.timeout":           2 * time.Second,
	"registry.failure_threshold": 5,
	"registry.cooldown":          30 * time.Second,

	"audit.sink": AuditMemory,

	"postgres.dsn":               "",
	"postgres.max_open_conns":    10,
	"postgres.max_idle_conns":    5,
	"postgres.conn_max_lifetime": 30 * time.Minute,

	"redis.url":            "",
	"redis.stream":         "propledger:audit",
	"redis.max_len":        100_000,
	"redis.pool_size":      10,
	"redis.min_idle_conns": 2,
	"redis.dial_timeout":   5 * time.Second,
	"redis.read_timeout":   3 * time.Second,
	"redis.write_timeout":  3 * time.Second,

	"kafka.brokers":        []string{},
	"kafka.topic":          "propledger.audit",
	"kafka.relay_interval": time.Second,
	"kafka.batch_size":     100,
}

// Load reads configuration with this precedence (highest first):
//  1. PROPLEDGER_* environment variables (dots become underscores)
//  2. the YAML file at path, when path is non-empty
//  3. built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Kafka.Brokers = strs.SplitList(cfg.Kafka.Brokers)
	return &cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Ledger.Admin == "" {
		errs = append(errs, errors.New("ledger.admin is required"))
	} else if admin, err := id.ParseAddress(c.Ledger.Admin); err != nil || admin.IsNil() {
		errs = append(errs, fmt.Errorf("ledger.admin %q is not a valid non-null address", c.Ledger.Admin))
	}
	if c.Ledger.MinInvestment >= c.Ledger.MaxInvestment {
		errs = append(errs, fmt.Errorf("ledger.min_investment (%d) must be below ledger.max_investment (%d)",
			c.Ledger.MinInvestment, c.Ledger.MaxInvestment))
	}
	if c.Ledger.Token.Decimals > models.MaxDecimals {
		errs = append(errs, fmt.Errorf("ledger.token.decimals must be at most %d", models.MaxDecimals))
	}
	if c.Auth.JWTSigningKey == "" {
		errs = append(errs, errors.New("auth.jwt_signing_key is required"))
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}

	switch c.Registry.Mode {
	case RegistryLocal:
	case RegistryRemote:
		if c.Registry.URL == "" {
			errs = append(errs, errors.New("registry.url is required in remote mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("registry.mode %q must be %s or %s", c.Registry.Mode, RegistryLocal, RegistryRemote))
	}

	switch c.Audit.Sink {
	case AuditMemory:
	case AuditPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required for the postgres audit sink"))
		}
	case AuditRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url is required for the redis audit sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("audit.sink %q must be memory, postgres or redis", c.Audit.Sink))
	}

	if len(c.Kafka.Brokers) > 0 && c.Audit.Sink != AuditPostgres {
		errs = append(errs, errors.New("kafka relay requires the postgres audit sink"))
	}

	return errors.Join(errs...)
}

// AdminAddress returns the parsed admin. Call Validate first.
func (c *Config) AdminAddress() id.Address {
	addr, _ := id.ParseAddress(c.Ledger.Admin)
	return addr
}

// Token returns the configured token metadata.
func (c *Config) Token() models.Token {
	return models.Token{
		Name:     c.Ledger.Token.Name,
		Symbol:   c.Ledger.Token.Symbol,
		Decimals: c.Ledger.Token.Decimals,
	}
}

// Asset returns the configured asset record.
func (c *Config) Asset() models.Asset {
	return models.Asset{
		Name:          c.Ledger.Asset.Name,
		Location:      c.Ledger.Asset.Location,
		TotalValue:    c.Ledger.Asset.TotalValue,
		TotalUnits:    c.Ledger.Asset.TotalUnits,
		LegalDocument: c.Ledger.Asset.LegalDocument,
		Active:        true,
	}
}

// Limits returns the configured investment bounds.
func (c *Config) Limits() models.Limits {
	return models.Limits{Min: c.Ledger.MinInvestment, Max: c.Ledger.MaxInvestment}
}

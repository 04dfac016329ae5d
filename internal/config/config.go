// Package config loads indexd configuration from file and environment.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// EnvPrefix prefixes every environment override, e.g. INDEXD_SERVER_ADDR.
const EnvPrefix = "INDEXD"

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig               `mapstructure:"server"`
	MCP       MCPConfig                  `mapstructure:"mcp"`
	Log       LogConfig                  `mapstructure:"log"`
	Policy    PolicyConfig               `mapstructure:"policy"`
	Search    SearchConfig               `mapstructure:"search"`
	Chunking  ChunkingConfig             `mapstructure:"chunking"`
	Audit     AuditConfig                `mapstructure:"audit"`
	Archive   ArchiveConfig              `mapstructure:"archive"`
	Retention map[string]RetentionConfig `mapstructure:"retention"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	RateLimit   float64  `mapstructure:"rate_limit"`
	Burst       int      `mapstructure:"burst"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// MCPConfig configures the MCP server.
type MCPConfig struct {
	// Addr serves MCP over streamable HTTP when set; stdio otherwise.
	Addr string `mapstructure:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PolicyConfig locates the trust and context policy files.
type PolicyConfig struct {
	TrustPath   string `mapstructure:"trust_path"`
	ContextPath string `mapstructure:"context_path"`
	Watch       bool   `mapstructure:"watch"`
}

// SearchConfig bounds result counts.
type SearchConfig struct {
	DefaultK int `mapstructure:"default_k"`
	MaxK     int `mapstructure:"max_k"`
}

// ChunkingConfig sizes the chunks cut from raw upsert text, in characters.
type ChunkingConfig struct {
	Size    int `mapstructure:"size"`
	Overlap int `mapstructure:"overlap"`
}

// AuditConfig bounds the in-memory audit trail.
type AuditConfig struct {
	MaxSnapshots int `mapstructure:"max_snapshots"`
	MaxOutcomes  int `mapstructure:"max_outcomes"`
}

// ArchiveConfig configures the sqlite audit archive.
type ArchiveConfig struct {
	// Path of the database. Empty disables archiving.
	Path     string        `mapstructure:"path"`
	Interval time.Duration `mapstructure:"interval"`
}

// RetentionConfig is the file form of a namespace retention config.
type RetentionConfig struct {
	HalfLifeSeconds *int64 `mapstructure:"half_life_seconds"`
	MaxItems        *int   `mapstructure:"max_items"`
	MaxAgeSeconds   *int64 `mapstructure:"max_age_seconds"`
	PurgeStrategy   string `mapstructure:"purge_strategy"`
}

// ToDomain converts and validates the config.
func (r RetentionConfig) ToDomain() (domain.RetentionConfig, error) {
	strategy, err := domain.ParsePurgeStrategy(r.PurgeStrategy)
	if err != nil {
		return domain.RetentionConfig{}, domain.NewValidationError(domain.CodeInvalidRetention, "purge_strategy", err.Error())
	}
	cfg := domain.RetentionConfig{
		HalfLifeSeconds: r.HalfLifeSeconds,
		MaxItems:        r.MaxItems,
		MaxAgeSeconds:   r.MaxAgeSeconds,
		PurgeStrategy:   strategy,
	}
	if err := cfg.Validate(); err != nil {
		return domain.RetentionConfig{}, err
	}
	return cfg, nil
}

// RetentionNamespaces returns the configured namespaces in sorted order.
func (c *Config) RetentionNamespaces() []string {
	out := make([]string, 0, len(c.Retention))
	for ns := range c.Retention {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Dir returns the indexd home directory, ~/.indexd.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".indexd"
	}
	return filepath.Join(home, ".indexd")
}

// Load reads configuration from file and environment.
// An explicit path must exist; otherwise indexd.{toml,yaml,yml,json} is
// looked up in the working directory and ~/.indexd, and may be absent.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("indexd")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Archive.Interval <= 0 {
		return eris.Errorf("config: archive.interval must be positive, got %s", c.Archive.Interval)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8088")
	v.SetDefault("server.rate_limit", 50.0)
	v.SetDefault("server.burst", 100)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("mcp.addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("policy.trust_path", "")
	v.SetDefault("policy.context_path", "")
	v.SetDefault("policy.watch", false)
	v.SetDefault("search.default_k", 20)
	v.SetDefault("search.max_k", 100)
	v.SetDefault("chunking.size", 1000)
	v.SetDefault("chunking.overlap", 200)
	v.SetDefault("audit.max_snapshots", 10000)
	v.SetDefault("audit.max_outcomes", 10000)
	v.SetDefault("archive.path", "")
	v.SetDefault("archive.interval", 5*time.Minute)
}

// Package config loads heddle settings from defaults, an optional config file,
// HEDDLE_* environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. HEDDLE_STORE_BACKEND.
const EnvPrefix = "HEDDLE"

// Config is the full set of settings shared by the CLI commands.
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Store StoreConfig `mapstructure:"store"`
	Redis RedisConfig `mapstructure:"redis"`
	HTTP  HTTPConfig  `mapstructure:"http"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// StoreConfig selects where workspaces are persisted.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // memory, file or redis
	Dir     string `mapstructure:"dir"`
	Format  string `mapstructure:"format"` // json or yaml, file backend only
}

// RedisConfig configures the redis backend and distributed locking.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	Lock     bool          `mapstructure:"lock"`
}

// HTTPConfig configures `heddle serve`.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.dir", ".heddle/workspaces")
	v.SetDefault("store.format", "json")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "heddle:workspace:")
	v.SetDefault("redis.ttl", time.Duration(0))
	v.SetDefault("redis.lock", true)
	v.SetDefault("http.addr", ":8080")
}

// Load reads the configuration. path names an explicit config file; when empty,
// heddle.yaml (or .json/.toml) is looked up in the working directory and
// $HOME/.heddle, and a missing file is not an error. Flags in fs whose names match
// a key with dots replaced by dashes (e.g. --store-backend) take precedence.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("heddle")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.heddle")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if fs != nil {
		for _, key := range v.AllKeys() {
			if f := fs.Lookup(strings.ReplaceAll(key, ".", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "file", "redis":
	default:
		return &Error{Field: "store.backend", Message: fmt.Sprintf("unknown backend %q", c.Store.Backend)}
	}
	switch c.Store.Format {
	case "json", "yaml":
	default:
		return &Error{Field: "store.format", Message: fmt.Sprintf("unknown format %q", c.Store.Format)}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return &Error{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	return nil
}

// Error reports an invalid setting.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

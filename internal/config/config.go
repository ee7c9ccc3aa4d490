package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type SessionConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	IdleMinutes int    `mapstructure:"idle_minutes"`
	CookieName  string `mapstructure:"cookie_name"`
}

type ThrottleConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	MaxFailures    int  `mapstructure:"max_failures"`
	LockoutSeconds int  `mapstructure:"lockout_seconds"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Throttle ThrottleConfig `mapstructure:"throttle"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
}

// Load reads configuration from the given file path (e.g. "config.yaml").
// A missing file is not an error: defaults apply, and environment variables
// with the MC_ prefix override everything, e.g. MC_SERVER_PORT=9000 or
// MC_SESSION_ENABLED=false.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "data/movies.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("session.enabled", true)
	v.SetDefault("session.idle_minutes", 30)
	v.SetDefault("session.cookie_name", "mc_session")
	v.SetDefault("throttle.enabled", true)
	v.SetDefault("throttle.max_failures", 5)
	v.SetDefault("throttle.lockout_seconds", 60)
	v.SetDefault("jwt.issuer", "movie-catalog")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("log.level", "info")

	readFile := true
	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
	} else {
		readFile = false
	}

	v.SetEnvPrefix("MC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if readFile {
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Package config loads runtime configuration from flags, environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	ServiceURL   string `mapstructure:"service_url"`
	ServiceToken string `mapstructure:"service_token"`
	ListenAddr   string `mapstructure:"listen_addr"`
	RedisAddr    string `mapstructure:"redis_addr"`
	CacheTTL     string `mapstructure:"cache_ttl"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
}

func init() {
	pflag.String("service-url", "", "Base URL of the task service")
	pflag.String("service-token", "", "Bearer token for the task service")
	pflag.String("listen-addr", "0.0.0.0:8080", "Host and port for the HTTP server")
	pflag.String("redis-addr", "", "Redis address for the shared workspace cache (empty: in-memory)")
	pflag.String("cache-ttl", "5m", "Workspace config cache TTL")
	pflag.String("log-level", "INFO", "Log level: DEBUG, INFO, WARN, ERROR")
	pflag.String("log-format", "json", "Log format: json or text")
	pflag.String("config", "", "Path to the configuration file")

	f := pflag.CommandLine
	normalizeFunc := f.GetNormalizeFunc()
	f.SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		result := normalizeFunc(fs, name)
		name = strings.ReplaceAll(string(result), "-", "_")
		return pflag.NormalizedName(name)
	})
}

// Load parses flags and environment into a Config. Environment
// variables use the TASKQL_ prefix with underscores.
func Load() (*Config, error) {
	viper.SetDefault("service_url", "http://localhost:9000")
	viper.SetDefault("listen_addr", "0.0.0.0:8080")
	viper.SetDefault("cache_ttl", "5m")
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("log_format", "json")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)

	viper.SetEnvPrefix("TASKQL")
	viper.AutomaticEnv()

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

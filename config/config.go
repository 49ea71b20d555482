package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DefaultEnvFile  = ".env"
	DefaultDBURI    = "badger://data/posts"
	DefaultHTTPPort = "8000"
)

const (
	keyDBURI      = "db_uri"
	keyDBMaxConns = "db_max_conns"
	keyHTTPPort   = "http_port"
	keyLogLevel   = "log_level"
	keyLogFormat  = "log_format"
)

type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	Log      LogConfig
}

type HTTPConfig struct {
	Port string `validate:"required,numeric"`
}

type LogConfig struct {
	Level  string
	Format string `validate:"oneof=json text"`
}

// LoadConfig reads configuration from the defaults, the .env file in the working
// directory and the process environment, in increasing priority.
func LoadConfig() (Config, error) {
	return Load(DefaultEnvFile)
}

// Load is LoadConfig with an explicit env file path. A missing file is not an error.
func Load(envFile string) (Config, error) {
	v := viper.New()
	v.SetDefault(keyDBURI, DefaultDBURI)
	v.SetDefault(keyDBMaxConns, 10)
	v.SetDefault(keyHTTPPort, DefaultHTTPPort)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "json")

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", envFile, err)
		}
	}
	v.AutomaticEnv()

	cfg := Config{
		Database: DatabaseConfig{
			URI:      v.GetString(keyDBURI),
			MaxConns: v.GetInt32(keyDBMaxConns),
		},
		HTTP: HTTPConfig{
			Port: v.GetString(keyHTTPPort),
		},
		Log: LogConfig{
			Level:  v.GetString(keyLogLevel),
			Format: v.GetString(keyLogFormat),
		},
	}

	if _, err := cfg.Database.Family(); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

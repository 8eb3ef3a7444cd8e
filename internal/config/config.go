package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

var (
	ErrUnknownStorage  = errors.New("unknown storage backend")
	ErrUnknownLogLevel = errors.New("unknown log level")
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type Config struct {
	LogLevel    string `yaml:"log-level" env:"LOG_LEVEL" env-default:"warn"`
	Storage     string `yaml:"storage" env:"STORAGE" env-default:"file"`
	DataDir     string `yaml:"data-dir" env:"DATA_DIR" env-default:"."`
	MetricsPort string `yaml:"metrics-port" env:"METRICS_PORT" env-default:""`
	Redis       Redis  `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads path when it exists, otherwise only the environment. A .env file next to the binary is applied first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err = cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if config.Storage != StorageFile && config.Storage != StorageRedis {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, config.Storage)
	}

	if _, ok := logLevels[config.LogLevel]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLogLevel, config.LogLevel)
	}

	return config, nil
}

// SlogLevel - level matching LogLevel. Load has already rejected unknown names.
func (that *Config) SlogLevel() slog.Level {
	return logLevels[that.LogLevel]
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/utils"
)

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	// Connection pool bounds. The store is shared by every request; keep the
	// pool small (1..10) to match the single-query-per-request model.
	MaxIdleConns int `yaml:"max_idle_conns"`
	MaxOpenConns int `yaml:"max_open_conns"`
}

type Config struct {
	HTTPPort string         `yaml:"http_port"`
	LogMode  string         `yaml:"log_mode"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// Load builds the configuration in three layers: built-in defaults, an
// optional YAML file named by CONFIG_FILE, then individual environment
// variables on top.
func Load(log *logger.Logger) (Config, error) {
	cfg := Config{
		HTTPPort: "5001",
		LogMode:  "development",
		Postgres: PostgresConfig{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "",
			Name:         "skillalchemy",
			MaxIdleConns: 1,
			MaxOpenConns: 10,
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %q: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.HTTPPort = utils.GetEnv("HTTP_PORT", cfg.HTTPPort, log)
	cfg.LogMode = utils.GetEnv("LOG_MODE", cfg.LogMode, log)
	cfg.Postgres.Host = utils.GetEnv("POSTGRES_HOST", cfg.Postgres.Host, log)
	cfg.Postgres.Port = utils.GetEnv("POSTGRES_PORT", cfg.Postgres.Port, log)
	cfg.Postgres.User = utils.GetEnv("POSTGRES_USER", cfg.Postgres.User, log)
	cfg.Postgres.Password = utils.GetEnv("POSTGRES_PASSWORD", cfg.Postgres.Password, log)
	cfg.Postgres.Name = utils.GetEnv("POSTGRES_NAME", cfg.Postgres.Name, log)
	cfg.Postgres.MaxIdleConns = utils.GetEnvAsInt("POSTGRES_MAX_IDLE_CONNS", cfg.Postgres.MaxIdleConns, log)
	cfg.Postgres.MaxOpenConns = utils.GetEnvAsInt("POSTGRES_MAX_OPEN_CONNS", cfg.Postgres.MaxOpenConns, log)

	if cfg.Postgres.MaxIdleConns < 1 {
		cfg.Postgres.MaxIdleConns = 1
	}
	if cfg.Postgres.MaxOpenConns < cfg.Postgres.MaxIdleConns {
		cfg.Postgres.MaxOpenConns = cfg.Postgres.MaxIdleConns
	}
	return cfg, nil
}

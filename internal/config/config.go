package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/romanzh1/lingua-srs/internal/srs"
	"github.com/spf13/viper"
)

const EnvPrefix = "SRS"

// Config holds all configuration for the scheduler CLI
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	DSN     string `mapstructure:"dsn" validate:"required"`
	MaxIdle int    `mapstructure:"max_idle" validate:"min=0"`
	MaxOpen int    `mapstructure:"max_open" validate:"min=1"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type SchedulerConfig struct {
	LearningSteps   []time.Duration `mapstructure:"learning_steps" validate:"dive,gt=0"`
	RelearningSteps []time.Duration `mapstructure:"relearning_steps" validate:"dive,gt=0"`
}

// Load reads .env, an optional config file and SRS_* environment variables into v.
// Keys use dots in files and underscores in the environment (database.dsn → SRS_DATABASE_DSN).
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file (path: %s): %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:lingua-srs.db?_time_format=sqlite")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 20)

	v.SetDefault("log.level", "info")

	v.SetDefault("scheduler.learning_steps", []string{"1m", "10m"})
	v.SetDefault("scheduler.relearning_steps", []string{"10m"})
}

// SRS returns the memory model configuration with the configured learning steps.
func (c *Config) SRS() srs.Config {
	cfg := srs.DefaultConfig()
	if len(c.Scheduler.LearningSteps) > 0 {
		cfg.LearningSteps = c.Scheduler.LearningSteps
	}
	if len(c.Scheduler.RelearningSteps) > 0 {
		cfg.RelearningSteps = c.Scheduler.RelearningSteps
	}
	return cfg
}

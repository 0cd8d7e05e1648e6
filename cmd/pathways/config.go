package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds the tool's environment-driven settings. Flags override
// these per invocation.
type Config struct {
	PathwayDir   string `mapstructure:"PATHWAYS_DIR"`
	LibraryDir   string `mapstructure:"PATHWAYS_LIBRARY_DIR"`
	EvaluatorURL string `mapstructure:"PATHWAYS_EVALUATOR_URL"`
	Workers      int    `mapstructure:"PATHWAYS_WORKERS"`
	LogLevel     string `mapstructure:"PATHWAYS_LOG_LEVEL"`
	Pretty       bool   `mapstructure:"PATHWAYS_PRETTY_LOG"`
}

func loadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PATHWAYS_WORKERS", 4)
	v.SetDefault("PATHWAYS_LOG_LEVEL", "warn")
	v.SetDefault("PATHWAYS_PRETTY_LOG", true)

	v.BindEnv("PATHWAYS_DIR")
	v.BindEnv("PATHWAYS_LIBRARY_DIR")
	v.BindEnv("PATHWAYS_EVALUATOR_URL")
	v.BindEnv("PATHWAYS_WORKERS")
	v.BindEnv("PATHWAYS_LOG_LEVEL")
	v.BindEnv("PATHWAYS_PRETTY_LOG")

	// The .env file is optional.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.WarnLevel
	}

	if c.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

package main

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/a-peyrard/autowire/config"
)

// Settings are read from the environment set by go generate.
type Settings struct {
	File     string `mapstructure:"gofile"`
	Package  string `mapstructure:"gopackage"`
	DryRun   bool   `mapstructure:"dry_run"`
	LogLevel string `mapstructure:"log_level" default:"info"`
}

func loadSettings() (*Settings, error) {
	settings, err := config.Load[Settings]()
	if err != nil {
		return nil, err
	}
	if settings.File == "" {
		return nil, errors.New("GOFILE is not set, the generator must be run through go generate")
	}
	return settings, nil
}

func (s Settings) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

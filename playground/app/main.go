package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/a-peyrard/autowire"
	"github.com/a-peyrard/autowire/config"
	"github.com/a-peyrard/autowire/playground/app/registry"
)

// Settings are read from PG_* environment variables.
type Settings struct {
	Brand    string
	Wheels   int
	Distance int
	Recurse  bool
	LogLevel string `default:"info"`
}

func (s Settings) container() autowire.Container {
	container := autowire.Container{}
	// zero values are left to the declared defaults
	if s.Brand != "" {
		container["brand"] = s.Brand
	}
	if s.Wheels != 0 {
		container["wheels"] = s.Wheels
	}
	if s.Distance != 0 {
		container["distance"] = s.Distance
	}
	return container
}

func main() {
	settings, err := config.Load[Settings](config.WithEnvPrefix("PG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()

	resolver := autowire.New(autowire.WithLogger(&logger))
	if err := resolver.Load(registry.Registry{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to load registry")
	}
	if err := resolver.Validate(); err != nil {
		logger.Warn().Err(err).Msg("some declarations cannot be autowired as is")
	}

	logger.Info().Msgf("here is what we can autowire:\n%s", resolver.Describe())

	car, err := resolver.Autowire("car", settings.container(), autowire.ResolveInjectedClasses(settings.Recurse))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build the car")
	}
	logger.Info().Msgf("built %+v", car)

	// the instance driven is built from the declared defaults, the container only feeds Drive
	trip, err := resolver.Autowire("car", settings.container(), autowire.EntryPoint("Drive"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to drive")
	}
	logger.Info().Msgf("%v", trip)
}

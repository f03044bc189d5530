package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"

	"github.com/a-peyrard/autowire/slices"
)

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached root
		}
		dir = parent
	}
	return "."
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()

	settings, err := loadSettings()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load settings")
	}
	logger = logger.Level(settings.Level())

	if err := run(&logger, settings); err != nil {
		logger.Error().Err(err).Msg("Generation failed")
		os.Exit(1)
	}
}

func run(logger *zerolog.Logger, settings *Settings) error {
	startScan := time.Now()

	// capture the target file, where the generator is invoked
	currentDir, err := os.Getwd()
	if err != nil {
		return err
	}
	targetFilePath := filepath.Join(currentDir, settings.File)

	// switch to the root of the module as we want to scan the whole module
	if err := os.Chdir(findModuleRoot()); err != nil {
		return fmt.Errorf("failed to change directory to module root: %w", err)
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	s := newScanner(logger, targetFilePath)
	for _, pkg := range pkgs {
		logger.Debug().Str("package", pkg.ID).Msg("Scanning package")
		for _, file := range pkg.Syntax {
			s.scanFile(pkg.Fset, file, pkg.PkgPath)
		}
	}
	registry, types := s.result()

	if registry == nil {
		return fmt.Errorf(
			"no Registry struct found in %s (package %s), make sure you have a struct like this:\ntype Registry struct {\n    autowire.EmptyRegistry\n}",
			settings.File,
			settings.Package,
		)
	}

	logger.Info().Msgf("👨‍🔧 Registry found: %+v", registry)
	logger.Info().Msgf("🎯 %d types found in the module", len(types))
	logger.Debug().Msgf("Types:\n%s", strings.Join(slices.Map(types, TypeDefinition.String), "\n----\n"))
	logger.Info().Msgf("🕵️‍♂️ Scanning completed in %s", time.Since(startScan))

	outputPath := filepath.Join(
		filepath.Dir(targetFilePath),
		strings.TrimSuffix(filepath.Base(targetFilePath), ".go")+"_gen.go",
	)
	if settings.DryRun {
		outputPath = filepath.Join(os.TempDir(), filepath.Base(outputPath))
	}

	if err := generateCode(logger, outputPath, registry, types); err != nil {
		return fmt.Errorf("failed to generate code in %s: %w", outputPath, err)
	}
	logger.Info().Msgf("✅ Code generated successfully in %s", outputPath)
	return nil
}

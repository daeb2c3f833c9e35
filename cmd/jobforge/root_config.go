package main

import (
	"fmt"
	"os"

	"github.com/obarouni/jobforge/internal/config"
	"github.com/obarouni/jobforge/internal/history"
	"github.com/obarouni/jobforge/internal/registry"
	"github.com/obarouni/jobforge/internal/templates"
	"github.com/spf13/cobra"
)

// loadConfig builds the effective configuration: config file values,
// then explicit flag overrides, then built-in defaults for the rest.
func loadConfig(cmd *cobra.Command, configPath, resourceRoot, jobsRoot string) (*config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Command-line args take priority over config file values
	if cmd.Flags().Changed("resource-root") {
		cfg.ResourceRoot = resourceRoot
	}
	if cmd.Flags().Changed("jobs-root") {
		cfg.JobsRoot = jobsRoot
	}
	if cfg.ResourceRoot == "" {
		if env := os.Getenv("JOBFORGE_RESOURCE_ROOT"); env != "" {
			cfg.ResourceRoot = env
		} else if cwd, err := os.Getwd(); err == nil {
			cfg.ResourceRoot = cwd
		}
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// loadComponents builds the read-only registry and resolver shared by
// every generation request.
func loadComponents(cfg *config.Config) (*registry.Registry, *templates.Resolver, error) {
	reg, err := registry.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	if reg.Len() == 0 {
		return nil, nil, fmt.Errorf("no content modules found: add entries to %s or place %s files in %s",
			cfg.ManifestAbs(), cfg.ModuleExt, cfg.ModulesAbs())
	}
	return reg, templates.NewResolver(cfg), nil
}

// openHistory opens the run-history store. Failure is non-fatal; the
// pipeline runs without history rather than refusing to generate.
func openHistory(cfg *config.Config) *history.Store {
	store, err := history.Open(cfg.HistoryDBAbs())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run history unavailable: %v\n", err)
		return nil
	}
	return store
}

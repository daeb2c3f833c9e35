// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds every fixed path and table the pipeline components depend
// on. It is constructed once, passed into each component explicitly, and
// never mutated afterwards; tests build one over a temporary root.
type Config struct {
	// Paths
	ResourceRoot string `json:"resource_root,omitempty" yaml:"resource_root"` // Base directory holding templates and modules
	JobsRoot     string `json:"jobs_root,omitempty" yaml:"jobs_root"`         // Directory job folders are created under
	ManifestPath string `json:"manifest_path,omitempty" yaml:"manifest_path"` // Module manifest, relative to ResourceRoot
	ModulesDir   string `json:"modules_dir,omitempty" yaml:"modules_dir"`     // Scanned modules directory, relative to ResourceRoot
	ModuleExt    string `json:"module_ext,omitempty" yaml:"module_ext"`       // Extension picked up by the modules scan
	HistoryDB    string `json:"history_db,omitempty" yaml:"history_db"`       // SQLite run-history file

	// Templates
	Categories          []string `json:"categories,omitempty" yaml:"categories"`                          // Document categories with candidate templates
	CVFileName          string   `json:"cv_file_name,omitempty" yaml:"cv_file_name"`                      // Fixed staged CV filename
	CoverLetterFileName string   `json:"cover_letter_file_name,omitempty" yaml:"cover_letter_file_name"` // Fixed staged cover letter filename

	// Toolchain
	PrimaryTool       string `json:"primary_tool,omitempty" yaml:"primary_tool"`               // Dependency-aware build wrapper
	FallbackTool      string `json:"fallback_tool,omitempty" yaml:"fallback_tool"`             // Base compiler, run twice
	CompileTimeoutSec int    `json:"compile_timeout_sec,omitempty" yaml:"compile_timeout_sec"` // Per-invocation subprocess timeout

	// Server
	Port int `json:"port,omitempty" yaml:"port"`
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		JobsRoot:            "jobs",
		ManifestPath:        filepath.Join("base", "modules.json"),
		ModulesDir:          filepath.Join("modules", "projects"),
		ModuleExt:           ".tex",
		HistoryDB:           "jobforge.db",
		Categories:          []string{"ee", "data"},
		CVFileName:          "cv.tex",
		CoverLetterFileName: "cover_letter.tex",
		PrimaryTool:         "latexmk",
		FallbackTool:        "pdflatex",
		CompileTimeoutSec:   120,
		Port:                8080,
	}
}

// Load reads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.ResourceRoot == "" {
		return fmt.Errorf("config error: 'resource_root' is required")
	}
	if _, err := os.Stat(c.ResourceRoot); os.IsNotExist(err) {
		return fmt.Errorf("config error: resource root not found: %s", c.ResourceRoot)
	}
	if c.CompileTimeoutSec < 0 {
		return fmt.Errorf("config error: 'compile_timeout_sec' must be non-negative")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("config error: at least one category is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: invalid port %d", c.Port)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ResourceRoot == "" {
		result.ResourceRoot = defaults.ResourceRoot
	}
	if result.JobsRoot == "" {
		result.JobsRoot = defaults.JobsRoot
	}
	if result.ManifestPath == "" {
		result.ManifestPath = defaults.ManifestPath
	}
	if result.ModulesDir == "" {
		result.ModulesDir = defaults.ModulesDir
	}
	if result.ModuleExt == "" {
		result.ModuleExt = defaults.ModuleExt
	}
	if result.HistoryDB == "" {
		result.HistoryDB = defaults.HistoryDB
	}
	if len(result.Categories) == 0 {
		result.Categories = defaults.Categories
	}
	if result.CVFileName == "" {
		result.CVFileName = defaults.CVFileName
	}
	if result.CoverLetterFileName == "" {
		result.CoverLetterFileName = defaults.CoverLetterFileName
	}
	if result.PrimaryTool == "" {
		result.PrimaryTool = defaults.PrimaryTool
	}
	if result.FallbackTool == "" {
		result.FallbackTool = defaults.FallbackTool
	}
	if result.CompileTimeoutSec == 0 {
		result.CompileTimeoutSec = defaults.CompileTimeoutSec
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	return result
}

// ManifestAbs returns the absolute path of the module manifest.
func (c *Config) ManifestAbs() string {
	return filepath.Join(c.ResourceRoot, c.ManifestPath)
}

// ModulesAbs returns the absolute path of the scanned modules directory.
func (c *Config) ModulesAbs() string {
	return filepath.Join(c.ResourceRoot, c.ModulesDir)
}

// TexInputsDir returns the directory prepended to the toolchain's input
// search path so shared classes and styles resolve from any job folder.
func (c *Config) TexInputsDir() string {
	return filepath.Join(c.ResourceRoot, "base")
}

// JobsAbs returns the absolute jobs root. A relative JobsRoot is anchored
// at the resource root's parent, matching the source-tree layout.
func (c *Config) JobsAbs() string {
	if filepath.IsAbs(c.JobsRoot) {
		return c.JobsRoot
	}
	return filepath.Join(filepath.Dir(c.ResourceRoot), c.JobsRoot)
}

// HistoryDBAbs returns the absolute run-history database path.
func (c *Config) HistoryDBAbs() string {
	if filepath.IsAbs(c.HistoryDB) {
		return c.HistoryDB
	}
	return filepath.Join(filepath.Dir(c.ResourceRoot), c.HistoryDB)
}

// CompileTimeout returns the per-invocation toolchain timeout.
func (c *Config) CompileTimeout() time.Duration {
	return time.Duration(c.CompileTimeoutSec) * time.Second
}

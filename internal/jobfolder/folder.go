// Package jobfolder creates per-company/per-role destination folders and
// stages template copies into them.
package jobfolder

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Placeholder replaces a name that sanitizes to nothing.
const Placeholder = "untitled"

var (
	invalidRunes  = regexp.MustCompile(`[^a-z0-9 _-]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Sanitize normalizes free-text company and role names into filesystem
// slugs: lower-cased, characters outside [a-z0-9 _-] stripped, whitespace
// runs collapsed to single underscores. An empty result yields the fixed
// placeholder, never an empty string.
func Sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = invalidRunes.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "_")
	if s == "" {
		return Placeholder
	}
	return s
}

// Manager owns job folder creation under a fixed jobs root. Once a folder
// is created, later pipeline stages operate on files within it but never
// delete it, even on failure.
type Manager struct {
	jobsRoot string
}

// NewManager returns a Manager rooted at jobsRoot.
func NewManager(jobsRoot string) *Manager {
	return &Manager{jobsRoot: jobsRoot}
}

// Create makes a uniquely named folder jobs/<company>/<role>[_N] and
// returns its path. A colliding role folder is disambiguated with _1, _2,
// ... on the leaf segment only, so prior job data is never overwritten.
func (m *Manager) Create(company, role string) (string, error) {
	if role == "" {
		role = "general"
	}
	companyDir := filepath.Join(m.jobsRoot, Sanitize(company))
	if err := os.MkdirAll(companyDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create company folder: %w", err)
	}

	folder := ensureUnique(filepath.Join(companyDir, Sanitize(role)))
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("failed to create job folder: %w", err)
	}
	return folder, nil
}

// Stage copies a resolved template into the job folder under the fixed
// destination filename and returns the staged document path.
func (m *Manager) Stage(templatePath, folder, destName string) (string, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}
	dest := filepath.Join(folder, destName)
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to stage template to %s: %w", dest, err)
	}
	return dest, nil
}

// ensureUnique returns base if free, else base_1, base_2, ... (first
// available integer).
func ensureUnique(base string) string {
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

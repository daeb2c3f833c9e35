package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/obarouni/jobforge/internal/config"
	"github.com/obarouni/jobforge/internal/types"
)

// manifestSchema validates the declarative module manifest before it is
// trusted. Records carry a required path plus optional id and name.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "id":   {"type": ["string", "integer"]},
      "name": {"type": "string"},
      "path": {"type": "string", "minLength": 1}
    },
    "required": ["path"],
    "additionalProperties": false
  }
}`

// manifestEntry mirrors one manifest record. ID stays untyped so both
// string and numeric ids pass through unchanged.
type manifestEntry struct {
	ID   any    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Path string `json:"path"`
}

// Registry holds the content modules discovered from the manifest and the
// filesystem scan. It is populated once at load time and treated as
// immutable afterwards, so concurrent readers need no locking.
type Registry struct {
	modules []types.ContentModule
	byID    map[string]string
}

// Load reads the module manifest (if present), validates it, then scans
// the modules directory for additional files of the target extension.
// Manifest entries take priority; scan hits whose resolved path is already
// registered are silently skipped. A malformed manifest is fatal.
func Load(cfg *config.Config) (*Registry, error) {
	r := &Registry{byID: make(map[string]string)}
	seen := make(map[string]bool)

	manifestPath := cfg.ManifestAbs()
	if data, err := os.ReadFile(manifestPath); err == nil {
		entries, err := parseManifest(data)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			abs := resolveUnder(cfg.ResourceRoot, entry.Path)
			if seen[abs] {
				continue
			}
			seen[abs] = true

			name := entry.Name
			if name == "" {
				name = DeriveName(abs)
			}
			id := entryID(entry.ID)
			if id == "" {
				id = strconv.Itoa(len(r.modules) + 1)
			}
			r.append(types.ContentModule{ID: id, Name: name, Path: abs})
		}
	} else if !os.IsNotExist(err) {
		return nil, &ConfigurationError{
			Message: fmt.Sprintf("failed to read manifest %s", manifestPath),
			Cause:   err,
		}
	}

	// Scan pass: pick up unlisted module files in lexicographic order.
	if dirEntries, err := os.ReadDir(cfg.ModulesAbs()); err == nil {
		for _, de := range dirEntries {
			if de.IsDir() || !strings.EqualFold(filepath.Ext(de.Name()), cfg.ModuleExt) {
				continue
			}
			abs := filepath.Join(cfg.ModulesAbs(), de.Name())
			if seen[abs] {
				continue
			}
			seen[abs] = true
			r.append(types.ContentModule{
				ID:   strconv.Itoa(len(r.modules) + 1),
				Name: DeriveName(abs),
				Path: abs,
			})
		}
	}

	return r, nil
}

func (r *Registry) append(m types.ContentModule) {
	r.modules = append(r.modules, m)
	r.byID[m.ID] = m.Path
}

// Modules returns the registered modules in discovery order.
func (r *Registry) Modules() []types.ContentModule {
	out := make([]types.ContentModule, len(r.modules))
	copy(out, r.modules)
	return out
}

// PathFor resolves a module id to its absolute path.
func (r *Registry) PathFor(id string) (string, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.modules)
}

// parseManifest validates raw manifest bytes against the schema and
// decodes the entries.
func parseManifest(data []byte) ([]manifestEntry, error) {
	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, &ConfigurationError{Message: "manifest is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return nil, &ConfigurationError{
			Message: "manifest failed schema validation: " + strings.Join(details, "; "),
		}
	}

	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &ConfigurationError{Message: "failed to decode manifest", Cause: err}
	}
	return entries, nil
}

// entryID normalizes a manifest id (string or number) to a string.
func entryID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	default:
		return ""
	}
}

// DeriveName builds a display name from a module filename: extension
// stripped, underscores become spaces, words title-cased.
func DeriveName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.Fields(strings.ReplaceAll(stem, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// resolveUnder anchors a manifest-relative path at the resource root.
func resolveUnder(root, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

package inject

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Marker lines are the only contract between externally authored
// templates and the injector. Each is replaced wholesale, first
// occurrence only.
const (
	SummaryMarker    = "% PASTE SUMMARY HERE"
	ModuleListMarker = "% PROJECT PATHS HERE"
	BodyMarker       = "% PASTE HERE"
)

// Result reports non-fatal injection findings. A missing marker likely
// means a stale or misauthored template; generation proceeds anyway with
// the warning surfaced to the caller.
type Result struct {
	Warnings []string
}

// PathFunc resolves a module id to its absolute path.
type PathFunc func(id string) (string, bool)

// CV replaces the summary and module-list markers in a staged CV.
// The summary is escaped unless raw is set; the module list becomes one
// \input directive per selected module, in caller order, deduplicated by
// id. If any id does not map to an existing file the whole batch is
// reported via MissingModuleError and no write happens.
func CV(stagedPath, summary string, raw bool, moduleIDs []string, pathFor PathFunc) (*Result, error) {
	directives, err := moduleDirectives(moduleIDs, pathFor)
	if err != nil {
		return nil, err
	}

	// Raw mode passes pre-formatted markup through verbatim.
	text := summary
	if !raw {
		text = Escape(strings.TrimSpace(summary))
	}

	return apply(stagedPath, []replacement{
		{marker: SummaryMarker, content: text},
		{marker: ModuleListMarker, content: strings.Join(directives, "\n")},
	})
}

// CoverLetter replaces the body marker in a staged cover letter.
// The body is always escaped; raw mode applies only to the CV summary.
func CoverLetter(stagedPath, body string) (*Result, error) {
	return apply(stagedPath, []replacement{
		{marker: BodyMarker, content: Escape(strings.TrimSpace(body))},
	})
}

type replacement struct {
	marker  string
	content string
}

// apply rewrites the first line containing each marker, preserving all
// other lines byte for byte.
func apply(stagedPath string, reps []replacement) (*Result, error) {
	data, err := os.ReadFile(stagedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged document %s: %w", stagedPath, err)
	}

	lines := strings.Split(string(data), "\n")
	res := &Result{}

	for _, rep := range reps {
		replaced := false
		for i, line := range lines {
			if strings.Contains(line, rep.marker) {
				lines[i] = rep.content
				replaced = true
				break
			}
		}
		if !replaced {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("template is missing marker %q", rep.marker))
		}
	}

	if err := os.WriteFile(stagedPath, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return nil, fmt.Errorf("failed to write staged document %s: %w", stagedPath, err)
	}
	return res, nil
}

// moduleDirectives resolves the selected ids to \input directives.
// Duplicate ids are collapsed to their first occurrence; missing ids are
// collected and reported as one batch.
func moduleDirectives(moduleIDs []string, pathFor PathFunc) ([]string, error) {
	var missing []string
	var directives []string
	seen := make(map[string]bool)

	for _, id := range moduleIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		path, ok := pathFor(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, id)
			continue
		}
		directives = append(directives, fmt.Sprintf(`\input{%s}`, filepath.ToSlash(path)))
	}

	if len(missing) > 0 {
		return nil, &MissingModuleError{Missing: missing}
	}
	return directives, nil
}

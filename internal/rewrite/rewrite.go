// Package rewrite makes staged templates location-independent by
// re-anchoring shared-module references as absolute paths under the
// resource root. A template is authored assuming it lives inside the
// source tree; once copied into a per-job folder the short relative paths
// break, so every shared-module reference must be rewritten.
package rewrite

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// State classifies the outcome of a rewrite attempt.
type State int

const (
	// Unchanged means the file contained nothing to rewrite.
	Unchanged State = iota
	// Rewritten means references were re-anchored and the file was updated.
	Rewritten
	// Failed means the attempt errored; the file is left as it was.
	Failed
)

// Result distinguishes a no-op from an attempted-and-failed rewrite.
// Callers treat Failed as non-fatal; tests can assert on it directly.
type Result struct {
	State State
	Err   error
}

var (
	inputPattern    = regexp.MustCompile(`\\input\{([^}]*/?modules/[^}]*)\}`)
	graphicsPattern = regexp.MustCompile(`(\\includegraphics(?:\[[^\]]*\])?\{)([^}]*modules/[^}]*)(\})`)
	docClassPattern = regexp.MustCompile(`\\documentclass\s*\{[^}]*resume[^}]*\}`)
)

// Rewriter re-anchors module references under a fixed resource root.
type Rewriter struct {
	root string
}

// New returns a Rewriter anchored at the given resource root.
func New(resourceRoot string) *Rewriter {
	return &Rewriter{root: resourceRoot}
}

// Apply rewrites the document at path in place. It is idempotent: a
// reference that is already absolute is left untouched, so running it
// twice produces byte-identical output.
func (rw *Rewriter) Apply(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{State: Failed, Err: err}
	}

	text := rw.Text(string(data))
	if text == string(data) {
		return Result{State: Unchanged}
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return Result{State: Failed, Err: err}
	}
	return Result{State: Rewritten}
}

// Text applies all rewrites to document text and returns the result.
func (rw *Rewriter) Text(text string) string {
	// The shared resume class is found via the toolchain search path, so
	// any decorated class reference collapses to the bare name.
	text = docClassPattern.ReplaceAllString(text, `\documentclass{resume}`)

	text = inputPattern.ReplaceAllStringFunc(text, func(match string) string {
		m := inputPattern.FindStringSubmatch(match)
		return `\input{` + rw.absify(m[1]) + `}`
	})

	text = graphicsPattern.ReplaceAllStringFunc(text, func(match string) string {
		m := graphicsPattern.FindStringSubmatch(match)
		return m[1] + rw.absify(m[2]) + m[3]
	})

	return text
}

// absify normalizes a referenced path: leading parent and current
// directory markers are stripped, then the remainder is re-anchored under
// the resource root and serialized with forward slashes. An already
// absolute path only gets cleaned, which keeps the rewrite idempotent.
func (rw *Rewriter) absify(ref string) string {
	rel := filepath.ToSlash(ref)
	for strings.HasPrefix(rel, "../") {
		rel = rel[3:]
	}
	rel = strings.TrimPrefix(rel, "./")

	if filepath.IsAbs(rel) {
		return filepath.ToSlash(filepath.Clean(rel))
	}
	return filepath.ToSlash(filepath.Join(rw.root, filepath.FromSlash(rel)))
}

package compile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obarouni/jobforge/internal/config"
)

// Fake toolchain binaries with test-unique names keep these tests
// independent of whatever TeX installation the host has.
const (
	fakePrimary  = "jobforge-test-latexmk"
	fakeFallback = "jobforge-test-pdflatex"
)

func testOrchestrator(t *testing.T) (*Orchestrator, string) {
	t.Helper()
	binDir := t.TempDir()
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	cfg := config.Defaults()
	cfg.ResourceRoot = t.TempDir()
	cfg.PrimaryTool = fakePrimary
	cfg.FallbackTool = fakeFallback
	cfg.CompileTimeoutSec = 10
	return New(&cfg), binDir
}

func installTool(t *testing.T, binDir, name, script string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\n"+script), 0755))
}

func stagedDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cv.tex")
	require.NoError(t, os.WriteFile(path, []byte(`\documentclass{resume}`), 0644))
	return path
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return strings.Count(string(data), "\n")
}

func TestCompile_PrimarySucceeds(t *testing.T) {
	o, binDir := testOrchestrator(t)
	fallbackCount := filepath.Join(t.TempDir(), "fallback.count")
	t.Setenv("FALLBACK_COUNT", fallbackCount)
	installTool(t, binDir, fakePrimary, `exit 0`)
	installTool(t, binDir, fakeFallback, `echo run >> "$FALLBACK_COUNT"; exit 0`)
	tex := stagedDoc(t)

	result := o.Compile(context.Background(), tex, Options{})

	assert.True(t, result.Success)
	assert.Equal(t, filepath.Join(filepath.Dir(tex), "cv.pdf"), result.PDFPath)
	assert.Equal(t, filepath.Join(filepath.Dir(tex), "cv.log"), result.LogPath)
	assert.Equal(t, 0, countLines(t, fallbackCount), "fallback must not run when the wrapper succeeds")
}

func TestCompile_MissingPrimaryFallsBack(t *testing.T) {
	o, binDir := testOrchestrator(t)
	countFile := filepath.Join(t.TempDir(), "fallback.count")
	t.Setenv("FALLBACK_COUNT", countFile)
	installTool(t, binDir, fakeFallback, `echo run >> "$FALLBACK_COUNT"; exit 0`)
	tex := stagedDoc(t)

	result := o.Compile(context.Background(), tex, Options{})

	assert.True(t, result.Success)
	assert.Equal(t, 2, countLines(t, countFile), "fallback runs exactly twice")
}

func TestCompile_FailedPrimaryFallsBack(t *testing.T) {
	o, binDir := testOrchestrator(t)
	countFile := filepath.Join(t.TempDir(), "fallback.count")
	t.Setenv("FALLBACK_COUNT", countFile)
	installTool(t, binDir, fakePrimary, `exit 1`)
	installTool(t, binDir, fakeFallback, `echo run >> "$FALLBACK_COUNT"; exit 0`)
	tex := stagedDoc(t)

	result := o.Compile(context.Background(), tex, Options{})

	assert.True(t, result.Success)
	assert.Equal(t, 2, countLines(t, countFile))
}

func TestCompile_SecondFallbackPassDecides(t *testing.T) {
	o, binDir := testOrchestrator(t)
	countFile := filepath.Join(t.TempDir(), "fallback.count")
	state := filepath.Join(t.TempDir(), "state")
	t.Setenv("FALLBACK_COUNT", countFile)
	t.Setenv("FALLBACK_STATE", state)
	// First pass fails with unresolved references; second pass converges.
	installTool(t, binDir, fakeFallback,
		`echo run >> "$FALLBACK_COUNT"
if [ -f "$FALLBACK_STATE" ]; then exit 0; fi
: > "$FALLBACK_STATE"
exit 1`)
	tex := stagedDoc(t)

	result := o.Compile(context.Background(), tex, Options{})

	assert.True(t, result.Success)
	assert.Equal(t, 2, countLines(t, countFile))
}

func TestCompile_AllToolsFailReportsDiagnostic(t *testing.T) {
	o, binDir := testOrchestrator(t)
	installTool(t, binDir, fakePrimary, `exit 1`)
	installTool(t, binDir, fakeFallback, `exit 1`)
	tex := stagedDoc(t)

	result := o.Compile(context.Background(), tex, Options{})

	assert.False(t, result.Success)
	assert.Empty(t, result.PDFPath)
	assert.Contains(t, result.Diagnostic, "check log")
	assert.Contains(t, result.Diagnostic, result.LogPath)
}

func TestCompile_NoToolsAvailable(t *testing.T) {
	o, _ := testOrchestrator(t)
	tex := stagedDoc(t)

	result := o.Compile(context.Background(), tex, Options{})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Diagnostic)
	assert.Equal(t, filepath.Join(filepath.Dir(tex), "cv.log"), result.LogPath)
}

func TestCompile_FailureKeepsLogWhenCleaning(t *testing.T) {
	o, binDir := testOrchestrator(t)
	installTool(t, binDir, fakePrimary, `exit 1`)
	installTool(t, binDir, fakeFallback, `exit 1`)
	tex := stagedDoc(t)
	dir := filepath.Dir(tex)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv.aux"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv.log"), []byte("error detail"), 0644))

	result := o.Compile(context.Background(), tex, Options{Clean: true})

	assert.False(t, result.Success)
	assert.NoFileExists(t, filepath.Join(dir, "cv.aux"))
	assert.FileExists(t, filepath.Join(dir, "cv.log"))
}

func TestCompile_SuccessCleansByproducts(t *testing.T) {
	o, binDir := testOrchestrator(t)
	installTool(t, binDir, fakePrimary, `exit 0`)
	tex := stagedDoc(t)
	dir := filepath.Dir(tex)
	for _, name := range []string{"cv.aux", "cv.out", "cv.log", "cv.fls", "cv.fdb_latexmk", "cv.synctex.gz"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	result := o.Compile(context.Background(), tex, Options{Clean: true})

	assert.True(t, result.Success)
	for _, name := range []string{"cv.aux", "cv.out", "cv.log", "cv.fls", "cv.fdb_latexmk", "cv.synctex.gz"} {
		assert.NoFileExists(t, filepath.Join(dir, name))
	}
	assert.FileExists(t, tex, "the staged source is never cleaned")
}

func TestCompile_TexInputsPropagated(t *testing.T) {
	o, binDir := testOrchestrator(t)
	envDump := filepath.Join(t.TempDir(), "env.dump")
	t.Setenv("ENV_DUMP", envDump)
	installTool(t, binDir, fakePrimary, `echo "$TEXINPUTS" > "$ENV_DUMP"; exit 0`)
	tex := stagedDoc(t)

	result := o.Compile(context.Background(), tex, Options{})

	require.True(t, result.Success)
	data, err := os.ReadFile(envDump)
	require.NoError(t, err)
	assert.Contains(t, string(data), o.texInputs)
}

func TestClean_RemovesJunkKeepsLog(t *testing.T) {
	dir := t.TempDir()
	tex := filepath.Join(dir, "cv.tex")
	for _, name := range []string{"cv.tex", "cv.aux", "cv.toc", "cv.log", "cv.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	Clean(tex, true)

	assert.NoFileExists(t, filepath.Join(dir, "cv.aux"))
	assert.NoFileExists(t, filepath.Join(dir, "cv.toc"))
	assert.FileExists(t, filepath.Join(dir, "cv.log"))
	assert.FileExists(t, filepath.Join(dir, "cv.pdf"))
	assert.FileExists(t, tex)
}

func TestClean_DoesNotMutateJunkList(t *testing.T) {
	before := len(junkExtensions)

	Clean(filepath.Join(t.TempDir(), "cv.tex"), false)
	Clean(filepath.Join(t.TempDir(), "cv.tex"), false)

	assert.Len(t, junkExtensions, before)
	assert.NotContains(t, junkExtensions, ".log")
}

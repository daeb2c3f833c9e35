// Package compile drives the external LaTeX toolchain to turn staged
// documents into PDFs.
package compile

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/obarouni/jobforge/internal/config"
	"github.com/obarouni/jobforge/internal/types"
	"github.com/obarouni/jobforge/internal/viewer"
)

// fallbackPasses is how many times the base compiler runs when the build
// wrapper is unavailable. Two unconditional passes resolve most
// forward-reference constructs (tables of contents, labels) without a
// full dependency-convergence loop.
const fallbackPasses = 2

// Options controls post-compile behavior for one invocation.
type Options struct {
	OpenPDF bool
	Clean   bool
}

// Orchestrator invokes the toolchain with a two-tier strategy: the
// dependency-aware wrapper first, then the base compiler run twice.
// Every invocation executes in the staged document's folder with the
// shared resource root prepended to the input search path, and is bounded
// by a timeout so a hung toolchain cannot stall a worker forever.
type Orchestrator struct {
	primary   string
	fallback  string
	texInputs string
	timeout   time.Duration
}

// New builds an Orchestrator from the pipeline configuration.
func New(cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		primary:   cfg.PrimaryTool,
		fallback:  cfg.FallbackTool,
		texInputs: cfg.TexInputsDir(),
		timeout:   cfg.CompileTimeout(),
	}
}

// Compile produces a PDF next to the staged document. It never returns an
// error: any failure is reported inside the CompilationResult, with
// LogPath always populated even when the log might not exist. Child
// process output is discarded; only exit codes and the compiler's own log
// matter.
func (o *Orchestrator) Compile(ctx context.Context, texPath string, opts Options) types.CompilationResult {
	dir := filepath.Dir(texPath)
	base := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))
	pdfPath := filepath.Join(dir, base+".pdf")
	logPath := filepath.Join(dir, base+".log")

	env := append(os.Environ(),
		"TEXINPUTS="+o.texInputs+string(os.PathListSeparator)+os.Getenv("TEXINPUTS"))

	if !o.tryPrimary(ctx, dir, base, env) {
		rc, err := o.runFallback(ctx, dir, base, env)
		if err != nil || rc != 0 {
			diagnostic := fmt.Sprintf("%s failed", o.fallback)
			if err != nil {
				diagnostic = err.Error()
			}
			if opts.Clean {
				Clean(texPath, true)
			}
			return types.CompilationResult{
				Success:    false,
				LogPath:    logPath,
				Diagnostic: fmt.Sprintf("%s — check log: %s", diagnostic, logPath),
			}
		}
	}

	if opts.Clean {
		Clean(texPath, false)
	}
	if opts.OpenPDF {
		viewer.OpenFile(pdfPath)
	}

	return types.CompilationResult{
		Success:   true,
		PDFPath:   pdfPath,
		LogPath:   logPath,
		PageCount: pageCount(pdfPath),
	}
}

// tryPrimary runs the build wrapper once. False means unavailable or
// failed, and the caller falls back to the base compiler.
func (o *Orchestrator) tryPrimary(ctx context.Context, dir, base string, env []string) bool {
	if _, err := exec.LookPath(o.primary); err != nil {
		return false
	}

	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, o.primary, "-pdf", "-silent", base+".tex")
	cmd.Dir = dir
	cmd.Env = env
	return cmd.Run() == nil
}

// runFallback runs the base compiler exactly twice regardless of the
// first pass's exit code and reports the second pass's status.
func (o *Orchestrator) runFallback(ctx context.Context, dir, base string, env []string) (int, error) {
	rc := 0
	for i := 0; i < fallbackPasses; i++ {
		cctx, cancel := context.WithTimeout(ctx, o.timeout)
		cmd := exec.CommandContext(cctx, o.fallback, "-interaction=nonstopmode", base+".tex")
		cmd.Dir = dir
		cmd.Env = env
		err := cmd.Run()
		cancel()

		switch e := err.(type) {
		case nil:
			rc = 0
		case *exec.ExitError:
			rc = e.ExitCode()
		default:
			// Tool missing or unstartable; no point in a second pass.
			return 0, fmt.Errorf("failed to run %s: %w", o.fallback, err)
		}
	}
	return rc, nil
}

// pageCount reads the produced PDF's page count. Best-effort: a PDF the
// inspector cannot read reports zero pages rather than failing the
// compile.
func pageCount(pdfPath string) int {
	n, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0
	}
	return n
}

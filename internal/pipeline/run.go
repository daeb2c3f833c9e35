// Package pipeline provides the high-level orchestration for one
// document-generation request: folder creation, staging, path rewriting,
// marker injection, compilation, and cleanup, strictly in that order.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/obarouni/jobforge/internal/compile"
	"github.com/obarouni/jobforge/internal/config"
	"github.com/obarouni/jobforge/internal/history"
	"github.com/obarouni/jobforge/internal/inject"
	"github.com/obarouni/jobforge/internal/jobfolder"
	"github.com/obarouni/jobforge/internal/joblink"
	"github.com/obarouni/jobforge/internal/registry"
	"github.com/obarouni/jobforge/internal/rewrite"
	"github.com/obarouni/jobforge/internal/templates"
	"github.com/obarouni/jobforge/internal/types"
	"github.com/obarouni/jobforge/internal/viewer"
)

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// Options holds everything one run needs. Registry and Resolver are
// populated once at startup and shared read-only between workers.
type Options struct {
	RunID        string // Optional; assigned when empty
	Config       *config.Config
	Registry     *registry.Registry
	Resolver     *templates.Resolver
	History      RunRecorder // Optional
	Request      types.JobRequest
	FetchPosting bool // Fetch the job link to enrich the notes file
	UseBrowser   bool // Headless rendering fallback for SPA posting pages
	OnProgress   ProgressCallback
}

// RunRecorder persists finished runs. Satisfied by *history.Store;
// tests substitute an in-memory recorder.
type RunRecorder interface {
	Record(ctx context.Context, r history.Run) error
}

// Run executes one end-to-end generation request on the calling
// goroutine. Every failure is reported through the returned Outcome;
// nothing unwinds past this boundary. The job folder, once created, is
// never deleted — partial state stays on disk for inspection and retry.
func Run(ctx context.Context, opts Options) *types.Outcome {
	outcome := &types.Outcome{
		RunID:     opts.RunID,
		StartedAt: time.Now().UTC(),
	}
	if outcome.RunID == "" {
		outcome.RunID = uuid.NewString()
	}
	defer func() { outcome.FinishedAt = time.Now().UTC() }()

	emit := func(step, message string) {
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressEvent{Step: step, Message: message})
		}
	}

	req := opts.Request
	if err := req.Validate(); err != nil {
		outcome.Err = fmt.Sprintf("invalid request: %v", err)
		return outcome
	}

	emit("folder", fmt.Sprintf("Creating job folder for %s / %s", req.Company, req.Role))
	manager := jobfolder.NewManager(opts.Config.JobsAbs())
	folder, err := manager.Create(req.Company, req.Role)
	if err != nil {
		outcome.Err = err.Error()
		return outcome
	}
	outcome.Folder = folder

	// Notes are a best-effort companion record; the posting fetch that
	// enriches them doubly so.
	notes := jobfolder.Notes{Company: req.Company, Role: req.Role, JobLink: req.JobLink}
	if opts.FetchPosting {
		emit("posting", "Fetching job posting page")
		fetchOpts := joblink.DefaultOptions()
		fetchOpts.UseBrowser = opts.UseBrowser
		if posting, err := joblink.Fetch(ctx, req.JobLink, fetchOpts); err == nil {
			notes.PostingTitle = posting.Title
			notes.PostingExcerpt = posting.Excerpt
		} else {
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("could not fetch job posting: %v", err))
		}
	}
	if err := jobfolder.WriteNotes(folder, notes); err != nil {
		outcome.Warnings = append(outcome.Warnings,
			fmt.Sprintf("could not write notes file: %v", err))
	}

	rewriter := rewrite.New(opts.Config.ResourceRoot)
	orchestrator := compile.New(opts.Config)

	emit("cv", "Generating CV")
	outcome.CV = runDocument(ctx, documentJob{
		kind:         types.KindCV,
		category:     req.Category,
		destName:     opts.Config.CVFileName,
		folder:       folder,
		manager:      manager,
		resolver:     opts.Resolver,
		rewriter:     rewriter,
		orchestrator: orchestrator,
		compileOpts:  compile.Options{OpenPDF: req.OpenPDF, Clean: req.Clean},
		doCompile:    req.Compile,
		inject: func(staged string) (*inject.Result, error) {
			return inject.CV(staged, req.Summary, req.SummaryRaw, req.ModuleIDs, opts.Registry.PathFor)
		},
	}, outcome)

	if req.WantsCoverLetter {
		emit("cover_letter", "Generating cover letter")
		outcome.CoverLetter = runDocument(ctx, documentJob{
			kind:         types.KindCoverLetter,
			category:     req.Category,
			destName:     opts.Config.CoverLetterFileName,
			folder:       folder,
			manager:      manager,
			resolver:     opts.Resolver,
			rewriter:     rewriter,
			orchestrator: orchestrator,
			compileOpts:  compile.Options{OpenPDF: req.OpenPDF, Clean: req.Clean},
			doCompile:    req.Compile,
			inject: func(staged string) (*inject.Result, error) {
				return inject.CoverLetter(staged, req.CoverLetterBody)
			},
		}, outcome)
	}

	if opts.History != nil {
		record := history.Run{
			Company: req.Company,
			Role:    req.Role,
			Folder:  folder,
			Message: outcome.Err,
		}
		if id, err := uuid.Parse(outcome.RunID); err == nil {
			record.ID = id
		}
		if outcome.CV != nil {
			record.CVOK = outcome.CV.Err == ""
			if outcome.CV.Compilation != nil {
				record.PDFPath = outcome.CV.Compilation.PDFPath
			}
		}
		if outcome.CoverLetter != nil {
			ok := outcome.CoverLetter.Err == ""
			record.CoverOK = &ok
		}
		if err := opts.History.Record(ctx, record); err != nil {
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("could not record run history: %v", err))
		}
	}

	if req.OpenFolder {
		viewer.OpenFolder(folder)
	}

	emit("done", "Generation finished")
	return outcome
}

// documentJob bundles the per-document steps: resolve, stage, rewrite,
// inject, compile. The injector differs per kind; everything else is
// shared.
type documentJob struct {
	kind         types.DocumentKind
	category     string
	destName     string
	folder       string
	manager      *jobfolder.Manager
	resolver     *templates.Resolver
	rewriter     *rewrite.Rewriter
	orchestrator *compile.Orchestrator
	compileOpts  compile.Options
	doCompile    bool
	inject       func(staged string) (*inject.Result, error)
}

// runDocument executes the sequential steps for one staged document. A
// resolution or staging failure is fatal to this document only; the
// sibling is unaffected.
func runDocument(ctx context.Context, job documentJob, outcome *types.Outcome) *types.DocumentResult {
	doc := &types.DocumentResult{Kind: job.kind}

	templatePath, err := job.resolver.Resolve(job.kind, job.category)
	if err != nil {
		doc.Err = err.Error()
		return doc
	}

	staged, err := job.manager.Stage(templatePath, job.folder, job.destName)
	if err != nil {
		doc.Err = err.Error()
		return doc
	}
	doc.TexPath = staged

	// Best-effort: a failed rewrite leaves the file compilable via the
	// search-path environment the orchestrator sets anyway.
	if res := job.rewriter.Apply(staged); res.State == rewrite.Failed {
		outcome.Warnings = append(outcome.Warnings,
			fmt.Sprintf("%s: path rewrite failed: %v", job.kind, res.Err))
	}

	injectResult, err := job.inject(staged)
	if err != nil {
		doc.Err = err.Error()
		return doc
	}
	for _, w := range injectResult.Warnings {
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("%s: %s", job.kind, w))
	}

	if job.doCompile {
		result := job.orchestrator.Compile(ctx, staged, job.compileOpts)
		doc.Compilation = &result
	}
	return doc
}

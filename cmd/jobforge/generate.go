package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obarouni/jobforge/internal/pipeline"
	"github.com/obarouni/jobforge/internal/types"
)

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tailored CV (and optional cover letter) for one application",
	Long: `Creates a per-company/per-role job folder, stages the resolved templates
into it, rewrites shared-module references to absolute paths, injects the
summary and selected modules at the template markers, and compiles the
result to PDF with latexmk (falling back to two pdflatex passes).`,
	RunE: runGenerate,
}

var (
	genConfigPath   string
	genResourceRoot string
	genJobsRoot     string
	genCategory     string
	genCompany      string
	genRole         string
	genLink         string
	genSummary      string
	genSummaryFile  string
	genRaw          bool
	genModules      []string
	genCoverFile    string
	genNoCompile    bool
	genNoClean      bool
	genOpen         bool
	genOpenFolder   bool
	genFetchPosting bool
	genUseBrowser   bool
)

func init() {
	generateCommand.Flags().StringVar(&genConfigPath, "config", "", "Path to config file (JSON or YAML; values can be overridden by other flags)")
	generateCommand.Flags().StringVar(&genResourceRoot, "resource-root", "", "Base directory holding templates and modules (default: $JOBFORGE_RESOURCE_ROOT or cwd)")
	generateCommand.Flags().StringVar(&genJobsRoot, "jobs-root", "", "Directory job folders are created under")

	generateCommand.Flags().StringVarP(&genCategory, "category", "t", "", "Document category (selects the template candidates)")
	generateCommand.Flags().StringVarP(&genCompany, "company", "c", "", "Company name")
	generateCommand.Flags().StringVarP(&genRole, "role", "r", "", "Role title")
	generateCommand.Flags().StringVarP(&genLink, "link", "l", "", "Job posting link")
	generateCommand.Flags().StringVarP(&genSummary, "summary", "s", "", "Summary text injected into the CV")
	generateCommand.Flags().StringVar(&genSummaryFile, "summary-file", "", "Read the summary from a file instead of --summary")
	generateCommand.Flags().BoolVar(&genRaw, "raw", false, "Inject the summary verbatim without LaTeX escaping")
	generateCommand.Flags().StringSliceVarP(&genModules, "modules", "m", nil, "Selected content module ids, in output order")
	generateCommand.Flags().StringVar(&genCoverFile, "cover-letter-file", "", "Generate a cover letter with its body read from this file")

	generateCommand.Flags().BoolVar(&genNoCompile, "no-compile", false, "Stage and inject only; skip PDF compilation")
	generateCommand.Flags().BoolVar(&genNoClean, "no-clean", false, "Keep transient compiler byproducts")
	generateCommand.Flags().BoolVar(&genOpen, "open", false, "Open the compiled PDF in the default viewer")
	generateCommand.Flags().BoolVar(&genOpenFolder, "open-folder", false, "Open the job folder when finished")
	generateCommand.Flags().BoolVar(&genFetchPosting, "fetch-posting", false, "Fetch the job link to enrich the notes file")
	generateCommand.Flags().BoolVar(&genUseBrowser, "use-browser", false, "Use a headless browser for SPA posting pages (requires Chrome)")

	rootCmd.AddCommand(generateCommand)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, genConfigPath, genResourceRoot, genJobsRoot)
	if err != nil {
		return err
	}

	reg, resolver, err := loadComponents(cfg)
	if err != nil {
		return err
	}

	summary := genSummary
	if genSummaryFile != "" {
		data, err := os.ReadFile(genSummaryFile)
		if err != nil {
			return fmt.Errorf("failed to read summary file: %w", err)
		}
		summary = string(data)
	}

	req := types.JobRequest{
		Category:   genCategory,
		Company:    genCompany,
		Role:       genRole,
		JobLink:    genLink,
		Summary:    summary,
		SummaryRaw: genRaw,
		ModuleIDs:  genModules,
		Compile:    !genNoCompile,
		Clean:      !genNoClean,
		OpenPDF:    genOpen,
		OpenFolder: genOpenFolder,
	}
	if genCoverFile != "" {
		body, err := os.ReadFile(genCoverFile)
		if err != nil {
			return fmt.Errorf("failed to read cover letter file: %w", err)
		}
		req.WantsCoverLetter = true
		req.CoverLetterBody = string(body)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	store := openHistory(cfg)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	opts := pipeline.Options{
		Config:       cfg,
		Registry:     reg,
		Resolver:     resolver,
		Request:      req,
		FetchPosting: genFetchPosting,
		UseBrowser:   genUseBrowser,
		OnProgress: func(ev pipeline.ProgressEvent) {
			fmt.Printf("[%s] %s\n", ev.Step, ev.Message)
		},
	}
	if store != nil {
		opts.History = store
	}

	outcome := pipeline.Run(ctx, opts)
	printOutcome(outcome)

	if !outcome.Success() {
		return fmt.Errorf("generation failed")
	}
	return nil
}

func printOutcome(outcome *types.Outcome) {
	if outcome.Folder != "" {
		fmt.Printf("Job folder: %s\n", outcome.Folder)
	}
	for _, doc := range []*types.DocumentResult{outcome.CV, outcome.CoverLetter} {
		if doc == nil {
			continue
		}
		if doc.Err != "" {
			fmt.Printf("%s: FAILED: %s\n", doc.Kind, doc.Err)
			continue
		}
		fmt.Printf("%s: staged at %s\n", doc.Kind, doc.TexPath)
		if doc.Compilation != nil {
			if doc.Compilation.Success {
				fmt.Printf("%s: compiled to %s (%d pages)\n", doc.Kind, doc.Compilation.PDFPath, doc.Compilation.PageCount)
			} else {
				fmt.Printf("%s: compile failed: %s\n", doc.Kind, doc.Compilation.Diagnostic)
			}
		}
	}
	for _, w := range outcome.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	if outcome.Err != "" {
		fmt.Printf("Error: %s\n", strings.TrimSpace(outcome.Err))
	}
}

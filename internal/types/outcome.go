package types

import "time"

// CompilationResult reports one compile attempt. LogPath is always set
// so callers can point users at the compiler log on failure.
type CompilationResult struct {
	Success    bool   `json:"success"`
	PDFPath    string `json:"pdf_path,omitempty"`
	LogPath    string `json:"log_path,omitempty"`
	PageCount  int    `json:"page_count,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// DocumentResult holds the outcome of one staged document. Err is set
// when resolution, staging, or injection failed; a compile failure is
// reported inside Compilation instead.
type DocumentResult struct {
	Kind        DocumentKind       `json:"kind"`
	TexPath     string             `json:"tex_path,omitempty"`
	Err         string             `json:"error,omitempty"`
	Compilation *CompilationResult `json:"compilation,omitempty"`
}

// Outcome is the full result of one pipeline run.
type Outcome struct {
	RunID       string          `json:"run_id"`
	Folder      string          `json:"folder,omitempty"`
	CV          *DocumentResult `json:"cv,omitempty"`
	CoverLetter *DocumentResult `json:"cover_letter,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
	Err         string          `json:"error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
}

// Success reports whether the run produced its staged documents. A
// compile failure leaves the staged sources usable, so it does not
// count against the run itself.
func (o *Outcome) Success() bool {
	if o.Err != "" {
		return false
	}
	if o.CV == nil || o.CV.Err != "" {
		return false
	}
	if o.CoverLetter != nil && o.CoverLetter.Err != "" {
		return false
	}
	return true
}

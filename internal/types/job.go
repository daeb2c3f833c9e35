// Package types defines the shared request and result structures passed
// between the CLI, the HTTP API, and the generation pipeline.
package types

import (
	"github.com/go-playground/validator/v10"
)

// DocumentKind identifies which staged document a step operates on.
type DocumentKind string

const (
	KindCV          DocumentKind = "cv"
	KindCoverLetter DocumentKind = "cover_letter"
)

// ContentModule is one reusable LaTeX fragment known to the registry.
type ContentModule struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// JobRequest describes one generation request. It is accepted verbatim
// from the HTTP API body and assembled from flags by the CLI.
type JobRequest struct {
	Category string `json:"category" validate:"required"`
	Company  string `json:"company" validate:"required"`
	Role     string `json:"role" validate:"required"`
	JobLink  string `json:"job_link,omitempty"`

	Summary    string `json:"summary" validate:"required"`
	SummaryRaw bool   `json:"summary_raw,omitempty"`

	ModuleIDs []string `json:"module_ids" validate:"min=1,dive,required"`

	WantsCoverLetter bool   `json:"wants_cover_letter,omitempty"`
	CoverLetterBody  string `json:"cover_letter_body,omitempty" validate:"required_if=WantsCoverLetter true"`

	Compile    bool `json:"compile"`
	Clean      bool `json:"clean"`
	OpenPDF    bool `json:"open_pdf,omitempty"`
	OpenFolder bool `json:"open_folder,omitempty"`
}

var validate = validator.New()

// Validate checks the request against its declared constraints.
func (r *JobRequest) Validate() error {
	return validate.Struct(r)
}

package jobfolder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NotesFileName is the plain-text job record written alongside the staged
// documents.
const NotesFileName = "job-notes.md"

// Notes captures the human-readable record of one application. The
// posting fields are filled only when the job link could be fetched.
type Notes struct {
	Company        string
	Role           string
	JobLink        string
	PostingTitle   string
	PostingExcerpt string
}

// WriteNotes writes the companion notes file into the job folder.
// Callers treat a failure as non-fatal; it must not abort the pipeline.
func WriteNotes(folder string, n Notes) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Job Application Notes - %s\n\n", n.Company)
	fmt.Fprintf(&b, "**Role:** %s\n", n.Role)
	fmt.Fprintf(&b, "**Job Link:** %s\n", n.JobLink)
	if n.PostingTitle != "" {
		fmt.Fprintf(&b, "\n## Posting\n\n**Title:** %s\n", n.PostingTitle)
		if n.PostingExcerpt != "" {
			fmt.Fprintf(&b, "\n%s\n", n.PostingExcerpt)
		}
	}
	return os.WriteFile(filepath.Join(folder, NotesFileName), []byte(b.String()), 0644)
}

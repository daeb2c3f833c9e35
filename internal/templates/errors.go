// Package templates resolves the best-available template file for a document kind and category.
package templates

import (
	"fmt"

	"github.com/obarouni/jobforge/internal/types"
)

// NotFoundError indicates that no candidate template exists for the
// requested kind and category. Fatal to that document's generation; a
// sibling document is unaffected.
type NotFoundError struct {
	Kind     types.DocumentKind
	Category string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s template found for category %q", e.Kind, e.Category)
}

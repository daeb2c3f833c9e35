package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/obarouni/jobforge/internal/config"
	"github.com/obarouni/jobforge/internal/types"
)

// genericCategory keys the cover-letter fallback candidates used when no
// category-specific template exists.
const genericCategory = "*"

// Resolver holds the prioritized template candidate lists per document
// kind and category. Lists are built once at construction, newest version
// first, and are immutable at runtime.
type Resolver struct {
	cv    map[string][]string
	cover map[string][]string
}

// NewResolver builds the candidate tables from the configured categories.
// For each category the versioned file is probed before the legacy
// unversioned one, so rewritten templates that follow current marker
// conventions win without breaking older category configurations.
func NewResolver(cfg *config.Config) *Resolver {
	base := filepath.Join(cfg.ResourceRoot, "base")

	r := &Resolver{
		cv:    make(map[string][]string),
		cover: make(map[string][]string),
	}
	for _, cat := range cfg.Categories {
		r.cv[cat] = []string{
			filepath.Join(base, fmt.Sprintf("template_%s_v1.tex", cat)),
			filepath.Join(base, fmt.Sprintf("template_%s.tex", cat)),
		}
		r.cover[cat] = []string{
			filepath.Join(base, fmt.Sprintf("cover_letter_%s_v1.tex", cat)),
			filepath.Join(base, fmt.Sprintf("cover_letter_%s.tex", cat)),
		}
	}
	r.cover[genericCategory] = []string{
		filepath.Join(base, "cover_letter_v1.tex"),
		filepath.Join(base, "cover_letter.tex"),
	}
	return r
}

// Resolve returns the first existing candidate for the kind and category.
// Cover letters additionally fall back to the generic candidate list.
func (r *Resolver) Resolve(kind types.DocumentKind, category string) (string, error) {
	table := r.cv
	if kind == types.KindCoverLetter {
		table = r.cover
	}

	if path, ok := firstExisting(table[category]); ok {
		return path, nil
	}
	if kind == types.KindCoverLetter {
		if path, ok := firstExisting(table[genericCategory]); ok {
			return path, nil
		}
	}
	return "", &NotFoundError{Kind: kind, Category: category}
}

func firstExisting(candidates []string) (string, bool) {
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, true
		}
	}
	return "", false
}

package compile

import (
	"os"
	"path/filepath"
	"strings"
)

// junkExtensions are the transient compiler byproducts removed after a
// compile. The log is handled separately: diagnosability takes priority
// over tidiness when something went wrong.
var junkExtensions = []string{".aux", ".out", ".toc", ".fls", ".fdb_latexmk", ".synctex.gz"}

// Clean removes compiler byproducts alongside the staged document. The
// log file is removed only when keepLog is false. Missing files and
// deletion failures are silently ignored; cleanup is best-effort and
// never blocks the reported pipeline outcome.
func Clean(texPath string, keepLog bool) {
	dir := filepath.Dir(texPath)
	base := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))

	exts := junkExtensions
	if !keepLog {
		exts = append(append([]string{}, junkExtensions...), ".log")
	}
	for _, ext := range exts {
		_ = os.Remove(filepath.Join(dir, base+ext))
	}
}

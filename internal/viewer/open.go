// Package viewer hands compiled artifacts to the host's default-open
// mechanism. Both calls are fire-and-forget with no return contract;
// failing to open a successfully generated document is never an error.
package viewer

import (
	"os/exec"
	"runtime"
)

// OpenFile opens a file (typically a PDF) with the host's default viewer.
func OpenFile(path string) {
	open(path)
}

// OpenFolder opens a directory in the host's file browser.
func OpenFolder(path string) {
	open(path)
}

func open(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	_ = cmd.Start()
}

package inject

import (
	"fmt"
	"strings"
)

// MissingModuleError reports every selected module id that does not
// resolve to an existing file. Injection performs no write when it is
// returned.
type MissingModuleError struct {
	Missing []string
}

func (e *MissingModuleError) Error() string {
	return fmt.Sprintf("missing module files for ids: %s", strings.Join(e.Missing, ", "))
}

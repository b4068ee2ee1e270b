package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/configkit/ddmigrate/pkg/errors"
	"github.com/configkit/ddmigrate/pkg/reconcile"
)

const auditRule = 70

// WriteAudit writes the audit log of one run to path: a header naming
// the converted file, one line per entry, and a completion footer. The
// file is overwritten on each run.
func WriteAudit(path, docName string, log *reconcile.Log) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapIO("creating directory", filepath.Dir(path), err)
	}

	var b strings.Builder
	now := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(&b, "Conversion Log for: %s\n", docName)
	fmt.Fprintf(&b, "Started: %s\n", now)
	b.WriteString(strings.Repeat("=", auditRule) + "\n\n")

	for _, entry := range log.Entries() {
		b.WriteString(entry.String() + "\n")
	}

	b.WriteString("\n" + strings.Repeat("=", auditRule) + "\n")
	fmt.Fprintf(&b, "Completed: %s\n", time.Now().Format("2006-01-02 15:04:05"))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.WrapIO("writing", path, err)
	}
	return nil
}

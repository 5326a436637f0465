// Package report renders an import report as a standalone HTML page that
// can be attached to a ticket or opened from the job's working directory.
// The components live in report.templ; run `templ generate` after editing it.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/stockimport/internal/catalog"
)

// WriteHTML renders the report to path, creating parent directories.
func WriteHTML(ctx context.Context, path string, r *catalog.Report) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := Page(r).Render(ctx, f); err != nil {
		f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	return f.Close()
}

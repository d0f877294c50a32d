// Package ingest reads tabular files into Tables. Every ingestor checks
// that its source exists before handing the path to any reader, so a
// missing file always surfaces as a DataNotFoundError.
package ingest

import (
	"os"

	"github.com/pipetab/pipetab/pkg/errs"
)

// statSource verifies the source path points at a regular file.
func statSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errs.NewDataNotFound(path)
	}
	if info.IsDir() {
		return errs.NewDataNotFound(path)
	}
	return nil
}

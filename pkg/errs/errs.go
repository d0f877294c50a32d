// Package errs defines the error taxonomy shared by every pipeline stage.
// Errors are typed so callers can branch with errors.As; cockroachdb/errors
// supplies stack traces and wrapping.
package errs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// DataNotFoundError reports backing data (a file, a table) that does not
// exist. Fatal to the ingest call; never retried.
type DataNotFoundError struct {
	Path string
}

func (e *DataNotFoundError) Error() string {
	return fmt.Sprintf("data not found: %s", e.Path)
}

// NewDataNotFound creates a DataNotFoundError with a stack trace.
func NewDataNotFound(path string) error {
	return errors.WithStack(&DataNotFoundError{Path: path})
}

// ColumnNotFoundError reports requested columns absent from a table.
// Columns are sorted so the message is deterministic.
type ColumnNotFoundError struct {
	Op      string
	Columns []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, MissingColumnsMessage(e.Columns))
}

// NewColumnNotFound creates a ColumnNotFoundError for op over the given
// missing columns.
func NewColumnNotFound(op string, columns []string) error {
	return errors.WithStack(&ColumnNotFoundError{Op: op, Columns: sortedCopy(columns)})
}

// MissingColumnsMessage renders the shared count-plus-sorted-names message
// used both by ColumnNotFoundError and by the warn-policy diagnostic.
func MissingColumnsMessage(columns []string) string {
	cols := sortedCopy(columns)
	return fmt.Sprintf("%d missing column(s): %s", len(cols), strings.Join(cols, ", "))
}

// ColumnExistsError is the symmetric case: an operation would create a
// column that already exists.
type ColumnExistsError struct {
	Op      string
	Columns []string
}

func (e *ColumnExistsError) Error() string {
	cols := sortedCopy(e.Columns)
	return fmt.Sprintf("%s: %d existing column(s): %s", e.Op, len(cols), strings.Join(cols, ", "))
}

// NewColumnExists creates a ColumnExistsError for op over the colliding
// column names.
func NewColumnExists(op string, columns []string) error {
	return errors.WithStack(&ColumnExistsError{Op: op, Columns: sortedCopy(columns)})
}

// NotFittedError reports Transform called on a transformer that requires a
// prior Fit.
type NotFittedError struct {
	Transformer string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: transform called before fit", e.Transformer)
}

// NewNotFitted creates a NotFittedError for the named transformer.
func NewNotFitted(transformer string) error {
	return errors.WithStack(&NotFittedError{Transformer: transformer})
}

// InstantiationError reports a configuration record that could not be
// turned into a component: unknown target, undecodable arguments, or a
// constructor failure. The cause is preserved, never masked.
type InstantiationError struct {
	Target string
	Cause  error
}

func (e *InstantiationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot instantiate %q: %v", e.Target, e.Cause)
	}
	return fmt.Sprintf("cannot instantiate %q", e.Target)
}

func (e *InstantiationError) Unwrap() error { return e.Cause }

// NewInstantiation creates an InstantiationError wrapping cause.
func NewInstantiation(target string, cause error) error {
	return errors.WithStack(&InstantiationError{Target: target, Cause: cause})
}

// IsColumnNotFound reports whether err is (or wraps) a ColumnNotFoundError.
func IsColumnNotFound(err error) bool {
	var cnf *ColumnNotFoundError
	return errors.As(err, &cnf)
}

// IsDataNotFound reports whether err is (or wraps) a DataNotFoundError.
func IsDataNotFound(err error) bool {
	var dnf *DataNotFoundError
	return errors.As(err, &dnf)
}

// IsNotFitted reports whether err is (or wraps) a NotFittedError.
func IsNotFitted(err error) bool {
	var nf *NotFittedError
	return errors.As(err, &nf)
}

func sortedCopy(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}

package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/ignite/influencer-roi/internal/domain"
)

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidValue  = errors.New("invalid value")
	ErrUnknownSource = errors.New("unknown data source")
)

// SchemaError reports a structurally invalid input table. Line is the
// 1-based line of the offending record, or 0 for header problems.
type SchemaError struct {
	Table   domain.TableName
	Columns []string
	Line    int
	Value   string
	Err     error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v", e.Table, e.Err)
	if len(e.Columns) > 0 {
		fmt.Fprintf(&b, " %s", strings.Join(e.Columns, ", "))
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " on line %d", e.Line)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": %q", e.Value)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsSchemaError reports whether err is a load-time schema problem that the
// caller can fix by correcting the input. Malformed CSV counts.
func IsSchemaError(err error) bool {
	var se *SchemaError
	var pe *csv.ParseError
	return errors.As(err, &se) || errors.As(err, &pe) || errors.Is(err, ErrEmptyFile)
}

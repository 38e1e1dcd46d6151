package wavefront

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed reports a directive with missing or non-numeric fields.
	ErrMalformed = errors.New("malformed directive")

	// ErrIndexRange reports a face referencing a vertex that has not been
	// declared yet.
	ErrIndexRange = errors.New("vertex index out of range")

	// ErrDegenerateMesh reports a mesh whose bounding box has no extent, so
	// it cannot be scaled into the unit cube.
	ErrDegenerateMesh = errors.New("degenerate mesh: zero bounding box extent")
)

// ParseError locates a failed directive in the source text.
type ParseError struct {
	Line    int
	Keyword string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Keyword, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseError(l Line, format string, args ...any) error {
	return &ParseError{Line: l.Num, Keyword: l.Name, Err: fmt.Errorf(format, args...)}
}

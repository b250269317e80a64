package domain

import (
	"errors"
	"fmt"
)

// Pipeline-halting input errors. Everything else in the core degrades to a
// structured partial result instead of propagating.
var (
	ErrNoSource       = errors.New("no source provided")
	ErrSourceTooLarge = errors.New("source exceeds maximum size")
)

// SyntaxError reports a parse failure with the exact failing position as
// seen by the parser. It halts the pipeline: no style or test stages run
// against unparseable source.
type SyntaxError struct {
	Line    int
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, offset %d: %s", e.Line, e.Offset, e.Message)
}

// AsSyntaxError unwraps err into a *SyntaxError if it is one.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

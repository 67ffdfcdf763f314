package blocks

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedDocument means the top-level shape is not {blocks: [...]}.
	ErrMalformedDocument = errors.New("malformed document: expected an object with a blocks array")
	// ErrInvalidPayload means a known block's data does not fit its variant.
	ErrInvalidPayload = errors.New("invalid block data")
	// ErrInvalidTune means a known tune's settings could not be read.
	ErrInvalidTune = errors.New("invalid block tune")
	// ErrTooDeep means nested columns exceed the allowed depth.
	ErrTooDeep = errors.New("columns nested too deeply")
)

// ValidationError reports a block whose data violates its variant's shape.
// It is recoverable: the block is kept as passthrough.
type ValidationError struct {
	Path  string
	Type  Type
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s block", e.Type)
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidationErrors collects the per-block problems found while decoding a
// document. None of them is fatal.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Err returns v as an error, or nil when empty.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

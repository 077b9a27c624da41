package decoder

import (
	"errors"
	"fmt"
)

var (
	ErrMissingPrefix    = errors.New("missing line prefix")
	ErrMissingSeparator = errors.New("missing '=' separator")
	ErrMissingPayload   = errors.New("missing quoted payload")
	ErrEmptyIdentity    = errors.New("empty code or name")
	ErrFieldAbsent      = errors.New("field absent")
	ErrNegativeVolume   = errors.New("negative volume")
	ErrUnknownSymbol    = errors.New("symbol not recognised by vendor")
	ErrNumberFormat     = errors.New("not a plain decimal number")
)

// FieldError reports a token that could not be coerced to its field's type.
type FieldError struct {
	Field string
	Pos   int
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s at position %d (%q): %v", e.Field, e.Pos, e.Raw, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// DecodeError is the single error reported for a line that produced no quote.
// Line holds the identifier when it could be extracted, the raw text otherwise.
// Pos is -1 when the failure is not tied to a token.
type DecodeError struct {
	Line  string
	Pos   int
	Field string
	Raw   string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decoding %q: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("decoding %q: field %s at position %d (%q): %v", e.Line, e.Field, e.Pos, e.Raw, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func lineError(line string, err error) *DecodeError {
	return &DecodeError{Line: line, Pos: -1, Err: err}
}

func fieldLineError(line string, fe *FieldError) *DecodeError {
	return &DecodeError{Line: line, Pos: fe.Pos, Field: fe.Field, Raw: fe.Raw, Err: fe.Err}
}

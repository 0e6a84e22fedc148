package decode

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEOF means a read asked for more bytes than remained.
	ErrUnexpectedEOF = errors.New("early EOF")
	// ErrTrailingBytes means a top-level decode did not consume its whole input.
	ErrTrailingBytes = errors.New("trailing bytes")
	// ErrOther covers decode protocol violations.
	ErrOther = errors.New("decode protocol violation")
)

type eofError struct {
	want, have int
}

func (e *eofError) Error() string {
	return fmt.Sprintf("%v: need %d bytes, %d remaining", ErrUnexpectedEOF, e.want, e.have)
}

func (e *eofError) Is(target error) bool { return target == ErrUnexpectedEOF }

type trailingError struct {
	n int
}

func (e *trailingError) Error() string {
	return fmt.Sprintf("%v: %d unconsumed", ErrTrailingBytes, e.n)
}

func (e *trailingError) Is(target error) bool { return target == ErrTrailingBytes }

// ProtocolError is a decode failure that is not about the input length,
// e.g. a record asking for a negative number of bytes.
type ProtocolError struct {
	Msg string
}

// Otherf formats a ProtocolError.
func Otherf(format string, args ...any) *ProtocolError {
	return &ProtocolError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ProtocolError) Error() string { return e.Msg }

func (e *ProtocolError) Is(target error) bool { return target == ErrOther }

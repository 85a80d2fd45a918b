// Package splitio provides the error types shared by bytesplit's packages,
// along with the fixed-width integer codecs its wire format is built on.
package splitio

import (
	"errors"
	"runtime"
)

// Error handling in bytesplit reuses a small set of error kinds for as many failure
// cases as possible, with extra information wrapped as applicable. All errors returned
// by the library wrap one of these kinds, so callers have a single taxonomy to check with
//
//	if errors.Is(err, splitio.ErrSizeMismatch) {
//		// buffer didn't have the shape the schema requires
//	}
//
// Panics are only used when there is a clear misuse of the library; programmer error.
var (
	// ErrSizeMismatch is returned when a buffer is shorter than a field requires,
	// when a frame's declared length overruns its buffer, when bytes are left over
	// and no remainder was asked for, or when a repeated application doesn't divide
	// the buffer exactly.
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrBadCall is returned when the call surface is misused;
	// i.e. Single called on a schema with more than one field.
	ErrBadCall = errors.New("bad call")

	// ErrBadType is returned for schema definition errors; a field type with no
	// byte-decoding capability, arguments given to an argument-free capability,
	// or a field name with no matching target member. It is always returned at
	// schema construction, never at split time.
	ErrBadType = errors.New("bad type")

	// ErrConstruction is returned when a field or target constructor rejects the
	// decoded bytes or its arguments. The constructor's own error is carried in
	// the message so all schema-level failures share one taxonomy.
	ErrConstruction = errors.New("construction failed")

	// ErrUnresolved is returned when a partial result is asked for something only
	// the finished target has; an unknown field name, or any access after Finish.
	ErrUnresolved = errors.New("unresolved")
)

// NewError returns an Error wrapping err with message.
// The calling function's name is recorded automatically.
func NewError(err error, message string) error {
	return Error{
		Err:     err,
		Message: message,
		Caller:  GetCaller(1),
	}
}

// Error is the wrapper for all errors returned by bytesplit.
type Error struct {
	Err     error
	Message string
	Caller  string
}

// Error implements error
func (e Error) Error() (str string) {
	if e.Caller != "" {
		str = e.Caller + ": "
	}

	str += e.Err.Error()

	if e.Message != "" {
		str += " (" + e.Message + ")"
	}

	return str
}

// Unwrap implements errors's Unwrap()
func (e Error) Unwrap() error {
	return e.Err
}

// GetCaller returns the name of the calling function, skipping skip functions.
// i.e. 0 writes the calling function, 1 the function calling that etc...
func GetCaller(skip int) string {
	pcs := make([]uintptr, 1)
	n := runtime.Callers(2+skip, pcs)
	if n != 1 {
		return "Unknown Function"
	}

	frames := runtime.CallersFrames(pcs)
	frame, _ := frames.Next()
	return frame.Function
}

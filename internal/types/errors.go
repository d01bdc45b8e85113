package types

import "errors"

// ErrorKind identifies which stage of the pipeline rejected its input.
type ErrorKind string

const (
	KindUnsupported    ErrorKind = "unsupported"
	KindNotFound       ErrorKind = "not_found"
	KindRead           ErrorKind = "read"
	KindMissingColumns ErrorKind = "missing_columns"
	KindNoSprint       ErrorKind = "no_sprint"
	KindWrite          ErrorKind = "write"
	KindCombined       ErrorKind = "combined"
)

const (
	MsgUnsupported    = "Unsupported file type.\nPlease use only excel or csv files."
	MsgNotFound       = "File not found!"
	MsgRead           = "Unable to read file.\nPlease check if file is not corrupted."
	MsgMissingColumns = "One or more table columns missing.\nPlease check if table is in expected format."
	MsgNoSprint       = "No sprint information found.\nPlease check if Sprint column is filled."
	MsgWrite          = "Unable to write output file.\nPlease check if destination folder exists."
)

// Error is the failure value returned by every pipeline stage. Msg is shown
// to the user verbatim; Err keeps the underlying cause for logs.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new pipeline error.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the user-facing text for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}

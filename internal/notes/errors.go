package notes

import (
	"errors"
	"fmt"
)

// Error kinds returned by Gateway operations. Match them with errors.Is.
var (
	ErrConnection = errors.New("couldn't connect to db")
	ErrRead       = errors.New("couldn't read notes")
	ErrWrite      = errors.New("couldn't write note")
	ErrNotFound   = errors.New("this note does not exist in db")
)

// OpError records a failed Gateway operation.
type OpError struct {
	Op   string // "connect", "create", "list", "search", "delete", "update"
	ID   string // note ID, when the operation targets one
	Kind error  // one of the Err* kinds above
	Err  error  // underlying cause, may be nil
}

func (e *OpError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.ID != "" {
		msg = fmt.Sprintf("%s %s: %s", e.Op, e.ID, e.Kind.Error())
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func opErr(op, id string, kind, err error) error {
	// Connection failures keep their kind regardless of the operation.
	var oe *OpError
	if errors.As(err, &oe) && oe.Op == "connect" {
		return err
	}
	return &OpError{Op: op, ID: id, Kind: kind, Err: err}
}

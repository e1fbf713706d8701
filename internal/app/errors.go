package app

import "errors"

// notFoundError signals a missing screen or site (404).
type notFoundError struct{ what, id string }

func (e notFoundError) Error() string { return e.what + " not found: " + e.id }

// ErrNotFound constructs a notFoundError.
func ErrNotFound(what, id string) error { return notFoundError{what: what, id: id} }

// IsNotFound reports whether err indicates a missing screen or site.
func IsNotFound(err error) bool {
	var nf notFoundError
	return errors.As(err, &nf)
}

// invalidError signals a malformed request (400).
type invalidError struct{ msg string }

func (e invalidError) Error() string { return e.msg }

// ErrInvalid constructs an invalidError.
func ErrInvalid(msg string) error { return invalidError{msg: msg} }

// IsInvalid reports whether err indicates a malformed request.
func IsInvalid(err error) bool {
	var ie invalidError
	return errors.As(err, &ie)
}

// conflictError signals a request the current screen state cannot serve (409),
// e.g. a topic search before any topic browser has loaded its tree.
type conflictError struct{ msg string }

func (e conflictError) Error() string { return e.msg }

// ErrConflict constructs a conflictError.
func ErrConflict(msg string) error { return conflictError{msg: msg} }

// IsConflict reports whether err indicates a state conflict.
func IsConflict(err error) bool {
	var ce conflictError
	return errors.As(err, &ce)
}

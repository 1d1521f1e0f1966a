package config

import (
	"errors"
)

var (
	ErrNotFound    = errors.New("configuration key not found")
	ErrInvalidType = errors.New("invalid type")
	ErrInvalidKey  = errors.New("invalid key")
)

// Error is the error returned by sources and by the builder.
// Origin names the source that failed, e.g. "vault(secret/dev)".
type Error struct {
	Origin string
	Err    error
}

func NewError(origin string, err error) *Error {
	return &Error{
		Origin: origin,
		Err:    err,
	}
}

func (e *Error) Error() string {
	if e.Origin == "" {
		return e.Err.Error()
	}
	return e.Origin + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

package schema

import "errors"

var (
	// ErrInvalidModel is returned when the type handed to the parser is not a struct.
	ErrInvalidModel = errors.New("invalid model")
	// ErrInvalidTag is returned when a marker tag carries a malformed parameter.
	ErrInvalidTag = errors.New("invalid tag")
)

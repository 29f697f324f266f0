package converter

import "errors"

var (
	// ErrUnsupportedValue is returned when a value cannot be converted to or from
	// the converter's target type.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrUnsupportedPattern is returned for date patterns using letters that
	// have no Go layout equivalent.
	ErrUnsupportedPattern = errors.New("unsupported date pattern")
)

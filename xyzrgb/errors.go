package xyzrgb

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCoordinate is matched by errors.Is for *MalformedCoordinateError.
	ErrMalformedCoordinate = errors.New("x, y, or z not finite")
	// ErrColorOutOfRange is matched by errors.Is for *ColorOutOfRangeError.
	ErrColorOutOfRange = errors.New("r, g, or b not within [0, 255]")
)

// MalformedCoordinateError is returned when a complete record has a
// non-finite coordinate. Line is 1-based.
type MalformedCoordinateError struct {
	Line int
}

func (e *MalformedCoordinateError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, ErrMalformedCoordinate)
}

func (e *MalformedCoordinateError) Is(target error) bool {
	return target == ErrMalformedCoordinate
}

// ColorOutOfRangeError is returned when a complete record has a color
// channel outside [0, 255]. Line is 1-based.
type ColorOutOfRangeError struct {
	Line int
}

func (e *ColorOutOfRangeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, ErrColorOutOfRange)
}

func (e *ColorOutOfRangeError) Is(target error) bool {
	return target == ErrColorOutOfRange
}

// FileOpenError wraps the failure to open a point file.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("couldn't open file %q: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error {
	return e.Err
}

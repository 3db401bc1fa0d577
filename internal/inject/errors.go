package inject

import (
	"errors"
	"fmt"
)

var (
	// ErrInterlacingRanges indicates two insertion points partially overlap.
	// This is a matcher bug or malformed input and is never recovered from.
	ErrInterlacingRanges = errors.New("interlacing insertion points")

	// ErrRangeOutOfBounds indicates an insertion point outside the script text
	ErrRangeOutOfBounds = errors.New("insertion point out of bounds")
)

// InterlacingError names the two ranges that partially overlap
type InterlacingError struct {
	A Range
	B Range
}

func (e *InterlacingError) Error() string {
	return fmt.Sprintf("insertion points [%d, %d) and [%d, %d) partially overlap", e.A.Start, e.A.End, e.B.Start, e.B.End)
}

func (e *InterlacingError) Unwrap() error {
	return ErrInterlacingRanges
}

package sfc

import (
	"errors"
	"fmt"

	"bennypowers.dev/sfcgen/internal/position"
)

// ErrParse is the sentinel wrapped by every ParseError
var ErrParse = errors.New("component parse error")

// ParseError is a positioned diagnostic produced while parsing a document
type ParseError struct {
	Filename string
	Message  string
	Loc      position.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Loc.Line+1, e.Loc.Column+1, e.Message)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

func newParseError(filename, source string, offset int, format string, args ...any) *ParseError {
	return &ParseError{
		Filename: filename,
		Message:  fmt.Sprintf(format, args...),
		Loc:      position.Locate(source, offset),
	}
}

// Package compiler provides the default script compiler, template compiler
// and src resolver used by the assembler.
package compiler

import (
	"errors"
	"fmt"

	"bennypowers.dev/sfcgen/internal/position"
)

var (
	// ErrScriptSetupUnsupported is returned for <script setup>, which needs
	// a full script compiler
	ErrScriptSetupUnsupported = errors.New("<script setup> requires a full script compiler")
	// ErrDynamicTemplate is returned for templates using directives,
	// interpolation or components
	ErrDynamicTemplate = errors.New("template is not static")
	// ErrMalformedTemplate is returned for template markup that does not parse
	ErrMalformedTemplate = errors.New("malformed template")
)

// TemplateError is a positioned template compilation failure
type TemplateError struct {
	Filename string
	Message  string
	Loc      position.Position
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Loc.Line+1, e.Loc.Column+1, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

package assemble

import (
	"errors"
	"fmt"
)

// ErrCSSModulesInCustomElement is returned when a CSS-module style is
// compiled in custom element mode
var ErrCSSModulesInCustomElement = errors.New("<style module> is not supported in custom elements mode")

// ErrRenderNotHoisted is returned when compiled template code exports its
// render function as anything but a function declaration
var ErrRenderNotHoisted = errors.New("render function must be exported as a function declaration")

// TemplateExportError reports the offending export of compiled template code
type TemplateExportError struct {
	Filename string
	Export   string
	Err      error
}

func (e *TemplateExportError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Filename, e.Err, e.Export)
}

func (e *TemplateExportError) Unwrap() error {
	return e.Err
}

// ConfigError reports a combination of options and regions that cannot be
// compiled
type ConfigError struct {
	Filename string
	// Index of the offending style region
	Index int
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: style %d: %v", e.Filename, e.Index, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

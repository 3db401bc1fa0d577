package inject

import (
	"encoding/json"
	"strings"
)

// Binding is the local name the wrapper binds the merged component to
const Binding = "__sfc_component"

// Property is a (name, expression) pair merged into the component object.
// Value is raw JavaScript expression text.
type Property struct {
	Name  string
	Value string
}

// Range is a half-open byte range [Start, End) in script text together with
// the substring it covered when it was matched.
type Range struct {
	Start int
	End   int
	Text  string
}

// Policy records which matching policy produced the insertion points
type Policy int

const (
	// PolicyDefineCall wraps every call to a define-component helper
	PolicyDefineCall Policy = iota + 1
	// PolicyDefaultExport wraps the value of the top-level default export
	PolicyDefaultExport
	// PolicySynthesized appends a new default export of an empty object
	PolicySynthesized
)

func (p Policy) String() string {
	switch p {
	case PolicyDefineCall:
		return "define-call"
	case PolicyDefaultExport:
		return "default-export"
	case PolicySynthesized:
		return "synthesized"
	default:
		return "unknown"
	}
}

// Wrapper weaves properties and hooks around a component expression
type Wrapper struct {
	Properties []Property
	Hooks      []Hook
}

// IsIdentity reports whether Wrap returns its input unchanged
func (w Wrapper) IsIdentity() bool {
	return len(w.Properties) == 0 && len(w.Hooks) == 0
}

// Wrap returns expr wrapped in an immediately-invoked arrow function that
// merges the properties into it, runs the hooks against the merged binding
// and returns it. The wrapper never contains line breaks of its own, so line
// numbers of the surrounding code are preserved.
func (w Wrapper) Wrap(expr string) string {
	if w.IsIdentity() {
		return expr
	}

	var sb strings.Builder
	sb.WriteString("/* @__PURE__ */ (() => { const ")
	sb.WriteString(Binding)
	sb.WriteString(" = Object.assign(")
	sb.WriteString(expr)
	sb.WriteString(", {")
	for i, p := range w.Properties {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		sb.WriteString(Quote(p.Name))
		sb.WriteString(": ")
		sb.WriteString(p.Value)
	}
	if len(w.Properties) > 0 {
		sb.WriteString(" ")
	}
	sb.WriteString("}); ")
	for _, h := range w.Hooks {
		for _, stmt := range h.Statements(Binding) {
			sb.WriteString(stmt)
			sb.WriteString("; ")
		}
	}
	sb.WriteString("return ")
	sb.WriteString(Binding)
	sb.WriteString(" })()")
	return sb.String()
}

// Quote renders s as a JavaScript string literal
func Quote(s string) string {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

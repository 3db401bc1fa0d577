// Package assemble builds the JavaScript module emitted for one component
// document: it decides which regions are inlined and which are imported as
// virtual modules, weaves runtime metadata into the component object and
// produces the module's source map.
package assemble

import (
	"context"

	"bennypowers.dev/sfcgen/internal/sfc"
	"bennypowers.dev/sfcgen/internal/sourcemap"
)

// Options is the build configuration for one compile pass
type Options struct {
	// Root is the project root; server-rendered modules register their path
	// relative to it
	Root       string
	Production bool
	SourceMap  bool
	SSR        bool
	// CustomElement compiles the component as a custom element, which applies
	// its styles programmatically
	CustomElement bool
	DevServer     bool
	HMR           bool
	Devtools      bool
	// Helpers are the define-component helper identifiers; nil uses the
	// rewriter's defaults
	Helpers []string
}

// ScriptCompiler compiles the script regions of a descriptor into a module
// with a default export. A nil result means the descriptor has no script.
type ScriptCompiler interface {
	CompileScript(ctx context.Context, d *sfc.Descriptor, ssr bool) (code string, m *sourcemap.Map, err error)
}

// TemplateCompiler compiles an inline template region into a module that
// exports a `render` (or, for ssr, `ssrRender`) function.
type TemplateCompiler interface {
	CompileTemplate(ctx context.Context, d *sfc.Descriptor, ssr bool) (code string, m *sourcemap.Map, err error)
}

// Resolver turns a region's src reference into a canonical module id. ok is
// false when the reference cannot be resolved.
type Resolver interface {
	Resolve(ctx context.Context, ref, importer string) (id string, ok bool, err error)
}

// Transpiler lowers ts, tsx and jsx output to plain JavaScript
type Transpiler interface {
	Lower(ctx context.Context, code, filename, lang string, m *sourcemap.Map) (string, *sourcemap.Map, error)
}

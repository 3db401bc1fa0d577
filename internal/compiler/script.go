package compiler

import (
	"context"
	"fmt"

	"bennypowers.dev/sfcgen/internal/sfc"
	"bennypowers.dev/sfcgen/internal/sourcemap"
)

// ScriptCompiler passes a plain <script> through unchanged, mapping each
// line back to the document
type ScriptCompiler struct{}

// CompileScript returns the script content and a line-level source map
func (ScriptCompiler) CompileScript(ctx context.Context, d *sfc.Descriptor, _ bool) (string, *sourcemap.Map, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if d.ScriptSetup != nil {
		return "", nil, fmt.Errorf("%s: %w", d.Filename, ErrScriptSetupUnsupported)
	}
	if d.Script == nil {
		return "", nil, nil
	}

	g := sourcemap.NewGenerator(d.Filename)
	g.AddSource(d.Filename, d.Source)
	g.AddLines(d.Script.Content, d.Filename, d.Script.Loc.Start)
	return d.Script.Content, g.Map(), nil
}

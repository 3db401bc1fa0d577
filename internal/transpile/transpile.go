// Package transpile lowers TypeScript and JSX modules to JavaScript with
// esbuild, chaining the incoming source map.
package transpile

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"bennypowers.dev/sfcgen/internal/log"
	"bennypowers.dev/sfcgen/internal/sourcemap"
)

var loaders = map[string]api.Loader{
	"ts":  api.LoaderTS,
	"tsx": api.LoaderTSX,
	"jsx": api.LoaderJSX,
	"js":  api.LoaderJS,
}

// Esbuild is a Transpiler backed by esbuild's transform API
type Esbuild struct {
	// TsconfigRaw is tsconfig JSON applied to every transform
	TsconfigRaw string
	// Minify enables whitespace, identifier and syntax minification
	Minify bool
}

// Lower transforms code written in lang. When m is non-nil it is passed to
// esbuild as an inline input map and the returned map points back to the
// original sources; otherwise no map is produced.
func (e Esbuild) Lower(ctx context.Context, code, filename, lang string, m *sourcemap.Map) (string, *sourcemap.Map, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	loader, ok := loaders[lang]
	if !ok {
		return "", nil, fmt.Errorf("no loader for language %q", lang)
	}

	opts := api.TransformOptions{
		Loader:            loader,
		Sourcefile:        filename,
		Target:            api.ESNext,
		Format:            api.FormatDefault,
		TsconfigRaw:       e.TsconfigRaw,
		MinifyWhitespace:  e.Minify,
		MinifyIdentifiers: e.Minify,
		MinifySyntax:      e.Minify,
		LogLevel:          api.LogLevelSilent,
	}

	input := code
	if m != nil {
		comment, err := m.InlineComment()
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode input source map: %w", err)
		}
		if !strings.HasSuffix(input, "\n") {
			input += "\n"
		}
		input += comment + "\n"
		opts.Sourcemap = api.SourceMapExternal
	}

	result := api.Transform(input, opts)
	if len(result.Errors) > 0 {
		var errMsg strings.Builder
		for _, msg := range result.Errors {
			if msg.Location != nil {
				fmt.Fprintf(&errMsg, "%s:%d:%d: %s\n", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text)
			} else {
				fmt.Fprintf(&errMsg, "%s\n", msg.Text)
			}
		}
		return "", nil, fmt.Errorf("esbuild errors:\n%s", errMsg.String())
	}
	for _, msg := range result.Warnings {
		log.Debug("esbuild: %s: %s", filename, msg.Text)
	}

	if m == nil {
		return string(result.Code), nil, nil
	}
	out, err := sourcemap.Parse(result.Map)
	if err != nil {
		return "", nil, err
	}
	return string(result.Code), out, nil
}

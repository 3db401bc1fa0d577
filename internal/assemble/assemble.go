package assemble

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/sfcgen/internal/collections"
	"bennypowers.dev/sfcgen/internal/inject"
	"bennypowers.dev/sfcgen/internal/log"
	"bennypowers.dev/sfcgen/internal/sfc"
	"bennypowers.dev/sfcgen/internal/sourcemap"
)

const (
	// mainBinding holds the component object in generated script sections
	mainBinding = "_sfc_main"
	// ssrContextAccessor is the local name of the imported server context accessor
	ssrContextAccessor = "__sfc_useSSRContext"
)

// loweredLangs are script languages the Transpiler lowers to JavaScript
var loweredLangs = collections.NewSet("ts", "tsx", "jsx")

// hotAccept chooses between a render-only update and a full reload
var hotAccept = []string{
	"import.meta.hot.accept(mod => {",
	"  if (!mod) return",
	"  const { default: updated, _rerender_only } = mod",
	"  if (_rerender_only) {",
	"    __VUE_HMR_RUNTIME__.rerender(updated.__hmrId, updated.render)",
	"  } else {",
	"    __VUE_HMR_RUNTIME__.reload(updated.__hmrId, updated)",
	"  }",
	"})",
}

// Meta describes the emitted module to the bundler
type Meta struct {
	// Lang is the resolved script language; "js" when none is declared
	Lang string `json:"lang" yaml:"lang"`
}

// Result is the emitted module. When Errors is non-empty the document failed
// to parse and Code is empty.
type Result struct {
	Code   string
	Map    *sourcemap.Map
	Meta   Meta
	Errors []*sfc.ParseError
}

// Assembler emits component modules. Collaborators are optional: without a
// ScriptCompiler or TemplateCompiler the corresponding region is imported as
// a virtual module, without a Resolver src references are used verbatim, and
// without a Transpiler scripts needing lowering are imported as well.
//
// An Assembler holds no per-pass state and may be shared between goroutines.
type Assembler struct {
	Options    Options
	Script     ScriptCompiler
	Template   TemplateCompiler
	Resolver   Resolver
	Transpiler Transpiler
}

// New creates an Assembler without collaborators
func New(opts Options) *Assembler {
	return &Assembler{Options: opts}
}

// Transform parses source and assembles it. The parsed descriptor is returned
// so callers can record it for the next pass; parse errors are reported in
// Result.Errors rather than as an error.
func (a *Assembler) Transform(ctx context.Context, source, filename string, prev *sfc.Descriptor) (*Result, *sfc.Descriptor, error) {
	d, errs := sfc.Parse(source, filename, sfc.ParseOptions{
		Root:       a.Options.Root,
		Production: a.Options.Production,
	})
	if len(errs) > 0 {
		return &Result{Map: sourcemap.Empty(), Meta: Meta{Lang: d.ScriptLang()}, Errors: errs}, d, nil
	}
	res, err := a.TransformMain(ctx, d, prev)
	return res, d, err
}

// TransformMain assembles the main module of d. prev is the descriptor from
// the previous pass over the same file, or nil.
func (a *Assembler) TransformMain(ctx context.Context, d, prev *sfc.Descriptor) (*Result, error) {
	opts := a.Options

	script, scriptMap, inlined, err := a.genScript(ctx, d)
	if err != nil {
		return nil, err
	}
	templateCode, templateMap, hasTemplate, err := a.genTemplate(ctx, d)
	if err != nil {
		return nil, err
	}

	var (
		props    []inject.Property
		hooks    []inject.Hook
		hmrLines []string
		ssrCode  string
	)

	renderName := "render"
	if opts.SSR {
		renderName = "ssrRender"
	}
	switch {
	case hasTemplate:
		props = append(props, inject.Property{Name: renderName, Value: "_sfc_" + renderName})
	case d.Template == nil && prev != nil && prev.Template != nil && !sfc.IsEqualBlock(d.Template, prev.Template):
		// clear the render function left by the previous version
		props = append(props, inject.Property{Name: renderName, Value: "() => {}"})
	}

	if d.HasScoped() {
		props = append(props, inject.Property{Name: "__scopeId", Value: inject.Quote(d.ScopeID())})
	}

	if opts.Devtools || (opts.DevServer && !opts.Production) {
		file := d.Filename
		if opts.Production {
			file = filepath.Base(file)
		}
		props = append(props, inject.Property{Name: "__file", Value: inject.Quote(file)})
	}

	if opts.DevServer && opts.HMR && !opts.SSR && !opts.Production {
		props = append(props, inject.Property{Name: "__hmrId", Value: inject.Quote(d.ID)})
		hooks = append(hooks, inject.HotReloadRecord())
		if prev != nil && prev.Template != nil && sfc.IsOnlyTemplateChanged(prev, d) {
			hmrLines = append(hmrLines, "export const _rerender_only = true")
		}
		hmrLines = append(hmrLines, hotAccept...)
	}

	if opts.SSR {
		ssrCode = fmt.Sprintf("import { useSSRContext as %s } from \"vue\"", ssrContextAccessor)
		hooks = append(hooks, inject.SSRRegister(ssrContextAccessor, moduleID(opts.Root, d.Filename)))
	}

	styleCode, styleProps, err := a.genStyles(ctx, d)
	if err != nil {
		return nil, err
	}
	props = append(props, styleProps...)

	blockCode, blockHooks, err := a.genCustomBlocks(ctx, d)
	if err != nil {
		return nil, err
	}
	hooks = append(hooks, blockHooks...)

	dialect := inject.JavaScript
	if inlined {
		dialect = inject.DialectForLang(d.ScriptLang())
	}
	injected, err := inject.Inject(script, inject.Wrapper{Properties: props, Hooks: hooks}, inject.Options{
		Dialect: dialect,
		Helpers: opts.Helpers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to attach component metadata in %s: %w", d.Filename, err)
	}
	log.Debug("Attached %d properties and %d hooks to %s (%s, %d points)",
		len(props), len(hooks), d.Filename, injected.Policy, injected.Count)

	scriptCode := injected.Code
	if scriptCode != "" && !strings.HasSuffix(scriptCode, "\n") {
		scriptCode += "\n"
	}

	var m *sourcemap.Map
	if opts.SourceMap {
		if scriptMap == nil && templateMap != nil {
			// shift template mappings below the script section
			scriptMap = sourcemap.NewGenerator(d.Filename).Map()
		}
		m, err = sourcemap.Compose(scriptMap, templateMap, scriptCode)
		if err != nil {
			return nil, fmt.Errorf("failed to compose source map for %s: %w", d.Filename, err)
		}
	}

	var sb strings.Builder
	sb.WriteString(scriptCode)
	for _, part := range []string{templateCode, styleCode, blockCode, ssrCode, strings.Join(hmrLines, "\n")} {
		if part == "" {
			continue
		}
		sb.WriteString(part)
		if !strings.HasSuffix(part, "\n") {
			sb.WriteString("\n")
		}
	}
	code := sb.String()

	lang := d.ScriptLang()
	if inlined && loweredLangs.Has(lang) {
		code, m, err = a.Transpiler.Lower(ctx, code, d.Filename, lang, m)
		if err != nil {
			return nil, fmt.Errorf("failed to lower %s script of %s: %w", lang, d.Filename, err)
		}
	}

	if m == nil || !opts.SourceMap {
		m = sourcemap.Empty()
	}
	return &Result{Code: code, Map: m, Meta: Meta{Lang: lang}}, nil
}

// canInlineMain reports whether the script is compiled into the main module
// rather than imported as a virtual module
func (a *Assembler) canInlineMain(d *sfc.Descriptor) bool {
	if a.Script == nil {
		return false
	}
	if (d.Script != nil && d.Script.Src != "") || (d.ScriptSetup != nil && d.ScriptSetup.Src != "") {
		return false
	}
	lang := d.ScriptLang()
	if lang == "js" {
		return true
	}
	return loweredLangs.Has(lang) && a.Transpiler != nil
}

// resolve maps a src reference to a module id, falling back to the
// reference itself when the resolver does not know it
func (a *Assembler) resolve(ctx context.Context, ref, importer string) (string, error) {
	if a.Resolver == nil {
		return ref, nil
	}
	id, ok, err := a.Resolver.Resolve(ctx, ref, importer)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q from %s: %w", ref, importer, err)
	}
	if !ok {
		log.Debug("Could not resolve %q from %s, using it verbatim", ref, importer)
		return ref, nil
	}
	return id, nil
}

// moduleID is filename relative to root with forward slashes
func moduleID(root, filename string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, filename); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filename)
}

package assemble

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"bennypowers.dev/sfcgen/internal/inject"
	"bennypowers.dev/sfcgen/internal/sfc"
	"bennypowers.dev/sfcgen/internal/sourcemap"
)

var (
	// renderExport matches the exported render function of compiled template output
	renderExport = regexp.MustCompile(`(?m)^export function (render|ssrRender)\b`)
	// unhoistedRender matches any other export of a render binding. The
	// template section follows the component object, so only a hoisted
	// function declaration can be read from it.
	unhoistedRender = regexp.MustCompile(`(?m)^export\b[^\n]*\b(render|ssrRender)\b`)
	// langParam matches the trailing language parameter of a request
	langParam = regexp.MustCompile(`\.(\w+)$`)
)

// genScript returns the script section, its map, and whether the script was
// compiled inline. The section always ends with a default export of the
// component.
func (a *Assembler) genScript(ctx context.Context, d *sfc.Descriptor) (string, *sourcemap.Map, bool, error) {
	if d.Script == nil && d.ScriptSetup == nil {
		return "const " + mainBinding + " = {}\nexport default " + mainBinding + "\n", nil, false, nil
	}

	if a.canInlineMain(d) {
		code, m, err := a.Script.CompileScript(ctx, d, a.Options.SSR)
		if err != nil {
			return "", nil, false, fmt.Errorf("failed to compile script of %s: %w", d.Filename, err)
		}
		return code, m, true, nil
	}

	script := d.Script
	if script == nil {
		script = d.ScriptSetup
	}
	src := d.Filename
	langFallback := "js"
	srcQuery := ""
	if script.Src != "" {
		id, err := a.resolve(ctx, script.Src, d.Filename)
		if err != nil {
			return "", nil, false, err
		}
		src = id
		if ext := strings.TrimPrefix(path.Ext(script.Src), "."); ext != "" {
			langFallback = ext
		}
		srcQuery = "&src=true"
	}

	request := inject.Quote(src + "?vue&type=script" + srcQuery + AttrsToQuery(script.Attrs, langFallback, false))
	return fmt.Sprintf("import %s from %s\nexport * from %s\nexport default %s\n",
		mainBinding, request, request, mainBinding), nil, false, nil
}

// genTemplate returns the template section and its map. ok is false when the
// descriptor has no template.
func (a *Assembler) genTemplate(ctx context.Context, d *sfc.Descriptor) (string, *sourcemap.Map, bool, error) {
	t := d.Template
	if t == nil {
		return "", nil, false, nil
	}

	if (t.Lang == "" || t.Lang == "html") && t.Src == "" && a.Template != nil {
		code, m, err := a.Template.CompileTemplate(ctx, d, a.Options.SSR)
		if err != nil {
			return "", nil, false, fmt.Errorf("failed to compile template of %s: %w", d.Filename, err)
		}
		code = renderExport.ReplaceAllString(code, "function _sfc_$1")
		if loc := unhoistedRender.FindStringIndex(code); loc != nil {
			return "", nil, false, &TemplateExportError{Filename: d.Filename, Export: code[loc[0]:loc[1]], Err: ErrRenderNotHoisted}
		}
		return code, m, true, nil
	}

	renderName := "render"
	if a.Options.SSR {
		renderName = "ssrRender"
	}
	src := d.Filename
	srcQuery := ""
	scopedQuery := ""
	if t.Src != "" {
		id, err := a.resolve(ctx, t.Src, d.Filename)
		if err != nil {
			return "", nil, false, err
		}
		src = id
		srcQuery = "&src=true"
		if d.HasScoped() {
			srcQuery = "&src=" + d.ID
		}
	}
	if d.HasScoped() {
		scopedQuery = "&scoped=" + d.ID
	}

	request := inject.Quote(src + "?vue&type=template" + srcQuery + scopedQuery + AttrsToQuery(t.Attrs, "js", true))
	return fmt.Sprintf("import { %s as _sfc_%s } from %s", renderName, renderName, request), nil, true, nil
}

// genStyles returns the style imports and the properties they contribute:
// a `__cssModules` map for CSS-module styles and, in custom element mode, a
// `styles` array.
func (a *Assembler) genStyles(ctx context.Context, d *sfc.Descriptor) (string, []inject.Property, error) {
	var (
		lines    []string
		modules  []string
		ceStyles []string
	)
	ce := a.Options.CustomElement

	for i, style := range d.Styles {
		if style.IsModule() && ce {
			return "", nil, &ConfigError{Filename: d.Filename, Index: i, Err: ErrCSSModulesInCustomElement}
		}

		src := d.Filename
		srcQuery := ""
		if style.Src != "" {
			id, err := a.resolve(ctx, style.Src, d.Filename)
			if err != nil {
				return "", nil, err
			}
			src = id
			srcQuery = "&src=true"
			if style.Scoped {
				srcQuery = "&src=" + d.ID
			}
		}
		scopedQuery := ""
		if style.Scoped {
			scopedQuery = "&scoped=" + d.ID
		}
		inlineQuery := ""
		if ce {
			inlineQuery = "&inline"
		}
		request := fmt.Sprintf("%s?vue&type=style&index=%d%s%s%s%s",
			src, i, srcQuery, scopedQuery, inlineQuery, AttrsToQuery(style.Attrs, "css", false))

		switch {
		case style.IsModule():
			ident := fmt.Sprintf("style%d", i)
			moduleRequest := langParam.ReplaceAllString(request, ".module.$1")
			lines = append(lines, fmt.Sprintf("import %s from %s", ident, inject.Quote(moduleRequest)))
			modules = append(modules, inject.Quote(style.Module)+": "+ident)
		case ce:
			ident := fmt.Sprintf("_style_%d", i)
			lines = append(lines, fmt.Sprintf("import %s from %s", ident, inject.Quote(request)))
			ceStyles = append(ceStyles, ident)
		default:
			lines = append(lines, "import "+inject.Quote(request))
		}
	}

	var props []inject.Property
	if ce && len(ceStyles) > 0 {
		props = append(props, inject.Property{Name: "styles", Value: "[" + strings.Join(ceStyles, ", ") + "]"})
	}
	if len(modules) > 0 {
		props = append(props, inject.Property{Name: "__cssModules", Value: "{ " + strings.Join(modules, ", ") + " }"})
	}
	return strings.Join(lines, "\n"), props, nil
}

// genCustomBlocks imports every custom block and returns a hook per block
// that hands it the component when it is callable
func (a *Assembler) genCustomBlocks(ctx context.Context, d *sfc.Descriptor) (string, []inject.Hook, error) {
	var (
		lines []string
		hooks []inject.Hook
	)
	for i, block := range d.CustomBlocks {
		src := d.Filename
		srcQuery := ""
		if block.Src != "" {
			id, err := a.resolve(ctx, block.Src, d.Filename)
			if err != nil {
				return "", nil, err
			}
			src = id
			srcQuery = "&src=true"
		}
		request := fmt.Sprintf("%s?vue&type=%s&index=%d%s%s",
			src, block.Type, i, srcQuery, AttrsToQuery(block.Attrs, block.Type, false))
		ident := fmt.Sprintf("block%d", i)
		lines = append(lines, fmt.Sprintf("import %s from %s", ident, inject.Quote(request)))
		hooks = append(hooks, inject.CustomBlock(ident))
	}
	return strings.Join(lines, "\n"), hooks, nil
}

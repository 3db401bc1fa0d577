package compiler

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"

	"bennypowers.dev/sfcgen/internal/collections"
	"bennypowers.dev/sfcgen/internal/inject"
	"bennypowers.dev/sfcgen/internal/position"
	"bennypowers.dev/sfcgen/internal/sfc"
	"bennypowers.dev/sfcgen/internal/sourcemap"
)

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// runtimeTags are elements the runtime treats as components or directives
var runtimeTags = collections.NewSet(
	"component", "slot", "template", "transition", "transition-group",
	"keep-alive", "teleport", "suspense",
)

// directivePrefixes start attribute names that bind dynamic values
var directivePrefixes = []string{"v-", ":", "@", "#"}

// StaticTemplateCompiler compiles templates without directives,
// interpolation or components into a render function that mounts a static
// HTML string. With scoped styles every element carries the scope attribute.
type StaticTemplateCompiler struct{}

// CompileTemplate returns a module exporting `render`, or `ssrRender` when
// ssr is set
func (StaticTemplateCompiler) CompileTemplate(ctx context.Context, d *sfc.Descriptor, ssr bool) (string, *sourcemap.Map, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	t := d.Template
	if t == nil {
		return "", nil, fmt.Errorf("%s: no template to compile", d.Filename)
	}

	html, roots, err := staticHTML(d)
	if err != nil {
		return "", nil, err
	}

	var (
		sb       strings.Builder
		bodyLine int
	)
	if ssr {
		sb.WriteString("export function ssrRender(_ctx, _push, _parent, _attrs) {\n")
		bodyLine = 1
		if html != "" {
			fmt.Fprintf(&sb, "  _push(%s)\n", inject.Quote(html))
		}
	} else {
		sb.WriteString("import { createStaticVNode as _createStaticVNode } from \"vue\"\n")
		sb.WriteString("export function render(_ctx, _cache) {\n")
		bodyLine = 2
		if html == "" {
			sb.WriteString("  return null\n")
		} else {
			fmt.Fprintf(&sb, "  return _cache[0] || (_cache[0] = _createStaticVNode(%s, %d))\n", inject.Quote(html), roots)
		}
	}
	sb.WriteString("}\n")

	g := sourcemap.NewGenerator(d.Filename)
	g.AddSource(d.Filename, d.Source)
	g.AddMapping(bodyLine-1, 0, d.Filename, t.Loc.Start.Line, t.Loc.Start.Column, "")
	g.AddMapping(bodyLine, 2, d.Filename, t.Loc.Start.Line, t.Loc.Start.Column, "")
	return sb.String(), g.Map(), nil
}

type edit struct {
	start, end uint
	text       string
}

// staticHTML returns the template markup with comments removed and scope
// attributes added, and the number of top-level nodes it mounts.
func staticHTML(d *sfc.Descriptor) (string, int, error) {
	t := d.Template
	src := []byte(t.Content)

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(htmlLang); err != nil {
		return "", 0, fmt.Errorf("failed to set HTML language: %w", err)
	}
	tree := parser.Parse(src, nil)
	if tree == nil {
		return "", 0, fmt.Errorf("%s: failed to parse template", d.Filename)
	}
	defer tree.Close()

	fail := func(n *sitter.Node, sentinel error, format string, args ...any) error {
		return &TemplateError{
			Filename: d.Filename,
			Message:  fmt.Sprintf(format, args...),
			Loc:      position.Locate(d.Source, t.Loc.Start.Offset+int(n.StartByte())), //nolint:gosec // G115: offsets are bounded by source length
			Err:      sentinel,
		}
	}
	text := func(n *sitter.Node) string {
		return string(src[n.StartByte():n.EndByte()])
	}

	var scopeAttr string
	if d.HasScoped() {
		scopeAttr = " " + d.ScopeID() + `=""`
	}

	var edits []edit
	root := tree.RootNode()
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n.Kind() {
		case "ERROR":
			return "", 0, fail(n, ErrMalformedTemplate, "invalid markup")
		case "comment":
			edits = append(edits, edit{start: n.StartByte(), end: n.EndByte()})
			continue
		case "script_element", "style_element":
			return "", 0, fail(n, ErrDynamicTemplate, "<script> and <style> are not allowed in templates")
		case "text":
			if strings.Contains(text(n), "{{") {
				return "", 0, fail(n, ErrDynamicTemplate, "interpolation requires a full template compiler")
			}
		case "start_tag", "self_closing_tag":
			for i := uint(0); i < n.ChildCount(); i++ {
				child := n.Child(i)
				switch child.Kind() {
				case "tag_name":
					name := text(child)
					if runtimeTags.Has(strings.ToLower(name)) || strings.ToLower(name) != name {
						return "", 0, fail(child, ErrDynamicTemplate, "<%s> requires a full template compiler", name)
					}
					if scopeAttr != "" {
						edits = append(edits, edit{start: child.EndByte(), end: child.EndByte(), text: scopeAttr})
					}
				case "attribute":
					if name := child.NamedChild(0); name != nil && isDirective(text(name)) {
						return "", 0, fail(name, ErrDynamicTemplate, "directive %s requires a full template compiler", text(name))
					}
				}
			}
		}

		for i := int(n.ChildCount()) - 1; i >= 0; i-- { //nolint:gosec // G115: child counts are small
			if child := n.Child(uint(i)); child != nil {
				stack = append(stack, child)
			}
		}
	}

	slices.SortFunc(edits, func(a, b edit) int { return cmp.Compare(a.start, b.start) })
	var sb strings.Builder
	last := uint(0)
	for _, e := range edits {
		sb.Write(src[last:e.start])
		sb.WriteString(e.text)
		last = e.end
	}
	sb.Write(src[last:])

	return strings.TrimSpace(sb.String()), countRoots(root), nil
}

// countRoots counts top-level nodes, treating adjacent text and entities as
// one text node
func countRoots(root *sitter.Node) int {
	count := 0
	inText := false
	for i := uint(0); i < root.ChildCount(); i++ {
		switch root.Child(i).Kind() {
		case "element":
			count++
			inText = false
		case "text", "entity":
			if !inText {
				count++
			}
			inText = true
		}
	}
	return count
}

func isDirective(name string) bool {
	for _, p := range directivePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

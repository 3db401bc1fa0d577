package sfc

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"

	"bennypowers.dev/sfcgen/internal/log"
	"bennypowers.dev/sfcgen/internal/position"
)

// ParseOptions configures descriptor parsing
type ParseOptions struct {
	// Root is the project root used to derive the stable id
	Root string
	// Production mixes the source into the id
	Production bool
}

var (
	htmlLang = sitter.NewLanguage(tree_sitter_html.Language())
	cssLang  = sitter.NewLanguage(tree_sitter_css.Language())
)

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}
		return parser
	},
}

func acquireParser() *sitter.Parser {
	p := parserPool.Get().(*sitter.Parser)
	p.Reset()
	return p
}

func releaseParser(p *sitter.Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Parse splits a component document into its regions. Errors are returned as
// a list of positioned diagnostics; when the list is non-empty the descriptor
// must not be compiled.
func Parse(source, filename string, opts ParseOptions) (*Descriptor, []*ParseError) {
	d := &Descriptor{
		ID:       ComputeID(filename, opts.Root, source, opts.Production),
		Filename: filename,
		Source:   source,
	}

	parser := acquireParser()
	defer releaseParser(parser)

	src := []byte(source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return d, []*ParseError{newParseError(filename, source, 0, "failed to parse document")}
	}
	defer tree.Close()

	b := &builder{d: d, src: src, source: source}
	root := tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		b.topLevel(root.Child(i))
	}
	b.checkScriptLangs()

	if len(b.errs) > 0 {
		log.Debug("Parsed %s with %d errors", filename, len(b.errs))
	}
	return d, b.errs
}

type builder struct {
	d      *Descriptor
	src    []byte
	source string
	errs   []*ParseError
}

func (b *builder) errorf(offset uint, format string, args ...any) {
	b.errs = append(b.errs, newParseError(b.d.Filename, b.source, int(offset), format, args...)) //nolint:gosec // G115: offsets are bounded by source length
}

func (b *builder) text(n *sitter.Node) string {
	return string(b.src[n.StartByte():n.EndByte()])
}

func (b *builder) topLevel(node *sitter.Node) {
	switch node.Kind() {
	case "element", "script_element", "style_element":
		region, ok := b.region(node)
		if ok {
			b.add(region, node)
		}
	case "ERROR":
		b.errorf(node.StartByte(), "invalid markup at top level")
	}
}

// region builds a Region from an element node, reading the tag name and
// attributes from its start tag and the raw content between the tags.
func (b *builder) region(node *sitter.Node) (*Region, bool) {
	var startTag, endTag *sitter.Node
	selfClosing := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "start_tag":
			startTag = child
		case "self_closing_tag":
			startTag = child
			selfClosing = true
		case "end_tag":
			if !child.IsMissing() {
				endTag = child
			}
		}
	}
	if startTag == nil {
		b.errorf(node.StartByte(), "element has no start tag")
		return nil, false
	}

	r := &Region{}
	for i := uint(0); i < startTag.ChildCount(); i++ {
		child := startTag.Child(i)
		switch child.Kind() {
		case "tag_name":
			r.Type = b.text(child)
		case "attribute":
			r.Attrs = append(r.Attrs, b.attr(child))
		}
	}

	start := startTag.EndByte()
	end := start
	switch {
	case selfClosing:
	case endTag != nil:
		end = endTag.StartByte()
	default:
		b.errorf(startTag.StartByte(), "element <%s> is missing end tag", r.Type)
		return nil, false
	}

	r.Content = string(b.src[start:end])
	r.Loc = Loc{
		Start: position.Locate(b.source, int(start)), //nolint:gosec // G115: offsets are bounded by source length
		End:   position.Locate(b.source, int(end)),   //nolint:gosec // G115: offsets are bounded by source length
	}
	for _, a := range r.Attrs {
		switch a.Name {
		case "lang":
			r.Lang = a.Value
		case "src":
			r.Src = a.Value
		case "setup":
			r.Setup = true
		case "scoped":
			r.Scoped = true
		case "module":
			r.Module = "$style"
			if a.HasValue && a.Value != "" {
				r.Module = a.Value
			}
		}
	}
	return r, true
}

func (b *builder) attr(node *sitter.Node) Attr {
	var a Attr
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "attribute_name":
			a.Name = b.text(child)
		case "attribute_value":
			a.Value = b.text(child)
			a.HasValue = true
		case "quoted_attribute_value":
			a.HasValue = true
			if v := child.NamedChild(0); v != nil {
				a.Value = b.text(v)
			}
		}
	}
	return a
}

func (b *builder) add(r *Region, node *sitter.Node) {
	d := b.d
	switch r.Type {
	case BlockTemplate:
		if d.Template != nil {
			b.errorf(node.StartByte(), "single file component can contain only one <template> element")
			return
		}
		d.Template = r
	case BlockScript:
		if r.Setup {
			if d.ScriptSetup != nil {
				b.errorf(node.StartByte(), "single file component can contain only one <script setup> element")
				return
			}
			if r.Src != "" {
				b.errorf(node.StartByte(), "<script setup> cannot use the \"src\" attribute")
				return
			}
			d.ScriptSetup = r
			return
		}
		if d.Script != nil {
			b.errorf(node.StartByte(), "single file component can contain only one <script> element")
			return
		}
		d.Script = r
	case BlockStyle:
		if r.Src == "" && (r.Lang == "" || r.Lang == "css") {
			if offset, ok := firstCSSError(r.Content); !ok {
				b.errorf(uint(r.Loc.Start.Offset+offset), "invalid CSS in <style> block") //nolint:gosec // G115: offsets are non-negative
				return
			}
		}
		d.Styles = append(d.Styles, r)
	default:
		d.CustomBlocks = append(d.CustomBlocks, r)
	}
}

func (b *builder) checkScriptLangs() {
	d := b.d
	if d.Script == nil || d.ScriptSetup == nil {
		return
	}
	if d.Script.Lang != d.ScriptSetup.Lang {
		b.errorf(uint(d.ScriptSetup.Loc.Start.Offset), "<script> and <script setup> must have the same language type") //nolint:gosec // G115: offsets are non-negative
	}
}

// firstCSSError parses css and returns the byte offset of the first syntax
// error, with ok false when one exists.
func firstCSSError(css string) (int, bool) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(cssLang); err != nil {
		log.Warn("CSS validation disabled: %v", err)
		return 0, true
	}

	tree := parser.Parse([]byte(css), nil)
	if tree == nil {
		return 0, true
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return 0, true
	}

	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.IsError() || n.IsMissing() {
			return int(n.StartByte()), false //nolint:gosec // G115: offsets are bounded by source length
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- { //nolint:gosec // G115: child counts are small
			child := n.Child(uint(i))
			if child != nil && (child.HasError() || child.IsMissing()) {
				stack = append(stack, child)
			}
		}
	}
	return int(root.StartByte()), false //nolint:gosec // G115: offsets are bounded by source length
}

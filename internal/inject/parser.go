package inject

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"bennypowers.dev/sfcgen/internal/collections"
)

// Dialect selects the grammar used to parse script text
type Dialect int

const (
	// JavaScript covers js and jsx
	JavaScript Dialect = iota
	// TypeScript covers ts
	TypeScript
	// TSX covers tsx
	TSX
)

// DialectForLang maps a script language tag to a grammar
func DialectForLang(lang string) Dialect {
	switch lang {
	case "ts", "mts", "cts":
		return TypeScript
	case "tsx":
		return TSX
	default:
		return JavaScript
	}
}

var languages = map[Dialect]*sitter.Language{
	JavaScript: sitter.NewLanguage(tree_sitter_javascript.Language()),
	TypeScript: sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
	TSX:        sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
}

// Parser locates insertion points in script text
type Parser struct {
	parser  *sitter.Parser
	dialect Dialect
}

func newPool(d Dialect) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			parser := sitter.NewParser()
			if err := parser.SetLanguage(languages[d]); err != nil {
				panic(fmt.Sprintf("failed to set script language: %v", err))
			}
			return &Parser{parser: parser, dialect: d}
		},
	}
}

// parserPools holds reusable parsers per dialect
var parserPools = map[Dialect]*sync.Pool{
	JavaScript: newPool(JavaScript),
	TypeScript: newPool(TypeScript),
	TSX:        newPool(TSX),
}

// AcquireParser gets a parser for the dialect from the pool
func AcquireParser(d Dialect) *Parser {
	pool, ok := parserPools[d]
	if !ok {
		pool = parserPools[JavaScript]
	}
	p := pool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to its pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPools[p.dialect].Put(p)
	}
}

// Close releases the parser's native resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// parse runs the grammar over code. The caller must close the tree.
func (p *Parser) parse(code []byte) (*sitter.Tree, error) {
	tree := p.parser.Parse(code, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse script")
	}
	return tree, nil
}

// FindDefineCalls returns every call expression whose callee is one of the
// helper identifiers, at any depth. The tree is walked with an explicit
// worklist so deeply nested scripts cannot exhaust the stack.
func (p *Parser) FindDefineCalls(code string, helpers collections.Set[string]) ([]Range, error) {
	src := []byte(code)
	tree, err := p.parse(src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var ranges []Range
	stack := []*sitter.Node{tree.RootNode()}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Kind() == "call_expression" {
			if fn := node.ChildByFieldName("function"); fn != nil && fn.Kind() == "identifier" {
				if helpers.Has(code[fn.StartByte():fn.EndByte()]) {
					ranges = append(ranges, nodeRange(node, code))
				}
			}
		}

		for i := node.ChildCount(); i > 0; i-- {
			if child := node.Child(i - 1); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return ranges, nil
}

// FindDefaultExport returns the exported value of a top-level
// `export default` statement.
func (p *Parser) FindDefaultExport(code string) (Range, bool, error) {
	src := []byte(code)
	tree, err := p.parse(src)
	if err != nil {
		return Range{}, false, err
	}
	defer tree.Close()

	root := tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		stmt := root.Child(i)
		if stmt.Kind() != "export_statement" || !hasDefaultKeyword(stmt) {
			continue
		}
		value := stmt.ChildByFieldName("value")
		if value == nil {
			value = stmt.ChildByFieldName("declaration")
		}
		if value == nil {
			continue
		}
		return nodeRange(value, code), true, nil
	}
	return Range{}, false, nil
}

func hasDefaultKeyword(stmt *sitter.Node) bool {
	for i := uint(0); i < stmt.ChildCount(); i++ {
		if stmt.Child(i).Kind() == "default" {
			return true
		}
	}
	return false
}

func nodeRange(n *sitter.Node, code string) Range {
	start, end := int(n.StartByte()), int(n.EndByte()) //nolint:gosec // G115: offsets are bounded by source length
	return Range{Start: start, End: end, Text: code[start:end]}
}

package sourcemap

import (
	"strings"

	"bennypowers.dev/sfcgen/internal/position"
)

// Generator accumulates mappings and produces a Map
type Generator struct {
	file        string
	sources     []string
	contents    []string
	sourceIndex map[string]int
	names       []string
	nameIndex   map[string]int
	mappings    []Mapping
}

// NewGenerator creates an empty generator for the given output file name
func NewGenerator(file string) *Generator {
	return &Generator{
		file:        file,
		sourceIndex: make(map[string]int),
		nameIndex:   make(map[string]int),
	}
}

// FromMap seeds a generator with every source, name and mapping of m
func FromMap(m *Map) (*Generator, error) {
	g := NewGenerator(m.File)
	for i, src := range m.Sources {
		content := ""
		if i < len(m.SourcesContent) {
			content = m.SourcesContent[i]
		}
		g.AddSource(src, content)
	}
	for _, name := range m.Names {
		g.addName(name)
	}
	decoded, err := m.Decode()
	if err != nil {
		return nil, err
	}
	g.mappings = append(g.mappings, decoded...)
	return g, nil
}

// AddSource registers a source file and returns its index. Registering the
// same name twice returns the first index.
func (g *Generator) AddSource(name, content string) int {
	if ix, ok := g.sourceIndex[name]; ok {
		if g.contents[ix] == "" {
			g.contents[ix] = content
		}
		return ix
	}
	ix := len(g.sources)
	g.sources = append(g.sources, name)
	g.contents = append(g.contents, content)
	g.sourceIndex[name] = ix
	return ix
}

func (g *Generator) addName(name string) int {
	if ix, ok := g.nameIndex[name]; ok {
		return ix
	}
	ix := len(g.names)
	g.names = append(g.names, name)
	g.nameIndex[name] = ix
	return ix
}

// AddMapping records that the generated position came from the original
// position in source. An empty name omits the name field.
func (g *Generator) AddMapping(genLine, genCol int, source string, origLine, origCol int, name string) {
	m := Mapping{
		GeneratedLine:   genLine,
		GeneratedColumn: genCol,
		Source:          g.AddSource(source, ""),
		OriginalLine:    origLine,
		OriginalColumn:  origCol,
		Name:            -1,
	}
	if name != "" {
		m.Name = g.addName(name)
	}
	g.mappings = append(g.mappings, m)
}

// AddLines maps each line of code to the matching line of a region that
// starts at origin within source. The first line keeps the region's column.
func (g *Generator) AddLines(code, source string, origin position.Position) {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if line == "" || strings.TrimSpace(line) == "" {
			continue
		}
		col := 0
		if i == 0 {
			col = origin.Column
		}
		g.AddMapping(i, 0, source, origin.Line+i, col, "")
	}
}

// Map builds the final source map
func (g *Generator) Map() *Map {
	mappings := make([]Mapping, len(g.mappings))
	copy(mappings, g.mappings)
	sortMappings(mappings)

	m := &Map{
		Version:  3,
		File:     g.file,
		Sources:  append([]string{}, g.sources...),
		Names:    append([]string{}, g.names...),
		Mappings: encodeMappings(mappings),
	}
	for _, c := range g.contents {
		if c != "" {
			m.SourcesContent = append([]string{}, g.contents...)
			break
		}
	}
	return m
}

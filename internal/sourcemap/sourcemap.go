// Package sourcemap reads, writes and composes version 3 source maps.
package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Map is a version 3 source map. The zero value marshals as {"mappings":""},
// the placeholder used when maps are disabled.
type Map struct {
	Version        int      `json:"version,omitempty"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources,omitempty"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names,omitempty"`
	Mappings       string   `json:"mappings"`
}

// Mapping is one decoded segment. Lines and columns are zero-based; columns
// count UTF-16 code units.
type Mapping struct {
	GeneratedLine   int
	GeneratedColumn int
	// Source indexes Map.Sources, or is -1 for a segment with no origin
	Source         int
	OriginalLine   int
	OriginalColumn int
	// Name indexes Map.Names, or is -1
	Name int
}

// HasSource reports whether the segment points back into a source file
func (m Mapping) HasSource() bool {
	return m.Source >= 0
}

// Empty returns the placeholder map with no mappings
func Empty() *Map {
	return &Map{}
}

// Parse decodes a JSON source map
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse source map: %w", err)
	}
	if m.Version != 0 && m.Version != 3 {
		return nil, fmt.Errorf("unsupported source map version %d", m.Version)
	}
	return &m, nil
}

// JSON encodes the map
func (m *Map) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// InlineComment renders the map as a trailing sourceMappingURL data URL comment
func (m *Map) InlineComment() (string, error) {
	data, err := m.JSON()
	if err != nil {
		return "", err
	}
	return "//# sourceMappingURL=data:application/json;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Decode expands the mappings string into segments ordered by generated position
func (m *Map) Decode() ([]Mapping, error) {
	var (
		out                               []Mapping
		source, origLine, origCol, nameIx int
	)
	s := m.Mappings
	line, col := 0, 0
	i := 0
	for i < len(s) {
		switch s[i] {
		case ';':
			line++
			col = 0
			i++
			continue
		case ',':
			i++
			continue
		}

		var fields [5]int
		n := 0
		for i < len(s) && s[i] != ',' && s[i] != ';' {
			if n == len(fields) {
				return nil, fmt.Errorf("segment on line %d has more than 5 fields", line)
			}
			v, next, err := readVLQ(s, i)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			fields[n] = v
			n++
			i = next
		}

		col += fields[0]
		mapping := Mapping{GeneratedLine: line, GeneratedColumn: col, Source: -1, Name: -1}
		switch n {
		case 1:
		case 4, 5:
			source += fields[1]
			origLine += fields[2]
			origCol += fields[3]
			mapping.Source = source
			mapping.OriginalLine = origLine
			mapping.OriginalColumn = origCol
			if n == 5 {
				nameIx += fields[4]
				mapping.Name = nameIx
			}
		default:
			return nil, fmt.Errorf("segment on line %d has %d fields", line, n)
		}
		out = append(out, mapping)
	}
	return out, nil
}

// encodeMappings serializes segments, which must already be sorted by
// generated position.
func encodeMappings(mappings []Mapping) string {
	var sb strings.Builder
	var prevSource, prevOrigLine, prevOrigCol, prevName int
	line, prevCol := 0, 0
	first := true
	for _, m := range mappings {
		for line < m.GeneratedLine {
			sb.WriteByte(';')
			line++
			prevCol = 0
			first = true
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false

		writeVLQ(&sb, m.GeneratedColumn-prevCol)
		prevCol = m.GeneratedColumn
		if !m.HasSource() {
			continue
		}
		writeVLQ(&sb, m.Source-prevSource)
		writeVLQ(&sb, m.OriginalLine-prevOrigLine)
		writeVLQ(&sb, m.OriginalColumn-prevOrigCol)
		prevSource, prevOrigLine, prevOrigCol = m.Source, m.OriginalLine, m.OriginalColumn
		if m.Name >= 0 {
			writeVLQ(&sb, m.Name-prevName)
			prevName = m.Name
		}
	}
	return sb.String()
}

func compareGenerated(a, b Mapping) int {
	if a.GeneratedLine != b.GeneratedLine {
		return a.GeneratedLine - b.GeneratedLine
	}
	return a.GeneratedColumn - b.GeneratedColumn
}

func sortMappings(mappings []Mapping) {
	slices.SortStableFunc(mappings, compareGenerated)
}

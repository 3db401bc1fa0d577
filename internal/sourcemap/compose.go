package sourcemap

import (
	"fmt"

	"bennypowers.dev/sfcgen/internal/position"
)

// Compose merges the map of a script fragment with the map of a template
// fragment emitted directly after it. Template mappings keep their original
// positions and have their generated line shifted by the number of line
// breaks in scriptCode; template segments without a source are dropped.
//
// sourcesContent is taken from the template map: on a template-only hot
// update the script half comes from a cached compilation whose recorded
// content is stale.
//
// When only one map is given it is returned unchanged; with neither, nil.
func Compose(scriptMap, templateMap *Map, scriptCode string) (*Map, error) {
	switch {
	case scriptMap == nil && templateMap == nil:
		return nil, nil
	case templateMap == nil:
		return scriptMap, nil
	case scriptMap == nil:
		return templateMap, nil
	}

	gen, err := FromMap(scriptMap)
	if err != nil {
		return nil, fmt.Errorf("script source map: %w", err)
	}
	templateMappings, err := templateMap.Decode()
	if err != nil {
		return nil, fmt.Errorf("template source map: %w", err)
	}

	offset := position.CountLineBreaks(scriptCode)
	for _, m := range templateMappings {
		if !m.HasSource() || m.Source >= len(templateMap.Sources) {
			continue
		}
		name := ""
		if m.Name >= 0 && m.Name < len(templateMap.Names) {
			name = templateMap.Names[m.Name]
		}
		gen.AddMapping(
			m.GeneratedLine+offset,
			m.GeneratedColumn,
			templateMap.Sources[m.Source],
			m.OriginalLine,
			m.OriginalColumn,
			name,
		)
	}

	result := gen.Map()
	result.SourcesContent = templateMap.SourcesContent
	return result, nil
}

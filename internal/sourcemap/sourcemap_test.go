package sourcemap_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"bennypowers.dev/sfcgen/internal/position"
	"bennypowers.dev/sfcgen/internal/sourcemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyMarshalsAsPlaceholder(t *testing.T) {
	data, err := sourcemap.Empty().JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"mappings":""}`, string(data))
}

func TestDecode(t *testing.T) {
	// "AAAA" = [0,0,0,0]; "EAAE" = col +2, src +0, line +0, col +2;
	// ";" = next line; "AACA" = line +1; "G" = one-field segment at col 3
	m := &sourcemap.Map{Version: 3, Sources: []string{"App.vue"}, Mappings: "AAAA,EAAE;AACA,G"}
	got, err := m.Decode()
	require.NoError(t, err)

	assert.Equal(t, []sourcemap.Mapping{
		{GeneratedLine: 0, GeneratedColumn: 0, Source: 0, OriginalLine: 0, OriginalColumn: 0, Name: -1},
		{GeneratedLine: 0, GeneratedColumn: 2, Source: 0, OriginalLine: 0, OriginalColumn: 2, Name: -1},
		{GeneratedLine: 1, GeneratedColumn: 0, Source: 0, OriginalLine: 1, OriginalColumn: 2, Name: -1},
		{GeneratedLine: 1, GeneratedColumn: 3, Source: -1, Name: -1},
	}, got)
}

func TestDecodeErrors(t *testing.T) {
	for _, mappings := range []string{"A!AA", "AA", "g"} {
		t.Run(mappings, func(t *testing.T) {
			_, err := (&sourcemap.Map{Mappings: mappings}).Decode()
			assert.Error(t, err)
		})
	}
}

func TestGeneratorRoundTrip(t *testing.T) {
	g := sourcemap.NewGenerator("App.vue.js")
	g.AddSource("App.vue", "<template></template>")
	g.AddMapping(3, 4, "App.vue", 10, 2, "render")
	g.AddMapping(0, 0, "App.vue", 0, 0, "")
	g.AddMapping(0, 17, "App.vue", 1, 17, "")

	m := g.Map()
	assert.Equal(t, 3, m.Version)
	assert.Equal(t, []string{"App.vue"}, m.Sources)
	assert.Equal(t, []string{"<template></template>"}, m.SourcesContent)
	assert.Equal(t, []string{"render"}, m.Names)

	decoded, err := m.Decode()
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	assert.Equal(t, sourcemap.Mapping{GeneratedLine: 0, GeneratedColumn: 0, Source: 0, Name: -1}, decoded[0])
	assert.Equal(t, 17, decoded[1].GeneratedColumn)
	assert.Equal(t, sourcemap.Mapping{GeneratedLine: 3, GeneratedColumn: 4, Source: 0, OriginalLine: 10, OriginalColumn: 2, Name: 0}, decoded[2])
}

func TestAddLines(t *testing.T) {
	g := sourcemap.NewGenerator("")
	g.AddLines("\nexport default {}\n\n  name: 1\n", "App.vue", position.Position{Line: 4, Column: 8})

	decoded, err := g.Map().Decode()
	require.NoError(t, err)
	require.Len(t, decoded, 2, "blank lines carry no mapping")
	assert.Equal(t, 1, decoded[0].GeneratedLine)
	assert.Equal(t, 5, decoded[0].OriginalLine)
	assert.Equal(t, 0, decoded[0].OriginalColumn)
	assert.Equal(t, 3, decoded[1].GeneratedLine)
	assert.Equal(t, 7, decoded[1].OriginalLine)
}

func TestInlineComment(t *testing.T) {
	m := &sourcemap.Map{Version: 3, Sources: []string{"a.ts"}, Mappings: "AAAA"}
	comment, err := m.InlineComment()
	require.NoError(t, err)

	prefix := "//# sourceMappingURL=data:application/json;base64,"
	require.True(t, strings.HasPrefix(comment, prefix))
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(comment, prefix))
	require.NoError(t, err)

	parsed, err := sourcemap.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, m, parsed)
}

func TestParseRejectsOtherVersions(t *testing.T) {
	_, err := sourcemap.Parse([]byte(`{"version":2,"mappings":""}`))
	assert.Error(t, err)
}

package sourcemap_test

import (
	"testing"

	"bennypowers.dev/sfcgen/internal/sourcemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptMap(t *testing.T) *sourcemap.Map {
	t.Helper()
	g := sourcemap.NewGenerator("")
	g.AddSource("App.vue", "stale script-side content")
	g.AddMapping(0, 0, "App.vue", 5, 0, "")
	g.AddMapping(1, 0, "App.vue", 6, 0, "")
	return g.Map()
}

func templateMap(t *testing.T) *sourcemap.Map {
	t.Helper()
	g := sourcemap.NewGenerator("")
	g.AddSource("App.vue", "fresh content")
	// 1-indexed (genLine=1, genCol=0) -> (srcLine=3, srcCol=2)
	g.AddMapping(0, 0, "App.vue", 2, 2, "")
	m := g.Map()
	// append a one-field segment with no source on the same line
	m.Mappings += ",C"
	return m
}

func TestCompose(t *testing.T) {
	script := scriptMap(t)
	tmpl := templateMap(t)
	scriptCode := "export default {}\nconst a = 1\nconst b = 2\n"

	composed, err := sourcemap.Compose(script, tmpl, scriptCode)
	require.NoError(t, err)

	decoded, err := composed.Decode()
	require.NoError(t, err)

	t.Run("script mappings are untouched", func(t *testing.T) {
		assert.Equal(t, 0, decoded[0].GeneratedLine)
		assert.Equal(t, 5, decoded[0].OriginalLine)
		assert.Equal(t, 1, decoded[1].GeneratedLine)
	})

	t.Run("template mappings shift by script line breaks", func(t *testing.T) {
		require.Len(t, decoded, 3, "sourceless template segment is dropped")
		last := decoded[2]
		assert.Equal(t, 3, last.GeneratedLine)
		assert.Equal(t, 0, last.GeneratedColumn)
		assert.Equal(t, 2, last.OriginalLine)
		assert.Equal(t, 2, last.OriginalColumn)
		assert.Equal(t, "App.vue", composed.Sources[last.Source])
	})

	t.Run("sources content comes from the template map", func(t *testing.T) {
		assert.Equal(t, []string{"fresh content"}, composed.SourcesContent)
	})
}

func TestComposeSingleMap(t *testing.T) {
	script := scriptMap(t)
	tmpl := templateMap(t)

	got, err := sourcemap.Compose(script, nil, "a\nb\n")
	require.NoError(t, err)
	assert.Same(t, script, got)

	got, err = sourcemap.Compose(nil, tmpl, "a\nb\n")
	require.NoError(t, err)
	assert.Same(t, tmpl, got, "no offset is applied to a lone template map")

	got, err = sourcemap.Compose(nil, nil, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

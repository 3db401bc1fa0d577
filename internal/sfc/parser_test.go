package sfc_test

import (
	"errors"
	"testing"

	"bennypowers.dev/sfcgen/internal/sfc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterSFC = `<template>
  <button class="btn">count</button>
</template>

<script lang="ts">
export default defineComponent({ name: 'Counter' })
</script>

<style scoped>
.btn { color: red; }
</style>

<style module="classes" lang="scss" data-theme>
.a { .b { color: blue; } }
</style>

<i18n lang="json">
{ "en": { "count": "Count" } }
</i18n>
`

func TestParse(t *testing.T) {
	d, errs := sfc.Parse(counterSFC, "/project/src/Counter.vue", sfc.ParseOptions{Root: "/project"})
	require.Empty(t, errs)

	t.Run("derives a stable id", func(t *testing.T) {
		assert.Len(t, d.ID, 8)
		assert.Equal(t, sfc.ComputeID("/project/src/Counter.vue", "/project", "", false), d.ID)
		assert.Equal(t, "data-v-"+d.ID, d.ScopeID())
	})

	t.Run("template", func(t *testing.T) {
		require.NotNil(t, d.Template)
		assert.Equal(t, "\n  <button class=\"btn\">count</button>\n", d.Template.Content)
		assert.Equal(t, 0, d.Template.Loc.Start.Line)
		assert.Equal(t, 10, d.Template.Loc.Start.Column)
	})

	t.Run("script", func(t *testing.T) {
		require.NotNil(t, d.Script)
		assert.Nil(t, d.ScriptSetup)
		assert.Equal(t, "ts", d.Script.Lang)
		assert.Equal(t, "ts", d.ScriptLang())
		assert.Contains(t, d.Script.Content, "defineComponent")
		assert.Equal(t, 4, d.Script.Loc.Start.Line)
	})

	t.Run("styles keep declaration order and flags", func(t *testing.T) {
		require.Len(t, d.Styles, 2)
		assert.True(t, d.Styles[0].Scoped)
		assert.False(t, d.Styles[0].IsModule())
		assert.True(t, d.HasScoped())

		assert.Equal(t, "classes", d.Styles[1].Module)
		assert.Equal(t, "scss", d.Styles[1].Lang)
		assert.Equal(t, []sfc.Attr{
			{Name: "module", Value: "classes", HasValue: true},
			{Name: "lang", Value: "scss", HasValue: true},
			{Name: "data-theme"},
		}, d.Styles[1].Attrs)
	})

	t.Run("custom blocks", func(t *testing.T) {
		require.Len(t, d.CustomBlocks, 1)
		assert.Equal(t, "i18n", d.CustomBlocks[0].Type)
		assert.Equal(t, "json", d.CustomBlocks[0].Lang)
	})
}

func TestParseBareModule(t *testing.T) {
	d, errs := sfc.Parse("<style module>\n.a { color: red; }\n</style>\n", "A.vue", sfc.ParseOptions{})
	require.Empty(t, errs)
	require.Len(t, d.Styles, 1)
	assert.Equal(t, "$style", d.Styles[0].Module)
}

func TestParseScriptSetup(t *testing.T) {
	source := "<script setup lang=\"ts\">\nconst a = 1\n</script>\n"
	d, errs := sfc.Parse(source, "A.vue", sfc.ParseOptions{})
	require.Empty(t, errs)
	require.NotNil(t, d.ScriptSetup)
	assert.True(t, d.ScriptSetup.Setup)
	assert.Nil(t, d.Script)
	assert.Equal(t, "ts", d.ScriptLang())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
		line    int
	}{
		{
			name:    "duplicate template",
			source:  "<template><p>a</p></template>\n<template><p>b</p></template>\n",
			message: "only one <template>",
			line:    1,
		},
		{
			name:    "duplicate script",
			source:  "<script>export default {}</script>\n<script>export default {}</script>\n",
			message: "only one <script>",
			line:    1,
		},
		{
			name:    "script setup with src",
			source:  "<script setup src=\"./a.ts\"></script>\n",
			message: "cannot use the \"src\" attribute",
			line:    0,
		},
		{
			name:    "mismatched script languages",
			source:  "<script lang=\"ts\">export default {}</script>\n<script setup>\nconst a = 1\n</script>\n",
			message: "same language type",
			line:    1,
		},
		{
			name:    "invalid css",
			source:  "<template><p>a</p></template>\n<style>\n.a { color: red; }\n}}} @@ ;\n</style>\n",
			message: "invalid CSS",
			line:    -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := sfc.Parse(tt.source, "Broken.vue", sfc.ParseOptions{})
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Message, tt.message)
			if tt.line >= 0 {
				assert.Equal(t, tt.line, errs[0].Loc.Line)
			}
			assert.True(t, errors.Is(errs[0], sfc.ErrParse))
			assert.Contains(t, errs[0].Error(), "Broken.vue:")
		})
	}
}

func TestComputeID(t *testing.T) {
	t.Run("relative to root", func(t *testing.T) {
		a := sfc.ComputeID("/a/src/App.vue", "/a", "x", false)
		b := sfc.ComputeID("/b/src/App.vue", "/b", "y", false)
		assert.Equal(t, a, b, "ids only depend on the relative path outside production")
	})

	t.Run("production mixes in source", func(t *testing.T) {
		a := sfc.ComputeID("/a/App.vue", "/a", "x", true)
		b := sfc.ComputeID("/a/App.vue", "/a", "y", true)
		assert.NotEqual(t, a, b)
	})
}

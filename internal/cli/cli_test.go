package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"bennypowers.dev/sfcgen/internal/cli"
	"bennypowers.dev/sfcgen/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greeting = `<template>
  <div class="greeting">Hello</div>
</template>

<script>
export default defineComponent({ name: 'Greeting' })
</script>

<style scoped>
.greeting { color: red }
</style>
`

// syncBuffer is a bytes.Buffer safe for concurrent use
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func run(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.LevelInfo)
	})

	var stdout, stderr syncBuffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "components", "Greeting.vue"), greeting)

	_, stderr, err := run(t, context.Background(), "compile", "--root", dir, "--concurrency", "2")
	require.NoError(t, err, stderr)
	assert.Contains(t, stderr, "compiled 1 documents")

	out := readFile(t, filepath.Join(dir, "components", "Greeting.vue.js"))
	assert.Contains(t, out, `Object.assign(defineComponent({ name: 'Greeting' }), { "render": _sfc_render, "__scopeId": "data-v-`)
	assert.Contains(t, out, "\nfunction _sfc_render(_ctx, _cache) {\n")
	assert.Contains(t, out, `?vue&type=style&index=0&scoped=`)
	assert.True(t, strings.HasSuffix(out, "//# sourceMappingURL=Greeting.vue.js.map\n"))

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(dir, "components", "Greeting.vue.js.map"))), &m))
	assert.Equal(t, "Greeting.vue.js", m["file"])
	assert.NotEmpty(t, m["mappings"])
}

func TestCompileOutDirWithoutMaps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "Greeting.vue"), greeting)

	_, stderr, err := run(t, context.Background(), "compile", "src/**/*.vue", "--root", dir, "--out-dir", "dist", "--source-map=false")
	require.NoError(t, err, stderr)

	out := readFile(t, filepath.Join(dir, "dist", "src", "Greeting.vue.js"))
	assert.NotContains(t, out, "sourceMappingURL")
	assert.NoFileExists(t, filepath.Join(dir, "dist", "src", "Greeting.vue.js.map"))
	assert.NoFileExists(t, filepath.Join(dir, "src", "Greeting.vue.js"))
}

func TestCompileTypeScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Typed.vue"), `<script lang="ts">
export default defineComponent({ name: 'Typed' as string })
</script>
`)

	_, stderr, err := run(t, context.Background(), "compile", "--root", dir)
	require.NoError(t, err, stderr)

	out := readFile(t, filepath.Join(dir, "Typed.vue.js"))
	assert.Contains(t, out, "defineComponent")
	assert.NotContains(t, out, "as string")
}

func TestCompileReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Broken.vue"), "<template><div></div></template>\n<template></template>\n")
	writeFile(t, filepath.Join(dir, "Greeting.vue"), greeting)

	_, stderr, err := run(t, context.Background(), "compile", "--root", dir)
	require.Error(t, err)
	assert.Contains(t, stderr, "only one <template> element")
	assert.Contains(t, stderr, "1 of 2 documents failed")
	assert.FileExists(t, filepath.Join(dir, "Greeting.vue.js"), "other documents still compile")
	assert.NoFileExists(t, filepath.Join(dir, "Broken.vue.js"))
}

func TestCompileNoMatches(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := run(t, context.Background(), "compile", "nothing/*.vue", "--root", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "no documents match nothing/*.vue")
}

func TestCompileQuietSuppressesNotes(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := run(t, context.Background(), "compile", "nothing/*.vue", "--root", dir, "--quiet")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "no documents match")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Greeting.vue")
	writeFile(t, path, greeting)

	t.Run("descriptor", func(t *testing.T) {
		stdout, _, err := run(t, context.Background(), "inspect", path, "--root", dir)
		require.NoError(t, err)
		assert.Contains(t, stdout, "filename: "+path)
		assert.Contains(t, stdout, "template:")
		assert.Contains(t, stdout, "scoped: true")
	})

	t.Run("compiled module", func(t *testing.T) {
		stdout, _, err := run(t, context.Background(), "inspect", path, "--root", dir, "--emit")
		require.NoError(t, err)
		assert.Contains(t, stdout, "function _sfc_render(")
	})
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, context.Background(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "sfcgen "))
}

func TestWatchRerendersTemplateEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Greeting.vue")
	out := path + ".js"
	writeFile(t, path, greeting)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stderr syncBuffer
	done := make(chan error, 1)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.LevelInfo)
	})
	go func() {
		cmd := cli.NewRootCmd()
		cmd.SetOut(&syncBuffer{})
		cmd.SetErr(&stderr)
		cmd.SetArgs([]string{"watch", "--root", dir, "--dev-server"})
		done <- cmd.ExecuteContext(ctx)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "watching")
	}, 5*time.Second, 20*time.Millisecond)
	first := readFile(t, out)
	assert.Contains(t, first, "import.meta.hot.accept(")
	assert.NotContains(t, first, "_rerender_only = true")

	writeFile(t, path, strings.Replace(greeting, "Hello", "Goodbye", 1))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && strings.Contains(string(data), "Goodbye")
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, readFile(t, out), "export const _rerender_only = true")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

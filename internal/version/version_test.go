package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildVars(t *testing.T, version, tag, commit, dirty string) {
	t.Helper()
	origVersion, origTag, origCommit, origDirty := Version, GitTag, GitCommit, GitDirty
	t.Cleanup(func() {
		Version, GitTag, GitCommit, GitDirty = origVersion, origTag, origCommit, origDirty
	})
	Version, GitTag, GitCommit, GitDirty = version, tag, commit, dirty
}

func TestGetVersion(t *testing.T) {
	t.Run("ldflags version wins", func(t *testing.T) {
		withBuildVars(t, "v1.2.3", "unknown", "unknown", "")
		assert.Equal(t, "v1.2.3", GetVersion())
	})

	t.Run("tag and short commit", func(t *testing.T) {
		withBuildVars(t, "dev", "v1.2.3", "abc1234567", "")
		assert.Equal(t, "v1.2.3-abc1234", GetVersion())
	})

	t.Run("no git info", func(t *testing.T) {
		withBuildVars(t, "dev", "unknown", "unknown", "")
		assert.Equal(t, "dev", GetVersion())
	})

	t.Run("dirty tree suffix", func(t *testing.T) {
		withBuildVars(t, "dev", "v1.0.0", "deadbeef00", "dirty")
		assert.Equal(t, "v1.0.0-deadbee-dirty", GetVersion())
	})
}

func TestInfoString(t *testing.T) {
	i := Info{Version: "v0.1.0", GitCommit: "abc1234", GoVersion: "go1.25.5", Platform: "linux/amd64"}
	assert.Equal(t, "sfcgen v0.1.0 (commit: abc1234, go1.25.5 linux/amd64)", i.String())

	i.GitCommit = "unknown"
	assert.Equal(t, "sfcgen v0.1.0 (go1.25.5 linux/amd64)", i.String())
}

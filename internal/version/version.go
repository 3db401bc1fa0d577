package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version information, set at build time via ldflags
	Version   = "dev"     // Version string (e.g., "v0.3.0")
	GitCommit = "unknown" // Git commit hash
	GitTag    = "unknown" // Git tag
	BuildTime = "unknown" // Build timestamp
	GitDirty  = ""        // "dirty" if working directory has uncommitted changes
)

// Info is the build metadata printed by `sfcgen version`
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	BuildTime string `json:"buildTime" yaml:"buildTime"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

// GetVersion returns the version string for the application
func GetVersion() string {
	if Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
	}

	if GitTag == "unknown" || GitCommit == "unknown" {
		return "dev"
	}

	version := GitTag
	commitSuffix := GitCommit
	if len(commitSuffix) > 7 {
		commitSuffix = commitSuffix[:7]
	}
	if commitSuffix != "" && !strings.HasSuffix(GitTag, commitSuffix) {
		version = fmt.Sprintf("%s-%s", GitTag, commitSuffix)
	}
	if GitDirty == "dirty" {
		version += "-dirty"
	}
	return version
}

// Get collects the build metadata for the running binary
func Get() Info {
	return Info{
		Version:   GetVersion(),
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the one-line form, e.g. "sfcgen v0.3.0 (commit: abc1234)"
func (i Info) String() string {
	if i.GitCommit != "unknown" && i.GitCommit != "" {
		return fmt.Sprintf("sfcgen %s (commit: %s, %s %s)", i.Version, i.GitCommit, i.GoVersion, i.Platform)
	}
	return fmt.Sprintf("sfcgen %s (%s %s)", i.Version, i.GoVersion, i.Platform)
}

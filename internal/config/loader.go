package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FileName is the name of the config file
const FileName = "sfcgen.yaml"

// FileNameAlt is the alternate name of the config file
const FileNameAlt = "sfcgen.yml"

// EnvPrefix prefixes environment variables, e.g. SFCGEN_SOURCE_MAP
const EnvPrefix = "SFCGEN_"

// Defaults are the lowest-precedence configuration values
func Defaults() map[string]any {
	return map[string]any{
		"root":           ".",
		"out_dir":        "",
		"include":        []string{"**/*.vue"},
		"production":     false,
		"source_map":     true,
		"ssr":            false,
		"custom_element": false,
		"dev_server":     false,
		"hmr":            true,
		"devtools":       false,
		"helpers":        []string{"defineComponent", "_defineComponent"},
		"concurrency":    runtime.NumCPU(),
		"verbose":        false,
		"quiet":          false,
		"tsconfig":       "tsconfig.json",
	}
}

// Load resolves the configuration. cfgFile names an explicit config file;
// when empty, sfcgen.yaml or sfcgen.yml is looked up in dir. Only flags the
// user changed override other sources. flags may be nil.
func Load(cfgFile, dir string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		cfgFile = findConfigFile(dir)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// SFCGEN_SOURCE_MAP -> source_map
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = cfgFile

	// relative roots are anchored at the config file, else the search dir
	if !filepath.IsAbs(cfg.Root) {
		base := dir
		if cfgFile != "" {
			base = filepath.Dir(cfgFile)
		}
		root, err := filepath.Abs(filepath.Join(base, cfg.Root))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root %s: %w", cfg.Root, err)
		}
		cfg.Root = root
	}
	if cfg.Tsconfig != "" && !filepath.IsAbs(cfg.Tsconfig) {
		cfg.Tsconfig = filepath.Join(cfg.Root, cfg.Tsconfig)
	}
	if cfg.OutDir != "" && !filepath.IsAbs(cfg.OutDir) {
		cfg.OutDir = filepath.Join(cfg.Root, cfg.OutDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns the config file in dir, or "" if there is none
func findConfigFile(dir string) string {
	for _, name := range []string{FileName, FileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

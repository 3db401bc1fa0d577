// Package config loads sfcgen configuration from defaults, an optional
// sfcgen.yaml, SFCGEN_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"fmt"

	"bennypowers.dev/sfcgen/internal/assemble"
	"bennypowers.dev/sfcgen/internal/log"
)

// Config is the resolved configuration
type Config struct {
	// Root is the project root; ids and server module paths are relative to it
	Root string `koanf:"root"`
	// OutDir receives compiled modules; empty writes them next to their sources
	OutDir string `koanf:"out_dir"`
	// Include are doublestar globs, relative to Root, selecting documents
	Include []string `koanf:"include"`

	Production    bool `koanf:"production"`
	SourceMap     bool `koanf:"source_map"`
	SSR           bool `koanf:"ssr"`
	CustomElement bool `koanf:"custom_element"`
	DevServer     bool `koanf:"dev_server"`
	HMR           bool `koanf:"hmr"`
	Devtools      bool `koanf:"devtools"`

	// Helpers are the define-component helper identifiers
	Helpers     []string `koanf:"helpers"`
	Concurrency int      `koanf:"concurrency"`
	Verbose     bool     `koanf:"verbose"`
	Quiet       bool     `koanf:"quiet"`
	// Tsconfig is read for TypeScript lowering options, relative to Root
	Tsconfig string `koanf:"tsconfig"`

	// File is the configuration file that was loaded, if any
	File string `koanf:"-"`
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("include must name at least one glob")
	}
	if c.Verbose && c.Quiet {
		return fmt.Errorf("verbose and quiet are mutually exclusive")
	}
	return nil
}

// AssembleOptions maps the configuration onto assembler options
func (c *Config) AssembleOptions() assemble.Options {
	return assemble.Options{
		Root:          c.Root,
		Production:    c.Production,
		SourceMap:     c.SourceMap,
		SSR:           c.SSR,
		CustomElement: c.CustomElement,
		DevServer:     c.DevServer,
		HMR:           c.HMR,
		Devtools:      c.Devtools,
		Helpers:       c.Helpers,
	}
}

// LogLevel is the minimum log level selected by Verbose and Quiet
func (c *Config) LogLevel() log.Level {
	switch {
	case c.Verbose:
		return log.LevelDebug
	case c.Quiet:
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

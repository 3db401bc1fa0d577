// Package cli provides the sfcgen command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bennypowers.dev/sfcgen/internal/config"
	"bennypowers.dev/sfcgen/internal/log"
	"bennypowers.dev/sfcgen/internal/version"
)

// configKey stores the loaded config in the command context
type configKey struct{}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "sfcgen",
		Short: "Compile single-file components into JavaScript modules",
		Long: `sfcgen compiles single-file component documents into JavaScript modules
for a bundler: the script is emitted inline, the other regions as virtual
module imports, with render functions, scope ids and hot-reload hooks woven
into the component object.`,
		Version: version.GetVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			flags := cmd.Root().PersistentFlags()
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			if flags.Changed("root") {
				root, _ := flags.GetString("root")
				abs, err := filepath.Abs(root)
				if err != nil {
					return err
				}
				if err := flags.Set("root", abs); err != nil {
					return err
				}
				dir = abs
			}

			cfg, err := config.Load(cfgFile, dir, flags)
			if err != nil {
				return err
			}

			log.SetOutput(cmd.ErrOrStderr())
			log.SetLevel(cfg.LogLevel())
			log.SetColor(!color.NoColor)
			if cfg.File != "" {
				log.Debug("Using config file: %s", cfg.File)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./sfcgen.yaml)")
	pf.String("root", "", "project root")
	pf.String("out-dir", "", "output directory (default: next to each document)")
	pf.StringSlice("include", nil, "globs selecting documents, relative to the root")
	pf.Bool("production", false, "production build")
	pf.Bool("source-map", true, "emit source maps")
	pf.Bool("ssr", false, "compile for server rendering")
	pf.Bool("custom-element", false, "compile as custom elements")
	pf.Bool("dev-server", false, "emit dev server metadata")
	pf.Bool("hmr", true, "emit hot-reload hooks when a dev server is present")
	pf.Bool("devtools", false, "expose the file name to devtools")
	pf.StringSlice("helpers", nil, "define-component helper identifiers")
	pf.Int("concurrency", 0, "documents compiled in parallel")
	pf.String("tsconfig", "", "tsconfig.json used for TypeScript lowering")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.BoolP("quiet", "q", false, "only print errors")

	rootCmd.AddCommand(newCompileCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// configFrom returns the config loaded by the root command
func configFrom(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration was not loaded")
	}
	return cfg, nil
}

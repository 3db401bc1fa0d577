package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newCompileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compile [globs...]",
		Short: "Compile documents into JavaScript modules",
		Long: `Compile every document matching the given globs (default: the configured
include globs) and write <document>.js next to it, or under --out-dir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			patterns := args
			if len(patterns) == 0 {
				patterns = cfg.Include
			}

			report := newReporter(cmd.ErrOrStderr())
			b, err := newBuilder(cfg, report)
			if err != nil {
				return err
			}
			paths, err := b.discover(patterns)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				report.note("no documents match %s", strings.Join(patterns, ", "))
				return nil
			}
			return b.compileAll(cmd.Context(), paths)
		},
	}
}

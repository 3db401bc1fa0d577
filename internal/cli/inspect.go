package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/sfcgen/internal/sfc"
)

func newInspectCommand() *cobra.Command {
	var emit bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the parsed regions of a document",
		Long: `Print the descriptor parsed from a document as YAML: its id and every
region with its attributes and location. With --emit, print the compiled
module instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			path := args[0]
			source, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied document path
			if err != nil {
				return err
			}
			report := newReporter(cmd.ErrOrStderr())

			if emit {
				b, err := newBuilder(cfg, report)
				if err != nil {
					return err
				}
				res, _, err := b.assembler.Transform(cmd.Context(), string(source), path, nil)
				if err != nil {
					return err
				}
				if len(res.Errors) > 0 {
					report.parseErrors(res.Errors)
					return errReported
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), res.Code)
				return err
			}

			d, errs := sfc.Parse(string(source), path, sfc.ParseOptions{Root: cfg.Root, Production: cfg.Production})
			if len(errs) > 0 {
				report.parseErrors(errs)
				return errReported
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(d); err != nil {
				return fmt.Errorf("failed to encode descriptor: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().BoolVar(&emit, "emit", false, "print the compiled module")
	return cmd
}

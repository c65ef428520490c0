package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tender-barbarian/go-describe/internal/cli/ui"
	"github.com/tender-barbarian/go-describe/internal/gen"
)

func newGenCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate registration code from describe directives",
		Long: `Index the codebase under the root and write one registration file per
package with described types. Packages with invalid directives are skipped
and reported; the others are still written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.index()
			if err != nil {
				return err
			}

			if f.HasProblems() {
				a.logger.Warn("index has invalid descriptions, affected packages are skipped")
			}

			w := &gen.Writer{Output: a.cfg.Output, DryRun: dryRun, Logger: a.logger}
			written, err := w.WriteAll(f.GetPackages())

			out := cmd.OutOrStdout()
			verb := "wrote"
			if dryRun {
				verb = "would write"
			}
			green := ui.Color(a.noColor, color.FgGreen)
			for _, path := range written {
				green.Fprintf(out, "%s %s\n", verb, path)
			}
			if err != nil {
				return fmt.Errorf("generating registrations: %w", err)
			}
			if len(written) == 0 {
				fmt.Fprintln(out, "no described types found")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the files that would be written without writing them")
	return cmd
}

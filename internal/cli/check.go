package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tender-barbarian/go-describe/internal/cli/ui"
)

// ErrInvalidDescriptions is returned by check when any directive has problems.
var ErrInvalidDescriptions = errors.New("invalid descriptions")

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [package-prefix]",
		Short: "Validate describe directives without generating code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prefix string
			if len(args) == 1 {
				prefix = args[0]
			}

			f, err := a.index()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ok := ui.Color(a.noColor, color.FgGreen)
			fail := ui.Color(a.noColor, color.FgRed, color.Bold)

			checked, invalid := 0, 0
			for _, ref := range f.DescribedTypes() {
				if !strings.HasPrefix(ref.Package, prefix) || ref.Problems > 0 {
					continue
				}
				checked++
				ok.Fprintf(out, "ok    %s.%s\n", ref.Package, ref.Name)
			}
			for _, t := range f.Invalid() {
				if !strings.HasPrefix(t.Package, prefix) {
					continue
				}
				checked++
				invalid++
				fail.Fprintf(out, "FAIL  %s.%s (%s:%d)\n", t.Package, t.Name, t.Location.File, t.Location.Line)
				for _, p := range t.Problems {
					fmt.Fprintf(out, "      %s\n", p)
				}
			}

			fmt.Fprintf(out, "%d described types, %d invalid\n", checked, invalid)
			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d types", ErrInvalidDescriptions, invalid, checked)
			}
			return nil
		},
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tender-barbarian/go-describe/internal/cli/ui"
	"github.com/tender-barbarian/go-describe/internal/finder"
	"github.com/tender-barbarian/go-describe/internal/symtab"
)

func newInspectCommand(a *app) *cobra.Command {
	var (
		match     string
		asJSON    bool
		described bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <type>",
		Short: "Show the fields, methods and directives of a type",
		Example: `  # Fields and methods of every type named User
  describe inspect User

  # Every described type whose name starts with Order, as JSON
  describe inspect Order --match prefix --described --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch finder.MatchMode(match) {
			case finder.MatchExact, finder.MatchPrefix, finder.MatchContains:
			default:
				return fmt.Errorf("unknown match mode %q", match)
			}

			f, err := a.index()
			if err != nil {
				return err
			}

			var found []*symtab.TypeInfo
			for _, ref := range f.FindType(args[0], finder.MatchMode(match)) {
				if described && !ref.Described {
					continue
				}
				t, err := f.GetType(ref.Package, ref.Name)
				if err != nil {
					return err
				}
				found = append(found, t)
			}
			if len(found) == 0 {
				return fmt.Errorf("no type matching %q", args[0])
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(found)
			}
			for i, t := range found {
				if i > 0 {
					fmt.Fprintln(out)
				}
				a.renderType(out, t)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&match, "match", string(finder.MatchExact), `match mode: "exact", "prefix" or "contains"`)
	cmd.Flags().BoolVar(&described, "described", false, "only show types carrying describe directives")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	return cmd
}

func (a *app) renderType(w io.Writer, t *symtab.TypeInfo) {
	ui.Color(a.noColor, color.Bold).Fprintf(w, "%s.%s", t.Package, t.Name)
	fmt.Fprintf(w, " (%s)\n", t.Kind)
	if t.Doc != "" {
		ui.Color(a.noColor, color.FgHiBlack).Fprintln(w, t.Doc)
	}

	var declared, methods []string
	if t.Directive != nil {
		declared = t.DeclaredFields()
		methods = t.Directive.Methods
	}

	if len(t.Fields) > 0 {
		fmt.Fprintln(w)
		fields := ui.NewTable(w, a.noColor, "FIELD", "TYPE", "POSITION", "COMMENT")
		for _, fi := range t.Fields {
			fields.AddRow(fi.Name, fi.Type, position(declared, fi.Name), fi.Comment)
		}
		fields.Render()
	}

	if len(t.Methods) > 0 {
		fmt.Fprintln(w)
		table := ui.NewTable(w, a.noColor, "METHOD", "SIGNATURE", "POSITION")
		for _, m := range t.Methods {
			table.AddRow(m.Name, m.Signature, position(methods, m.Name))
		}
		table.Render()
	}

	if len(t.Problems) > 0 {
		fmt.Fprintln(w)
		red := ui.Color(a.noColor, color.FgRed)
		for _, p := range t.Problems {
			red.Fprintln(w, p)
		}
	}
}

// position returns the 1-based position of name in list, or "-".
func position(list []string, name string) string {
	i := slices.Index(list, name)
	if i < 0 {
		return "-"
	}
	return strconv.Itoa(i + 1)
}

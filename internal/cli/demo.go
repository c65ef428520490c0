package cli

import (
	"github.com/spf13/cobra"

	"github.com/tender-barbarian/go-describe/internal/demo"
)

func newDemoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through pretty-printing, JSON and SQLite output of sample types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return demo.Run(cmd.Context(), cmd.OutOrStdout(), demo.Options{
				NoColor: a.noColor,
				Logger:  a.logger,
			})
		},
	}
}

package cli

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tender-barbarian/go-describe/internal/tools"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve type descriptions to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			f, err := a.index()
			if err != nil {
				return err
			}

			s := server.NewMCPServer(a.cfg.Server.Name, a.cfg.Server.Version, server.WithToolCapabilities(false))
			tools.Register(s, f)

			a.logger.Info("serving MCP over stdio",
				zap.String("root", f.Root()),
				zap.Int("packages", len(f.GetPackages())),
			)
			if err := server.ServeStdio(s); err != nil {
				return fmt.Errorf("serving MCP: %w", err)
			}
			return nil
		},
	}
}

// Package cli implements the describe command line.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tender-barbarian/go-describe/internal/config"
	"github.com/tender-barbarian/go-describe/internal/finder"
	"github.com/tender-barbarian/go-describe/internal/indexer"
)

var (
	// Version information, set at build time.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	configFile string
	root       string
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the describe command with all subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "describe",
		Short: "Field and method descriptions for Go types",
		Long: `describe checks and generates the field and method descriptions of Go
types and exposes them to tools.

Types opt in with comment directives in their doc comment:

  //describe:fields FirstName LastName Age
  //describe:methods FullName

"describe gen" turns the directives into registration code, "describe check"
validates them without writing anything, "describe serve" answers queries
over MCP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: describe.yaml in the working directory)")
	flags.StringVar(&a.root, "root", "", "root directory of the Go codebase (overrides config)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newGenCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newInspectCommand(a))
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newDemoCommand(a))
	rootCmd.AddCommand(newVersionCommand(a))

	return rootCmd
}

// Execute runs the root command and prints any error on stderr.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.root != "" {
		cfg.Root = a.root
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

// index loads and indexes the configured root.
func (a *app) index() (*finder.Finder, error) {
	info, err := os.Stat(a.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", a.cfg.Root)
	}

	idx, err := indexer.New(a.cfg.Root, indexer.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("creating indexer: %w", err)
	}
	if err := idx.Index(); err != nil {
		return nil, fmt.Errorf("indexing codebase: %w", err)
	}
	return finder.New(idx), nil
}

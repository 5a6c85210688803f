package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/readability/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Readability scores node-link drawings",
		Long: `Readability scores how easy a node-link drawing is to read.

Given node positions and links it reports four metrics in [0, 1] (1 is best):
edge crossings, crossing angle, and minimum and average angular resolution.
Drawings are read as JSON or YAML, or laid out from DOT with Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/readability/config.toml)")

	root.AddCommand(c.scoreCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/readability/pkg/drawing"
	"github.com/matzehuels/readability/pkg/layout"
	"github.com/matzehuels/readability/pkg/pipeline"
)

// layoutCommand creates the layout command for positioning DOT graphs.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		toDOT   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.dot]",
		Short: "Position a DOT graph with Graphviz and save it as a drawing",
		Long: `Position a DOT graph with Graphviz and save it as a drawing.

The layout command runs a Graphviz engine (neato, fdp, sfdp, dot, circo or
twopi) on a DOT graph and writes the node positions and links as a drawing
file that 'score' reads. The output format follows the extension of -o
(.json by default, .yaml or .yml for YAML).

With --dot the direction is reversed: a drawing is written as DOT with
pinned positions, ready for 'neato -n2 -Tsvg'.

Layouts are cached locally for faster subsequent runs.`,
		Example: `  readability layout graph.dot
  readability layout --engine sfdp -o big.yaml big.gv
  readability layout --dot -o drawing.dot drawing.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if toDOT {
				return c.runToDOT(args[0], output)
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.json, or <input>.dot with --dot)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&toDOT, "dot", false, "convert a drawing to DOT instead")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", fmt.Sprintf("graphviz engine (default %q)", pipeline.DefaultEngine))
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "points per inch applied to graphviz positions (default 72)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts")

	engines := make([]string, len(layout.Engines))
	for i, e := range layout.Engines {
		engines[i] = string(e)
	}
	_ = cmd.RegisterFlagCompletionFunc("engine", cobra.FixedCompletions(engines, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runLayout lays out the DOT graph at input and writes the drawing.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	if err := c.resolveOptions(&opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %s layout...", opts.Engine))
	spinner.Start()

	d, cacheHit, err := runner.LayoutWithCacheInfo(ctx, src, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = replaceExt(input, ".json")
	}
	if err := drawing.WriteFile(d, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(d.Nodes), len(d.Links), cacheHit)
	printNewline()
	printNextStep("Score", appName+" score "+outputPath)

	return nil
}

// runToDOT converts the drawing at input to DOT.
func (c *CLI) runToDOT(input, output string) error {
	d, err := drawing.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load drawing %s: %w", input, err)
	}
	if err := d.Validate(); err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = replaceExt(input, ".dot")
	}
	if err := os.WriteFile(outputPath, []byte(layout.ToDOT(d)), 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Converted to DOT")
	printFile(outputPath)
	printNextStep("Render", "neato -n2 -Tsvg "+outputPath)
	return nil
}

// replaceExt swaps the extension of path for ext.
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/readability/pkg/drawing"
	"github.com/matzehuels/readability/pkg/errors"
	"github.com/matzehuels/readability/pkg/pipeline"
	"github.com/matzehuels/readability/pkg/readability"
)

// Output formats of the score command.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// maxConcurrentFiles bounds how many inputs are scored at once.
const maxConcurrentFiles = 4

// scoreFlags holds the score command's flags that are not pipeline options.
type scoreFlags struct {
	output      string
	inputFormat string
	noCache     bool
	perNode     bool
	interactive bool
}

// scored is one input and its result.
type scored struct {
	File   string           `json:"file" yaml:"file"`
	Result *pipeline.Result `json:"result" yaml:"result"`
}

// scoreCommand creates the score command.
func (c *CLI) scoreCommand() *cobra.Command {
	var flags scoreFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "score [drawing...]",
		Short: "Score the readability of node-link drawings",
		Long: `Score the readability of node-link drawings.

Each argument is a drawing file: JSON or YAML with "nodes" (x, y and an
optional id) and "links" (source and target by id or node index), or a DOT
graph that is laid out with Graphviz first. Use "-" to read from stdin.

Four scores are reported, 1 being best:
  crossing              1 - crossings / max possible crossings
  crossingAngle         how close crossings come to the ideal angle
  angularResolutionMin  how close the tightest angle at each node is to even
  angularResolutionDev  how evenly links are spread around each node

Results are cached locally by content and options.`,
		Example: `  readability score graph.json
  readability score -f json a.json b.yaml
  cat graph.dot | readability score --input-format dot --engine fdp -
  readability score --per-node --ideal-angle 90 graph.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScore(cmd.Context(), args, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "format", "f", outputText, "output format: text, json, yaml")
	cmd.Flags().StringVar(&flags.inputFormat, "input-format", "", "input format: json, yaml, dot (default: from extension)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.perNode, "per-node", false, "show the angular resolution of every node (text output)")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "browse per-node results interactively")

	cmd.Flags().Float64Var(&opts.IdealAngle, "ideal-angle", 0, fmt.Sprintf("ideal crossing angle in degrees (default %v)", pipeline.DefaultIdealAngle))
	cmd.Flags().StringVar(&opts.Divisor, "divisor", "", `angular deviation divisor: degree, 2d-2 (default "degree")`)
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "parallel workers for crossing detection (default: number of CPUs)")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", fmt.Sprintf("graphviz engine for DOT input (default %q)", pipeline.DefaultEngine))
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "points per inch applied to graphviz positions (default 72)")
	cmd.Flags().BoolVar(&opts.Clamp, "clamp", false, "bound every score to [0, 1]")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{outputText, outputJSON, outputYAML}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("divisor", cobra.FixedCompletions([]string{"degree", "2d-2"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runScore scores every input and writes the results.
func (c *CLI) runScore(ctx context.Context, inputs []string, opts pipeline.Options, flags scoreFlags) error {
	if err := validateOutputFormat(flags.output); err != nil {
		return err
	}
	if flags.interactive && len(inputs) != 1 {
		return errors.New(errors.ErrCodeInvalidOption, "--interactive takes exactly one drawing")
	}
	opts.Format = flags.inputFormat
	if err := c.resolveOptions(&opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Scoring %d drawing(s)...", len(inputs)))
	if flags.output == outputText && !flags.interactive {
		spinner.Start()
	}

	results := make([]scored, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)
	for i, input := range inputs {
		g.Go(func() error {
			res, err := c.scoreInput(gctx, runner, input, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = scored{File: input, Result: res}
			return nil
		})
	}
	err = g.Wait()
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scored %d drawing(s)", len(inputs)))

	if flags.interactive {
		return runNodeBrowser(results[0])
	}
	return c.writeResults(c.Out, flags.output, results, flags.perNode)
}

func (c *CLI) scoreInput(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (*pipeline.Result, error) {
	if input != "-" {
		return runner.ExecuteFile(ctx, input, opts)
	}
	src, err := pipeline.ReadSource(os.Stdin)
	if err != nil {
		return nil, err
	}
	return runner.Execute(ctx, src, opts)
}

func validateOutputFormat(f string) error {
	switch f {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (must be text, json or yaml)", f)
}

// writeResults writes results to w. A single result is written as an
// object, several as a list.
func (c *CLI) writeResults(w io.Writer, format string, results []scored, perNode bool) error {
	var v any = results
	if len(results) == 1 {
		v = results[0]
	}

	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, renderResult(r, perNode))
	}
	return nil
}

// renderResult formats one result for the terminal.
func renderResult(r scored, perNode bool) string {
	var b strings.Builder
	res := r.Result

	b.WriteString(StyleTitle.Render(r.File))
	b.WriteString("\n")
	b.WriteString(renderScoreTable(res.Stats))
	b.WriteString("\n")
	b.WriteString(statsLine(res.Report.Nodes, res.Report.Links, res.CacheInfo.ScoreHit))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s crossings of %s possible · %d of %d nodes resolved",
		formatCount(res.Report.Crossings/2), formatCount(res.Report.MaxCrossings),
		res.Report.ResolvedNodes, res.Report.Nodes)))
	b.WriteString("\n")
	if dropped := res.Report.InputLinks - res.Report.Links; dropped > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d self-loop or duplicate link(s) ignored", dropped)))
		b.WriteString("\n")
	}

	if perNode && len(res.Report.PerNode) > 0 {
		b.WriteString("\n")
		b.WriteString(renderNodeTable(res.Report.PerNode, res.Drawing, -1))
		b.WriteString("\n")
	}
	return b.String()
}

// renderScoreTable renders the four scores with gauges.
func renderScoreTable(s readability.Stats) string {
	rows := [][]string{
		{"crossing", formatScore(s.Crossing), bar(s.Crossing, 20)},
		{"crossingAngle", formatScore(s.CrossingAngle), bar(s.CrossingAngle, 20)},
		{"angularResolutionMin", formatScore(s.AngularResolutionMin), bar(s.AngularResolutionMin, 20)},
		{"angularResolutionDev", formatScore(s.AngularResolutionDev), bar(s.AngularResolutionDev, 20)},
	}
	values := []float64{s.Crossing, s.CrossingAngle, s.AngularResolutionMin, s.AngularResolutionDev}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Metric", "Score", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if col == 0 {
				return StyleValue.Padding(0, 1)
			}
			return scoreStyle(values[row]).Padding(0, 1)
		})
	return t.Render()
}

// renderNodeTable lists per-node angular resolution. The cursor row is
// highlighted; pass -1 for none.
func renderNodeTable(nodes []readability.NodeResolution, d *drawing.Drawing, cursor int) string {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{
			nodeName(d, n.Index),
			fmt.Sprintf("%d", n.Degree),
			fmt.Sprintf("%.1f°", n.IdealAngle),
			fmt.Sprintf("%.1f°", n.MinAngle),
			formatScore(1 - n.MinDeviation),
			formatScore(1 - n.DevDeviation),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Degree", "Ideal", "Min gap", "Min", "Dev").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			style := StyleValue
			switch col {
			case 4:
				style = scoreStyle(1 - nodes[row].MinDeviation)
			case 5:
				style = scoreStyle(1 - nodes[row].DevDeviation)
			}
			if row == cursor {
				style = style.Bold(true).Reverse(true)
			}
			return style.Padding(0, 1)
		})
	return t.Render()
}

// nodeName returns the display name of node i.
func nodeName(d *drawing.Drawing, i int) string {
	if d != nil && i < len(d.Nodes) {
		if label := d.Nodes[i].DisplayLabel(); label != "" {
			return label
		}
	}
	return fmt.Sprintf("#%d", i)
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func formatCount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

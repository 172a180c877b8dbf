package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gotikz/gotikz/pkg/pipeline"
	"github.com/gotikz/gotikz/pkg/tikz"
)

// demo is a built-in picture shipped with the CLI.
type demo struct {
	name        string
	description string
	build       func() (*tikz.Picture, error)
}

// demos lists the built-in pictures in display order.
var demos = []demo{
	{"axes", "a coordinate grid with labeled axes", demoAxes},
	{"shapes", "filled and outlined basic shapes", demoShapes},
	{"nodes", "named nodes connected by edges", demoNodes},
	{"plot", "a sampled curve drawn with plot coordinates", demoPlot},
}

// demoCommand creates the demo command. With no argument it opens an
// interactive picker; with a name it renders that picture directly.
func (c *CLI) demoCommand() *cobra.Command {
	var opts buildOpts
	var formatsStr string
	var codeOnly bool

	cmd := &cobra.Command{
		Use:   "demo [name]",
		Short: "Render one of the built-in demo pictures",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}

			var d *demo
			var err error
			if len(args) == 1 {
				d, err = demoByName(args[0])
			} else {
				d, err = pickDemo()
			}
			if err != nil {
				return err
			}
			if d == nil {
				printInfo("No demo selected")
				return nil
			}

			pic, err := d.build()
			if err != nil {
				return fmt.Errorf("build demo %s: %w", d.name, err)
			}
			if codeOnly {
				fmt.Println(pic.Code(nil))
				return nil
			}

			if err := c.runBuild(cmd.Context(), pic, d.name+".tikz", &opts); err != nil {
				return err
			}
			printNextStep("See the source", "gotikz demo "+d.name+" --code")
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): pdf (default), png, svg, tex (comma-separated)")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "PNG resolution (default: configured file DPI)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompile even when cached")
	cmd.Flags().BoolVar(&codeOnly, "code", false, "print the TikZ code instead of rendering")

	return cmd
}

// demoByName looks up a built-in demo.
func demoByName(name string) (*demo, error) {
	for i := range demos {
		if demos[i].name == name {
			return &demos[i], nil
		}
	}
	return nil, fmt.Errorf("unknown demo: %s (try one of: axes, shapes, nodes, plot)", name)
}

// pickDemo runs the interactive picker. A nil result means the user quit
// without selecting.
func pickDemo() (*demo, error) {
	model, err := tea.NewProgram(newDemoListModel(demos)).Run()
	if err != nil {
		return nil, fmt.Errorf("run picker: %w", err)
	}
	final, ok := model.(demoListModel)
	if !ok {
		return nil, fmt.Errorf("unexpected picker model %T", model)
	}
	return final.Selected, nil
}

// =============================================================================
// Built-in Pictures
// =============================================================================

func demoAxes() (*tikz.Picture, error) {
	pic := tikz.NewPicture()
	if err := pic.Draw(tikz.NewOptions("help lines"),
		tikz.XY(-2, -2), tikz.Grid(tikz.XY(2, 2), 0.5)); err != nil {
		return nil, err
	}
	if err := pic.Draw(tikz.NewOptions("->"),
		tikz.XY(-2.2, 0), tikz.LineTo(tikz.XY(2.2, 0)),
		tikz.Node("$x$").WithOptions(tikz.NewOptions("right"))); err != nil {
		return nil, err
	}
	if err := pic.Draw(tikz.NewOptions("->"),
		tikz.XY(0, -2.2), tikz.LineTo(tikz.XY(0, 2.2)),
		tikz.Node("$y$").WithOptions(tikz.NewOptions("above"))); err != nil {
		return nil, err
	}
	return pic, nil
}

func demoShapes() (*tikz.Picture, error) {
	pic := tikz.NewPicture()
	if err := pic.Fill(tikz.NewOptions("blue!20"),
		tikz.XY(0, 0), tikz.Circle(1)); err != nil {
		return nil, err
	}
	if err := pic.Draw(tikz.NewOptions("thick"),
		tikz.XY(-1.5, -1.5), tikz.Rectangle(tikz.XY(1.5, 1.5))); err != nil {
		return nil, err
	}
	arc := tikz.Arc(0.5).WithOptions(tikz.NewOptions().Set("start_angle", 0).Set("end_angle", 180))
	if err := pic.Draw(tikz.NewOptions().Set("color", "red"), tikz.XY(2, 0), arc); err != nil {
		return nil, err
	}
	return pic, nil
}

func demoNodes() (*tikz.Picture, error) {
	pic := tikz.NewPicture()
	style := tikz.NewOptions("draw", "circle")
	pic.Node(tikz.Node("A").Name("a").At(tikz.XY(0, 0)), style)
	pic.Node(tikz.Node("B").Name("b").At(tikz.XY(2, 1)), style)
	pic.Node(tikz.Node("C").Name("c").At(tikz.XY(4, 0)), style)
	if err := pic.Draw(tikz.NewOptions("->"),
		tikz.Named("a"), tikz.LineTo(tikz.Named("b"), tikz.Named("c"))); err != nil {
		return nil, err
	}
	return pic, nil
}

func demoPlot() (*tikz.Picture, error) {
	pic := tikz.NewPicture()
	points := make([][]float64, 0, 21)
	for i := 0; i <= 20; i++ {
		x := float64(i) / 5
		points = append(points, []float64{x, x * x / 4})
	}
	seq, err := tikz.AsSequence(points)
	if err != nil {
		return nil, err
	}
	if err := pic.Draw(tikz.NewOptions("smooth", "thick"), tikz.PlotSeq(seq)); err != nil {
		return nil, err
	}
	if err := pic.Draw(tikz.NewOptions("->"),
		tikz.XY(0, 0), tikz.LineTo(tikz.XY(4.2, 0))); err != nil {
		return nil, err
	}
	return pic, nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/io"
	"github.com/matzehuels/xdsm/pkg/xdsm"
)

// defaultInitPath is where init writes the example when no path is given.
const defaultInitPath = "kitchen_sink.toml"

// initCommand creates the init command, which writes an example definition
// that exercises every feature.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the kitchen-sink example definition",
		Long: `Write an example definition that uses every feature: all system styles,
multi-line and stacked labels, faded systems, inputs, left and right outputs,
process chains and an overwritten connection.

The file format follows the extension of path: .toml (default), .yaml, .json
or .hcl.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultInitPath
			if len(args) == 1 {
				path = args[0]
			}
			return runInit(path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func runInit(path string, force bool) error {
	if _, err := io.DetectFormat(path); err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
		}
	}

	d, err := kitchenSink()
	if err != nil {
		return err
	}
	if err := io.ExportFile(io.FromDiagram(d), path); err != nil {
		return err
	}

	printSuccess("Wrote %s", StyleHighlight.Render(path))
	printDetail("%s, %s", plural(len(d.Systems()), "system"), plural(len(d.Connections()), "connection"))
	printNextStep("Render it", fmt.Sprintf("%s render %s --build", appName, path))
	printNextStep("Preview it", fmt.Sprintf("%s render %s -f svg -o %s_preview", appName, path,
		strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))))
	return nil
}

// kitchenSink builds the example diagram.
func kitchenSink() (*xdsm.Diagram, error) {
	d := xdsm.New(xdsm.DefaultConfig())

	d.AddSystem("opt", "Optimization", xdsm.Text(`\text{Optimizer}`))
	d.AddSystem("DOE", "DOE", xdsm.Text(`\text{DOE}`))
	d.AddSystem("MDA", "MDA", xdsm.Text(`\text{Newton}`))
	d.AddSystem("D1", "Function", xdsm.Text("D_1"))
	d.AddSystem("D2", "ImplicitFunction", xdsm.Text("D_2"), xdsm.Faded())
	d.AddSystem("D3", "ImplicitFunction", xdsm.Text("D_3"))
	d.AddSystem("subopt", "SubOptimization", xdsm.Text("SubOpt"))
	d.AddSystem("G1", "Group", xdsm.Text("G_1"))
	d.AddSystem("G2", "ImplicitGroup", xdsm.Text("G_2"))
	d.AddSystem("MM", "Metamodel", xdsm.Text("MM"))
	d.AddSystem("F", "Function", xdsm.Lines("F", `\text{Functional}`))
	d.AddSystem("H", "Function", xdsm.Text("H"), xdsm.Stacked())

	d.AddProcess([]string{"opt", "DOE", "MDA", "D1", "D2", "subopt", "G1", "G2", "MM", "F", "H", "opt"}, true)

	connections := []struct {
		src, dst, label string
		stacked         bool
	}{
		{"opt", "D1", "x, z, y_2", false},
		{"opt", "D2", "z, y_1", false},
		{"opt", "D3", "z, y_1", false},
		{"opt", "subopt", "z, y_1", false},
		{"subopt", "G1", "z_2", false},
		{"subopt", "G2", "z_2", false},
		{"subopt", "MM", "z_2", false},
		{"opt", "G2", "z", false},
		{"opt", "F", "x, z", false},
		{"opt", "F", "y_1, y_2", false}, // replaces the previous label
		{"opt", "H", "y_1, y_2", true},
		{"D1", "opt", `\mathcal{R}(y_1)`, false},
		{"D2", "opt", `\mathcal{R}(y_2)`, false},
		{"F", "opt", "f", false},
		{"H", "opt", "h", true},
	}
	for _, c := range connections {
		var opts []xdsm.Option
		if c.stacked {
			opts = append(opts, xdsm.Stacked())
		}
		if err := d.Connect(c.src, c.dst, xdsm.Text(c.label), opts...); err != nil {
			return nil, err
		}
	}

	d.AddInput("D1", xdsm.Text("P_1"))
	d.AddInput("D2", xdsm.Text("P_2"))
	d.AddInput("opt", xdsm.Text("x_0"), xdsm.Stacked())

	d.AddOutput("opt", xdsm.Text("x^*, z^*"), xdsm.SideRight)
	d.AddOutput("D1", xdsm.Text("y_1^*"), xdsm.SideLeft)
	d.AddOutput("D2", xdsm.Text("y_2^*"), xdsm.SideLeft)
	d.AddOutput("F", xdsm.Text("f^*"), xdsm.SideRight)
	d.AddOutput("H", xdsm.Text("h^*"), xdsm.SideRight)
	d.AddOutput("opt", xdsm.Text("y^*"), xdsm.SideLeft)

	d.AddProcess([]string{"output_opt", "opt", "left_output_opt"}, true)
	return d, nil
}

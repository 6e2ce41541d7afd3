package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/io"
	"github.com/matzehuels/xdsm/pkg/render/nodelink"
)

// dotCommand creates the dot command, which prints the node-link preview of
// a definition in Graphviz DOT.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		opts   nodelink.Options
		output string
	)

	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Print the node-link preview of a definition as Graphviz DOT",
		Long: `Print the node-link preview of a definition as Graphviz DOT.

Systems become boxes filled by style, connections become labelled edges and
inputs and outputs become plain-text terminals. With --processes the process
chains are drawn as numbered dotted edges.

Examples:
  xdsm dot kitchen_sink.toml | dot -Tpng -o preview.png
  xdsm dot kitchen_sink.toml --processes -o preview.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := io.ImportDiagram(args[0])
			if err != nil {
				return err
			}
			dot, err := nodelink.ToDOT(d, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
				return err
			}
			if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}
			loggerFromContext(cmd.Context()).Info("wrote preview", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "append the style to every label")
	cmd.Flags().BoolVar(&opts.Processes, "processes", false, "draw process chains")
	return cmd
}

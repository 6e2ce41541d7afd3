package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/xdsm/pkg/io"
	"github.com/matzehuels/xdsm/pkg/pipeline"
	"github.com/matzehuels/xdsm/pkg/store"
)

// diagramsCommand creates the diagrams command, which manages the local
// file store shared with 'serve --store file'.
func (c *CLI) diagramsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "diagrams",
		Aliases: []string{"d"},
		Short:   "Manage the local diagram store",
		Long: `Manage the local diagram store.

Stored diagrams are the ones served by 'xdsm serve --store file', so a
definition added here can be rendered over HTTP and vice versa.`,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "store directory (default: [server] store_dir or ~/.local/share/xdsm/diagrams)")

	open := func() (*store.FileStore, error) {
		d := dir
		if d == "" {
			d = c.Config.Server.StoreDir
		}
		return store.NewFileStore(d)
	}

	cmd.AddCommand(c.diagramsAddCommand(open))
	cmd.AddCommand(c.diagramsListCommand(open))
	cmd.AddCommand(c.diagramsShowCommand(open))
	cmd.AddCommand(c.diagramsRemoveCommand(open))
	cmd.AddCommand(c.diagramsRenderCommand(open))
	return cmd
}

type openStoreFunc func() (*store.FileStore, error)

func (c *CLI) diagramsAddCommand(open openStoreFunc) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add file",
		Short: "Store a definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := io.ImportFile(args[0])
			if err != nil {
				return err
			}
			if _, err := io.ToDiagram(def); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			st, err := open()
			if err != nil {
				return err
			}
			rec := store.New(name, def)
			if err := st.Put(cmd.Context(), rec); err != nil {
				return err
			}
			printSuccess("Stored %s", StyleHighlight.Render(name))
			printKeyValue("ID", rec.ID)
			printKeyValue("Path", st.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "diagram name (default: file name without extension)")
	return cmd
}

func (c *CLI) diagramsListCommand(open openStoreFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored diagrams, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open()
			if err != nil {
				return err
			}
			recs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No stored diagrams")
				return nil
			}
			fmt.Fprintln(out, diagramTable(recs))
			return nil
		},
	}
}

func (c *CLI) diagramsShowCommand(open openStoreFunc) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show id",
		Short: "Print a stored definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := io.ParseFormat(format)
			if err != nil {
				return err
			}
			st, err := open()
			if err != nil {
				return err
			}
			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return io.Write(rec.Definition, cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(io.FormatTOML), "definition format: toml, yaml, json or hcl")
	return cmd
}

func (c *CLI) diagramsRemoveCommand(open openStoreFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "rm id...",
		Aliases: []string{"delete"},
		Short:   "Delete stored diagrams",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open()
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := st.Delete(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}

func (c *CLI) diagramsRenderCommand(open openStoreFunc) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [id]",
		Short: "Render a stored diagram",
		Long: `Render a stored diagram into the current directory.

The output prefix defaults to the diagram name. With no id, an interactive
picker lists the stored diagrams.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.Config.Render)
			if err != nil {
				return err
			}
			st, err := open()
			if err != nil {
				return err
			}
			id := ""
			if len(args) == 1 {
				id = args[0]
			} else if id, err = pickStoredDiagram(cmd.Context(), st); err != nil || id == "" {
				return err
			}
			return c.runRenderStored(cmd.Context(), st, id, opts, flags)
		},
	}
	addRenderFlags(cmd, &flags)
	return cmd
}

func (c *CLI) runRenderStored(ctx context.Context, st store.Store, id string, opts pipeline.Options, flags renderFlags) error {
	rec, err := st.Get(ctx, id)
	if err != nil {
		return err
	}
	if opts.Output == "" {
		opts.Output = rec.Name
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, rec.Definition, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", rec.Name, err)
	}
	printResult(rec.Name, res, flags.summary)
	return nil
}

// pickStoredDiagram lets the user choose a stored diagram. It returns ""
// when the store is empty or the user quit.
func pickStoredDiagram(ctx context.Context, st store.Store) (string, error) {
	recs, err := st.List(ctx)
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		printInfo("No stored diagrams")
		return "", nil
	}
	items := make([]pickItem, len(recs))
	for i, rec := range recs {
		items[i] = pickItem{Name: rec.Name, Kind: plural(len(rec.Definition.Systems), "system"), Updated: rec.UpdatedAt}
	}
	i, err := runPicker("Select Diagram", items)
	if err != nil || i < 0 {
		return "", err
	}
	return recs[i].ID, nil
}

// diagramTable renders stored diagrams as a table.
func diagramTable(recs []*store.Diagram) string {
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		rows[i] = []string{
			rec.ID,
			rec.Name,
			fmt.Sprint(len(rec.Definition.Systems)),
			formatRelativeTime(rec.UpdatedAt),
		}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Systems", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col == 3:
				return StyleDim
			default:
				return StyleValue
			}
		}).
		Render()
}

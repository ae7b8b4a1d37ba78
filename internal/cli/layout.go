package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/render/sink"
	"github.com/matzehuels/lineage/pkg/scene"
)

// layoutCommand creates the layout command, which prints where every shown
// person sits after the clicks are replayed.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  treeFlags
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout [source]",
		Short: "Print the positions of a laid-out family tree",
		Long: `Print the positions of a laid-out family tree.

Positions are given in screen coordinates of the chosen orientation: x grows
with the generation in horizontal charts and y in vertical ones. Use --json
or --output for the wire form that the browser host consumes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rec, _, err := c.loadRecord(ctx, args[0], flags.noCache)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			sess, err := runner.Interact(ctx, rec, popts)
			if err != nil {
				return fmt.Errorf("compute layout: %w", err)
			}
			return c.writeLayout(ctx, sess.Snapshot(), output, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON layout to a file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON layout instead of a table")

	return cmd
}

func (c *CLI) writeLayout(_ context.Context, snap scene.Snapshot, output string, asJSON bool) error {
	if output != "" || asJSON {
		data, err := sink.EncodeSnapshot(snap)
		if err != nil {
			return err
		}
		if output == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Layout complete")
		printFile(output)
		return nil
	}

	fmt.Println(layoutTable(snap))
	b := snap.Bounds
	printDetail("bounds: rank %s..%s, order %s..%s",
		scene.Num(b.MinRank), scene.Num(b.MaxRank), scene.Num(b.MinOrder), scene.Num(b.MaxOrder))
	return nil
}

// layoutTable renders the shown nodes in pre-order, indented by depth.
func layoutTable(snap scene.Snapshot) string {
	o := snap.Layout.Orientation
	rows := make([][]string, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		x, y := o.Project(n.Pos)
		state := ""
		switch {
		case n.Collapsed:
			state = "⊕"
		case n.HasChildren:
			state = "−"
		}
		rows = append(rows, []string{
			strconv.Itoa(int(n.ID)),
			strings.Repeat("  ", n.Depth) + n.Person.Name,
			state,
			scene.Num(x),
			scene.Num(y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Person", "", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return StyleValue
			case col == 2:
				return StyleHighlight
			default:
				return StyleDim
			}
		}).
		Render()
}

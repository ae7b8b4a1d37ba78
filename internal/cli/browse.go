package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the browse command, the terminal counterpart of
// serve.
func (c *CLI) browseCommand() *cobra.Command {
	var flags treeFlags

	cmd := &cobra.Command{
		Use:   "browse [source]",
		Short: "Explore a family tree in the terminal",
		Long: `Explore a family tree in the terminal.

Select a person with the arrow keys and press enter to expand or collapse
their children. Press / to find someone by name, b to read a bio and ? for
all keys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			popts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
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
				return err
			}

			p := tea.NewProgram(newBrowseModel(sess, c.Config.Viewport),
				tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

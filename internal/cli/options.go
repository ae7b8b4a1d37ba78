package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// treeFlags are shared by every command that lays out a tree. Unset flags
// fall back to the config file.
type treeFlags struct {
	depth       int
	clicks      []string
	orientation string
	connector   string
	easing      string
	durationMS  int64
	noCache     bool
}

func (f *treeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.depth, "depth", "d", 1, "generations shown below the root, at least 1 (-1 shows all)")
	cmd.Flags().StringArrayVarP(&f.clicks, "click", "c", nil, "click a person by name before rendering (repeatable)")
	cmd.Flags().StringVar(&f.orientation, "orientation", "", "horizontal (default) or vertical")
	cmd.Flags().StringVar(&f.connector, "connector", "", "link style: elbow (default) or curve")
	cmd.Flags().StringVar(&f.easing, "easing", "", "transition easing: cubic-in-out (default) or linear")
	cmd.Flags().Int64Var(&f.durationMS, "duration", 0, "transition duration in milliseconds")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// pipelineOptions merges the config file with the flags the user set.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f *treeFlags) (pipeline.Options, error) {
	cfg := c.Config
	opts := pipeline.Options{
		Layout:       cfg.Layout,
		InitialDepth: cfg.Render.InitialDepth,
		Connector:    cfg.Animation.Connector,
		Easing:       cfg.Animation.Easing,
		DurationMS:   cfg.Animation.DurationMS,
		Clicks:       f.clicks,
		Logger:       c.Logger,
	}

	flags := cmd.Flags()
	if flags.Changed("depth") {
		opts.InitialDepth = f.depth
	}
	if flags.Changed("orientation") {
		o, err := layout.ParseOrientation(f.orientation)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Layout.Orientation = o
	}
	if flags.Changed("connector") {
		opts.Connector = f.connector
	}
	if flags.Changed("easing") {
		opts.Easing = f.easing
	}
	if flags.Changed("duration") {
		opts.DurationMS = f.durationMS
	}
	return opts, nil
}

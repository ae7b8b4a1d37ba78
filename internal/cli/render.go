package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/source"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	treeFlags
	output  string  // output file (single format) or base path
	formats string  // comma-separated output formats
	scale   float64 // PNG resolution factor
	bios    bool    // hover tooltips with bios
	refresh bool    // ignore cached artifacts
}

// renderCommand creates the render command for writing output files.
//
// The tree is laid out once, the clicks are replayed in order, and every
// requested format is written. Static formats show the final scene; the
// anim and plan formats hold the transition of the last click.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a family tree to files",
		Long: `Render a family tree to SVG, animated SVG, PNG, PDF, JSON or DOT.

The source is a YAML or JSON file, or a MongoDB URI naming the family in
its fragment (mongodb://host/#Name).`,
		Example: `  lineage render family.yaml
  lineage render family.yaml -f svg,anim -c "Friedrich III"
  lineage render family.yaml -f png --depth -1 --orientation vertical`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.pipelineOptions(cmd, &opts.treeFlags)
			if err != nil {
				return err
			}
			popts.Formats = pipeline.ParseFormats(opts.formats)
			popts.Scale = opts.scale
			popts.Bios = opts.bios
			popts.Refresh = opts.refresh
			return c.runRender(cmd.Context(), args[0], opts, popts)
		},
	}

	opts.treeFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default svg)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG resolution factor")
	cmd.Flags().BoolVar(&opts.bios, "bios", false, "add bios as hover tooltips")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, locator string, opts renderOpts, popts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	rec, loader, err := c.loadRecord(ctx, locator, opts.noCache)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, rec, popts)
	if err != nil {
		return err
	}

	base := defaultBase(loader)
	var written []string
	for _, format := range popts.Formats {
		path := outputPath(opts.output, base, format, len(popts.Formats))
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))
	printSuccess("Rendered %s", rec.Name)
	printStats(result.Stats.Persons, result.Stats.Visible, len(popts.Clicks), result.CacheInfo.RenderHit)
	for _, path := range written {
		printFile(path)
	}
	if len(popts.Clicks) == 0 && popts.InitialDepth >= 0 {
		printNextStep("Explore interactively", appName+" serve "+locator)
	}
	return nil
}

// outputPath names the file for one format. Without --output the files
// are named after the source. A single format writes to --output as
// given; several formats use it as a base path.
func outputPath(output, base, format string, count int) string {
	if output == "" {
		return base + pipeline.Extensions[format]
	}
	if count == 1 {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + pipeline.Extensions[format]
}

// defaultBase derives an output name from the source: the file name
// without extension, or the family name of a database source.
func defaultBase(loader source.Loader) string {
	switch l := loader.(type) {
	case *source.File:
		name := filepath.Base(l.Path())
		return strings.TrimSuffix(name, filepath.Ext(name))
	case *source.Cached:
		return defaultBase(l.Inner())
	case *source.Mongo:
		if f := l.Family(); f != "" {
			return slug(f)
		}
	}
	return appName
}

// slug turns a family name into a file name.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/server"
	"github.com/matzehuels/lineage/pkg/source"
)

// serveCommand creates the serve command, which hosts the interactive
// chart in the browser.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags treeFlags
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve an interactive family tree in the browser",
		Long: `Serve an interactive family tree in the browser.

Click a person to expand or collapse their children; hover to read their
bio. With --watch, edits to a file source reload every open page.

Rendered exports are cached in Redis when server.redis_url is set in the
config file, and on disk otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			popts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			ttl, err := c.Config.Server.TTL()
			if err != nil {
				return err
			}
			popts.SessionTTL = ttl
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			loader, err := c.openSource(args[0], flags.noCache)
			if err != nil {
				return err
			}
			if _, ok := loader.(*source.File); !ok && watch {
				printWarning("--watch only applies to file sources")
			}

			runner, err := c.serveRunner(cmd, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv, err := server.New(ctx, loader, server.Options{
				Addr:        addr,
				Viewport:    c.Config.Viewport,
				Pipeline:    popts,
				Runner:      runner,
				MaxSessions: c.Config.Server.MaxSessions,
				Watch:       watch,
				Logger:      c.Logger,
			})
			if err != nil {
				return err
			}

			printSuccess("Serving %s", loader.Locator())
			printKeyValue("Persons", fmt.Sprint(srv.Record().Count()))
			printKeyValue("Address", StyleLink.Render(displayURL(addr)))
			if watch {
				printDetail("watching for changes")
			}
			return srv.Run(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload open pages when the source file changes")

	return cmd
}

// serveRunner picks the artifact cache: Redis when configured, the local
// file cache otherwise. Redis keys carry the configured prefix.
func (c *CLI) serveRunner(cmd *cobra.Command, noCache bool) (*pipeline.Runner, error) {
	url := c.Config.Server.RedisURL
	if noCache || url == "" {
		return c.newRunner(noCache)
	}

	rc, err := cache.NewRedisCache(cmd.Context(), url)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if p := c.Config.Server.KeyPrefix; p != "" {
		keyer = cache.NewScopedKeyer(keyer, p)
	}
	return pipeline.NewRunner(rc, keyer, c.Logger), nil
}

// displayURL turns a listen address into something a browser accepts.
func displayURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/waymark/internal/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the roadmap API over HTTP until interrupted.

Storage, sessions and the diagram cache follow the [store], [session] and
[cache] sections of the config file. WAYMARK_STORE=mongo with
WAYMARK_MONGO_URI, and WAYMARK_SESSION_STORE=redis with WAYMARK_REDIS_ADDR,
select the shared backends for multi-instance deployments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			sessions, err := newSessionStore(ctx, cfg)
			if err != nil {
				return err
			}
			svc, err := c.newService(ctx, cfg, sessions)
			if err != nil {
				sessions.Close()
				return err
			}
			defer svc.Close()

			c.Logger.Info("backends",
				"store", cfg.Store.Backend,
				"sessions", cfg.Session.Backend,
				"cache", cfg.Cache.Backend,
			)

			srv := server.New(svc, server.Options{
				Addr:        cfg.Server.Addr,
				CORSOrigins: cfg.Server.CORSOrigins,
				Logger:      c.Logger,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

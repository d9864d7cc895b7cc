// Package cli implements the waymark command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waymark/pkg/buildinfo"
	"github.com/matzehuels/waymark/pkg/cache"
	"github.com/matzehuels/waymark/pkg/config"
	"github.com/matzehuels/waymark/pkg/observability"
	"github.com/matzehuels/waymark/pkg/pipeline"
	"github.com/matzehuels/waymark/pkg/service"
	"github.com/matzehuels/waymark/pkg/session"
	"github.com/matzehuels/waymark/pkg/store"
	"github.com/matzehuels/waymark/pkg/store/mongo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "waymark"

	// cacheScope prefixes every diagram cache key.
	cacheScope = "waymark:diagram:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	storeName  string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the diagram, cache
// and HTTP hooks start logging too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.SetDiagramHooks(observability.LogDiagramHooks{})
		observability.SetCacheHooks(observability.LogCacheHooks{})
		observability.SetHTTPHooks(observability.LogHTTPHooks{})
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Waymark lets you browse, create and visualize learning roadmaps",
		Long:         `Waymark is a CLI and HTTP service for learning roadmaps: step trees that can be liked, commented on, and drawn as expandable tree diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/waymark/config.toml)")
	root.PersistentFlags().StringVar(&c.storeName, "store", "", "roadmap store: memory, mongo (overrides config)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the diagram cache")

	// Register all subcommands
	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.createCommand())
	root.AddCommand(c.commentCommand())
	root.AddCommand(c.likeCommand())
	root.AddCommand(c.profileCommand())
	root.AddCommand(c.loginCommand())
	root.AddCommand(c.logoutCommand())
	root.AddCommand(c.whoamiCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file and applies command-line overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.storeName != "" {
		cfg.Store.Backend = c.storeName
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	return cfg, cfg.Validate()
}

// =============================================================================
// Service Factory
// =============================================================================

// app bundles a service with the CLI's persistent session.
type app struct {
	svc      *service.Service
	cfg      config.Config
	sessions *session.CLIStore
	sess     *session.Session
}

// Close releases the service.
func (a *app) Close() error {
	return a.svc.Close()
}

// warnVolatile tells the user that writes to the memory store end with the
// process.
func (a *app) warnVolatile() {
	if a.cfg.Store.Backend == config.BackendMemory {
		printWarning("The memory store is not persisted; use --store mongo to keep changes")
	}
}

// open builds the service for a one-shot CLI command. Sessions always live in
// the file store so that login and likes survive between invocations.
func (c *CLI) open(ctx context.Context) (*app, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewCLIStore(cfg.Session.Dir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	sess, err := sessions.LoadOrCreate(ctx, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	svc, err := c.newService(ctx, cfg, sessions.Store())
	if err != nil {
		return nil, err
	}
	return &app{svc: svc, cfg: cfg, sessions: sessions, sess: sess}, nil
}

// newService wires the repository and the diagram pipeline from cfg.
func (c *CLI) newService(ctx context.Context, cfg config.Config, sessions session.Store) (*service.Service, error) {
	repo, err := c.newRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		repo.Close()
		return nil, err
	}
	return service.New(service.Options{
		Repo:       repo,
		Sessions:   sessions,
		Runner:     runner,
		Layout:     cfg.Layout,
		Logger:     c.Logger,
		SessionTTL: cfg.Session.TTL,
		Latency:    cfg.Demo.Latency,
	}), nil
}

func (c *CLI) newRepository(ctx context.Context, cfg config.Config) (store.Repository, error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		c.Logger.Debug("connecting to mongo", "uri", cfg.Store.MongoURI, "db", cfg.Store.MongoDatabase)
		return mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDatabase,
			Seed:     true,
		})
	default:
		return store.NewSeeded(), nil
	}
}

// newRunner creates a diagram pipeline runner over the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if nc, ok := cc.(*cache.NullCache); ok {
		c.Logger.Debug("diagram cache off", "reason", nc.Reason())
	}
	return pipeline.NewRunner(cc, c.Logger), nil
}

func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.Disabled("cache backend is none"), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.URL())
		if err != nil {
			return nil, err
		}
		return cache.Scoped(rc, cacheScope), nil
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.Disabled("no cache dir: " + err.Error()), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// newSessionStore opens the server-side session store.
func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case config.BackendMemory:
		return session.NewMemoryStore(), nil
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL())
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := cache.Ping(ctx, client); err != nil {
			client.Close()
			return nil, err
		}
		return session.NewRedisStore(client), nil
	default:
		return session.NewFileStore(cfg.Session.Dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/waymark/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

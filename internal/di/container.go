package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	titlescmd "github.com/goliatone/go-linkify/internal/commands/titles"
	"github.com/goliatone/go-linkify/internal/links"
	"github.com/goliatone/go-linkify/internal/logging"
	"github.com/goliatone/go-linkify/internal/logging/console"
	"github.com/goliatone/go-linkify/internal/logging/gologger"
	"github.com/goliatone/go-linkify/internal/runtimeconfig"
	"github.com/goliatone/go-linkify/internal/shortsyntax"
	"github.com/goliatone/go-linkify/internal/titles"
	"github.com/goliatone/go-linkify/pkg/interfaces"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ErrTitleStoreDSNRequired indicates a postgres title store without a DSN.
var ErrTitleStoreDSNRequired = errors.New("di: postgres title store requires a dsn")

const (
	defaultSQLiteDSN = "file:linkify_titles?mode=memory&cache=shared"
	schemaTimeout    = 10 * time.Second
)

// CommandRegistry receives command handlers, e.g. a go-command dispatcher
// adapter owned by the host.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Container wires the renderer, title resolution and command handlers from
// a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider  interfaces.LoggerProvider
	bunDB           *bun.DB
	ownsDB          bool
	httpClient      *http.Client
	titleStore      interfaces.TitleStore
	titleFetcher    interfaces.TitleFetcher
	commandRegistry CommandRegistry

	sanitizer *links.Sanitizer
	renderer  *links.Renderer
	resolver  *titles.Resolver
	processor *shortsyntax.Processor

	prefetchHandler *titlescmd.PrefetchTitlesHandler
	clearHandler    *titlescmd.ClearTitleCacheHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies the database used by the bun title store. The caller
// keeps ownership of the handle.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithTitleStore replaces the configured title store.
func WithTitleStore(store interfaces.TitleStore) Option {
	return func(c *Container) {
		c.titleStore = store
	}
}

// WithTitleFetcher replaces the HTTP fetcher.
func WithTitleFetcher(fetcher interfaces.TitleFetcher) Option {
	return func(c *Container) {
		c.titleFetcher = fetcher
	}
}

// WithHTTPClient sets the client used by the default HTTP fetcher.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithCommandRegistry registers the command handlers with registry.
func WithCommandRegistry(registry CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = registry
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureTitleStore(); err != nil {
		return nil, err
	}
	c.configureServices()
	if err := c.registerCommands(); err != nil {
		c.Close()
		return nil, err
	}

	logging.ModuleLogger(c.loggerProvider, "linkify").Debug("linkify.container.ready",
		"links_enabled", cfg.Render.LinksEnabled,
		"titles_enabled", cfg.Titles.Enabled,
		"title_store", runtimeconfig.NormalizeStore(cfg.Titles.Store),
		"url_behavior", cfg.ShortSyntax.URLBehavior.String(),
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureTitleStore() error {
	if c.titleStore != nil {
		return nil
	}
	if runtimeconfig.NormalizeStore(c.Config.Titles.Store) != runtimeconfig.TitleStoreBun {
		c.titleStore = titles.NewMemoryStore()
		return nil
	}

	if c.bunDB == nil {
		db, err := openBunDB(c.Config.Titles)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	store := titles.NewBunStore(c.bunDB)
	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		c.Close()
		return fmt.Errorf("di: prepare title store: %w", err)
	}
	c.titleStore = store
	return nil
}

func openBunDB(cfg runtimeconfig.TitlesConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	switch runtimeconfig.NormalizeDriver(cfg.Driver) {
	case runtimeconfig.DriverPostgres:
		if dsn == "" {
			return nil, ErrTitleStoreDSNRequired
		}
		sqldb, err := sql.Open(runtimeconfig.DriverPostgres, dsn)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		sqldb, err := sql.Open(runtimeconfig.DriverSQLite, dsn)
		if err != nil {
			return nil, err
		}
		// sqlite serialises writers; a single connection avoids SQLITE_BUSY
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
}

func (c *Container) configureServices() {
	cfg := c.Config

	renderOpts := []links.RendererOption{
		links.WithLinksEnabled(cfg.Render.LinksEnabled),
		links.WithMaxURLLength(cfg.Render.MaxURLLength),
		links.WithLogger(logging.RenderLogger(c.loggerProvider)),
	}
	if cfg.Render.Sanitize {
		c.sanitizer = links.NewSanitizer()
		renderOpts = append(renderOpts, links.WithSanitizer(c.sanitizer))
	}
	c.renderer = links.NewRenderer(renderOpts...)

	var fetcher interfaces.TitleFetcher
	if cfg.Titles.Enabled {
		fetcher = c.titleFetcher
		if fetcher == nil {
			fetcherOpts := []titles.FetcherOption{
				titles.WithUserAgent(cfg.Titles.UserAgent),
				titles.WithMaxBodyBytes(cfg.Titles.MaxBodyBytes),
				titles.WithMaxTitleLength(cfg.Titles.MaxLength),
			}
			if c.httpClient != nil {
				fetcherOpts = append(fetcherOpts, titles.WithHTTPClient(c.httpClient))
			}
			fetcher = titles.NewHTTPFetcher(fetcherOpts...)
		}
	}
	c.resolver = titles.NewResolver(fetcher, c.titleStore,
		titles.WithTimeout(cfg.Titles.Timeout),
		titles.WithLogger(logging.TitlesLogger(c.loggerProvider)),
	)

	c.processor = shortsyntax.NewProcessor(cfg.ShortSyntax,
		shortsyntax.WithResolver(c.resolver),
		shortsyntax.WithLogger(logging.ShortSyntaxLogger(c.loggerProvider)),
	)

	gates := titlescmd.FeatureGates{
		TitlesEnabled: func() bool { return c.Config.Titles.Enabled },
	}
	commandLogger := logging.CommandsLogger(c.loggerProvider)
	c.prefetchHandler = titlescmd.NewPrefetchTitlesHandler(c.resolver, commandLogger, gates)
	c.clearHandler = titlescmd.NewClearTitleCacheHandler(c.resolver, commandLogger, gates)
}

func (c *Container) registerCommands() error {
	if c.commandRegistry == nil {
		return nil
	}
	for _, handler := range c.CommandHandlers() {
		if err := c.commandRegistry.RegisterCommand(handler); err != nil {
			return fmt.Errorf("di: register command %T: %w", handler, err)
		}
	}
	return nil
}

// Close releases the database handle when the container opened it.
func (c *Container) Close() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
func (c *Container) Renderer() *links.Renderer                 { return c.renderer }
func (c *Container) Sanitizer() *links.Sanitizer               { return c.sanitizer }
func (c *Container) Resolver() *titles.Resolver                { return c.resolver }
func (c *Container) TitleStore() interfaces.TitleStore         { return c.titleStore }
func (c *Container) Processor() *shortsyntax.Processor         { return c.processor }

func (c *Container) PrefetchTitlesHandler() *titlescmd.PrefetchTitlesHandler {
	return c.prefetchHandler
}

func (c *Container) ClearTitleCacheHandler() *titlescmd.ClearTitleCacheHandler {
	return c.clearHandler
}

// CommandHandlers lists every command handler for host-side registration.
func (c *Container) CommandHandlers() []any {
	return []any{c.prefetchHandler, c.clearHandler}
}

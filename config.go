package linkify

import (
	"net/http"

	"github.com/goliatone/go-linkify/internal/di"
	"github.com/goliatone/go-linkify/internal/runtimeconfig"
	"github.com/goliatone/go-linkify/internal/shortsyntax"
	"github.com/goliatone/go-linkify/pkg/interfaces"
	"github.com/uptrace/bun"
)

var (
	ErrURLBehaviorInvalid      = runtimeconfig.ErrURLBehaviorInvalid
	ErrTitleStoreUnknown       = runtimeconfig.ErrTitleStoreUnknown
	ErrTitleStoreDriverUnknown = runtimeconfig.ErrTitleStoreDriverUnknown
	ErrTitleStoreDSNRequired   = di.ErrTitleStoreDSNRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	RenderConfig      = runtimeconfig.RenderConfig
	TitlesConfig      = runtimeconfig.TitlesConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
	Features          = runtimeconfig.Features
	ShortSyntaxConfig = shortsyntax.Config
	URLBehavior       = shortsyntax.URLBehavior
)

const (
	URLBehaviorExtract   = shortsyntax.URLBehaviorExtract
	URLBehaviorKeepURL   = shortsyntax.URLBehaviorKeepURL
	URLBehaviorKeepTitle = shortsyntax.URLBehaviorKeepTitle
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// FromEnv loads DefaultConfig overridden by LINKIFY_* variables, reading the
// given dotenv files (or ./.env) first.
func FromEnv(files ...string) (Config, error) {
	return runtimeconfig.FromEnv(files...)
}

// ParseURLBehavior parses extract, keep-url or keep-title.
func ParseURLBehavior(raw string) (URLBehavior, error) {
	return shortsyntax.ParseURLBehavior(raw)
}

// Option customises the module's DI container.
type Option = di.Option

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

func WithTitleStore(store interfaces.TitleStore) Option {
	return di.WithTitleStore(store)
}

func WithTitleFetcher(fetcher interfaces.TitleFetcher) Option {
	return di.WithTitleFetcher(fetcher)
}

func WithHTTPClient(client *http.Client) Option {
	return di.WithHTTPClient(client)
}

func WithCommandRegistry(registry di.CommandRegistry) Option {
	return di.WithCommandRegistry(registry)
}

package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-linkify/internal/links"
	"github.com/goliatone/go-linkify/internal/shortsyntax"
	"github.com/goliatone/go-linkify/internal/titles"
)

// ErrURLBehaviorInvalid indicates an unknown short-syntax URL behaviour.
var ErrURLBehaviorInvalid = shortsyntax.ErrURLBehaviorInvalid

var ErrTitleStoreUnknown = errors.New("linkify config: title store must be memory or bun")
var ErrTitleStoreDriverUnknown = errors.New("linkify config: title store driver must be sqlite3 or postgres")
var ErrLoggingProviderRequired = errors.New("linkify config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("linkify config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("linkify config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("linkify config: logging format is invalid")

const (
	TitleStoreMemory = "memory"
	TitleStoreBun    = "bun"

	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config aggregates the rendering, title and logging settings of the module.
type Config struct {
	Render      RenderConfig
	ShortSyntax shortsyntax.Config
	Titles      TitlesConfig
	Logging     LoggingConfig
	Features    Features
}

// RenderConfig controls the link renderer.
type RenderConfig struct {
	LinksEnabled bool
	MaxURLLength int
	// Sanitize runs link-bearing output through the bluemonday policy.
	Sanitize bool
}

// TitlesConfig controls remote title resolution.
type TitlesConfig struct {
	Enabled      bool
	Timeout      time.Duration
	MaxLength    int
	MaxBodyBytes int64
	UserAgent    string
	// Store selects the cache backend, memory or bun.
	Store string
	// Driver and DSN open the bun database when no handle is injected.
	Driver string
	DSN    string
}

// Features toggles optional functionality.
type Features struct {
	Logger bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns links on, keep-url short syntax and an in-memory
// title cache.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			LinksEnabled: true,
			MaxURLLength: links.DefaultMaxURLLength,
		},
		ShortSyntax: shortsyntax.DefaultConfig(),
		Titles: TitlesConfig{
			Enabled:      true,
			Timeout:      titles.DefaultTimeout,
			MaxLength:    titles.DefaultMaxLength,
			MaxBodyBytes: titles.DefaultMaxBodyBytes,
			UserAgent:    titles.DefaultUserAgent,
			Store:        TitleStoreMemory,
			Driver:       DriverSQLite,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	render := cfg.Render
	if err := validation.ValidateStruct(&render,
		validation.Field(&render.MaxURLLength, validation.Min(1)),
	); err != nil {
		return goerrors.FromOzzoValidation(err, "linkify config: invalid render settings")
	}

	if err := cfg.ShortSyntax.Validate(); err != nil {
		return fmt.Errorf("%w: %q", ErrURLBehaviorInvalid, cfg.ShortSyntax.URLBehavior)
	}

	if cfg.Titles.Enabled {
		if err := cfg.Titles.validate(); err != nil {
			return err
		}
	}

	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func (t TitlesConfig) validate() error {
	if err := validation.ValidateStruct(&t,
		validation.Field(&t.Timeout, validation.Min(time.Millisecond)),
		validation.Field(&t.MaxLength, validation.Min(1)),
		validation.Field(&t.MaxBodyBytes, validation.Min(int64(1))),
	); err != nil {
		return goerrors.FromOzzoValidation(err, "linkify config: invalid title settings")
	}

	switch NormalizeStore(t.Store) {
	case TitleStoreMemory:
	case TitleStoreBun:
		switch NormalizeDriver(t.Driver) {
		case DriverSQLite, DriverPostgres:
		default:
			return fmt.Errorf("%w: %s", ErrTitleStoreDriverUnknown, t.Driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrTitleStoreUnknown, t.Store)
	}
	return nil
}

// NormalizeStore lowercases the store name; empty selects memory.
func NormalizeStore(store string) string {
	if normalized := strings.ToLower(strings.TrimSpace(store)); normalized != "" {
		return normalized
	}
	return TitleStoreMemory
}

// NormalizeDriver maps driver aliases to database/sql driver names.
func NormalizeDriver(driver string) string {
	switch normalized := strings.ToLower(strings.TrimSpace(driver)); normalized {
	case "", "sqlite", DriverSQLite:
		return DriverSQLite
	case "pg", "postgresql", DriverPostgres:
		return DriverPostgres
	default:
		return normalized
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

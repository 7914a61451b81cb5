package commands

import (
	"errors"
	"strings"

	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-linkify/internal/commands"
	titlescmd "github.com/goliatone/go-linkify/internal/commands/titles"
	"github.com/goliatone/go-linkify/internal/di"
	"github.com/goliatone/go-linkify/pkg/interfaces"
)

// ErrNoCommandHandlers is returned when title resolution is disabled and no
// handler could be built.
var ErrNoCommandHandlers = errors.New("no command handlers registered; ensure title resolution is enabled")

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// ClearTitlesCron schedules the cache clear handler; empty leaves it unscheduled.
	ClearTitlesCron string
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterContainerCommands builds the title command handlers for container and
// optionally registers them with registry/dispatcher/cron integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	cfg := container.Config

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	// Title commands.
	if resolver := container.Resolver(); resolver != nil && cfg.Titles.Enabled {
		gates := titlescmd.FeatureGates{
			TitlesEnabled: func() bool { return cfg.Titles.Enabled },
		}
		titlesLogger := internalcommands.CommandLogger(provider, "titles")
		register(titlescmd.NewPrefetchTitlesHandler(resolver, titlesLogger, gates))

		clearHandler := titlescmd.NewClearTitleCacheHandler(resolver, titlesLogger, gates)
		register(clearHandler)

		if expr := strings.TrimSpace(opts.ClearTitlesCron); expr != "" && opts.CronRegistrar != nil {
			cronConfig := command.HandlerConfig{Expression: expr}
			if err := opts.CronRegistrar(cronConfig, clearHandler.CronHandler()); err != nil {
				errs = errors.Join(errs, err)
			}
		}
	}

	if errs != nil && len(result.Handlers) == 0 {
		return result, errs
	}

	if len(result.Handlers) == 0 {
		return result, ErrNoCommandHandlers
	}

	return result, errs
}

package commands

import (
	"context"
	"errors"
	"testing"

	command "github.com/goliatone/go-command"
	titlescmd "github.com/goliatone/go-linkify/internal/commands/titles"
	"github.com/goliatone/go-linkify/internal/di"
	"github.com/goliatone/go-linkify/internal/runtimeconfig"
)

func TestRegisterContainerCommandsBuildsHandlers(t *testing.T) {
	registry := &recordingRegistry{}
	dispatcher := &recordingDispatcher{}
	cron := &recordingCron{}

	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithTitleFetcher(staticFetcher{title: "Go"}))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{
		Registry:        registry,
		Dispatcher:      dispatcher,
		CronRegistrar:   cron.Registrar(),
		ClearTitlesCron: "@weekly",
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if len(result.Handlers) != 2 {
		t.Fatalf("expected prefetch and clear handlers, got %d", len(result.Handlers))
	}
	if len(result.Handlers) != len(registry.handlers) {
		t.Fatalf("expected registry to record all handlers, got %d of %d", len(registry.handlers), len(result.Handlers))
	}
	if len(dispatcher.subscriptions) != len(result.Handlers) {
		t.Fatalf("expected a subscription per handler, got %d", len(dispatcher.subscriptions))
	}
	if len(cron.registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(cron.registrations))
	}
	if got := cron.registrations[0].config.Expression; got != "@weekly" {
		t.Fatalf("expected clear cron expression, got %q", got)
	}
}

func TestRegisterContainerCommandsCronClearsCache(t *testing.T) {
	cron := &recordingCron{}

	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithTitleFetcher(staticFetcher{title: "Go"}))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	ctx := context.Background()
	container.Resolver().Resolve(ctx, "https://go.dev", "fallback")

	if _, err := RegisterContainerCommands(container, RegistrationOptions{
		CronRegistrar:   cron.Registrar(),
		ClearTitlesCron: "@daily",
	}); err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(cron.registrations) != 1 || cron.registrations[0].handler == nil {
		t.Fatalf("expected a runnable cron registration, got %+v", cron.registrations)
	}
	if err := cron.registrations[0].handler(); err != nil {
		t.Fatalf("cron handler returned error: %v", err)
	}
	if ok, _ := container.TitleStore().Has(ctx, "https://go.dev"); ok {
		t.Fatal("expected cron run to clear cached titles")
	}
}

func TestRegisterContainerCommandsWithoutRegistrars(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) == 0 {
		t.Fatal("expected handlers to be built even without registrars")
	}
	if len(result.Subscriptions) != 0 {
		t.Fatalf("expected no dispatcher subscriptions without dispatcher, got %d", len(result.Subscriptions))
	}

	var hasPrefetch, hasClear bool
	for _, handler := range result.Handlers {
		switch handler.(type) {
		case *titlescmd.PrefetchTitlesHandler:
			hasPrefetch = true
		case *titlescmd.ClearTitleCacheHandler:
			hasClear = true
		}
	}
	if !hasPrefetch || !hasClear {
		t.Fatalf("expected both title handlers, got %+v", result.Handlers)
	}
}

func TestRegisterContainerCommandsTitlesDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Titles.Enabled = false

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	_, err = RegisterContainerCommands(container, RegistrationOptions{})
	if !errors.Is(err, ErrNoCommandHandlers) {
		t.Fatalf("expected ErrNoCommandHandlers, got %v", err)
	}
}

func TestRegisterContainerCommandsJoinsRegistryErrors(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	boom := errors.New("boom")
	result, err := RegisterContainerCommands(container, RegistrationOptions{
		Dispatcher: &recordingDispatcher{err: boom},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected dispatcher error, got %v", err)
	}
	if len(result.Handlers) == 0 {
		t.Fatal("expected handlers despite dispatcher failure")
	}
}

func TestRegisterContainerCommandsNilContainer(t *testing.T) {
	result, err := RegisterContainerCommands(nil, RegistrationOptions{})
	if err != nil || result == nil || len(result.Handlers) != 0 {
		t.Fatalf("expected empty result, got %+v, %v", result, err)
	}
}

type staticFetcher struct {
	title string
}

func (f staticFetcher) FetchTitle(context.Context, string) (string, error) {
	return f.title, nil
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type cronRegistration struct {
	config  command.HandlerConfig
	handler func() error
}

type recordingCron struct {
	registrations []cronRegistration
	err           error
}

func (c *recordingCron) Registrar() CronRegistrar {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		var fn func() error
		if h, ok := handler.(func() error); ok {
			fn = h
		}
		c.registrations = append(c.registrations, cronRegistration{
			config:  cfg,
			handler: fn,
		})
		return nil
	}
}

type recordingDispatcher struct {
	handlers      []any
	subscriptions []*recordingSubscription
	err           error
}

func (d *recordingDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.handlers = append(d.handlers, handler)
	sub := &recordingSubscription{handler: handler}
	d.subscriptions = append(d.subscriptions, sub)
	return sub, nil
}

type recordingSubscription struct {
	handler      any
	unsubscribed bool
}

func (s *recordingSubscription) Unsubscribe() {
	s.unsubscribed = true
}

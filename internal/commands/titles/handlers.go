package titlescmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-linkify/internal/commands"
	"github.com/goliatone/go-linkify/internal/logging"
	"github.com/goliatone/go-linkify/pkg/interfaces"
)

// ErrTitlesDisabled is returned when title resolution is switched off.
var ErrTitlesDisabled = errors.New("titles command: title resolution disabled")

// FeatureGates exposes the runtime toggle consulted before each execution.
type FeatureGates struct {
	TitlesEnabled func() bool
}

func (g FeatureGates) titlesEnabled() bool {
	if g.TitlesEnabled == nil {
		return true
	}
	return g.TitlesEnabled()
}

// PrefetchTitlesHandler warms the title cache.
type PrefetchTitlesHandler struct {
	inner *commands.Handler[PrefetchTitlesCommand]
}

// NewPrefetchTitlesHandler constructs a handler resolving URLs concurrently
// through resolver.
func NewPrefetchTitlesHandler(resolver interfaces.TitleResolver, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[PrefetchTitlesCommand]) *PrefetchTitlesHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg PrefetchTitlesCommand) error {
		if !gates.titlesEnabled() {
			return ErrTitlesDisabled
		}

		inspector, _ := resolver.(interfaces.TitleCacheInspector)

		pending := make(map[string]<-chan string, len(msg.URLs))
		seen := make(map[string]struct{}, len(msg.URLs))
		skipped := 0
		for _, raw := range msg.URLs {
			url := strings.TrimSpace(raw)
			if _, ok := seen[url]; ok {
				continue
			}
			seen[url] = struct{}{}
			if inspector != nil {
				cached, err := inspector.Cached(ctx, url)
				if err != nil {
					logging.WithError(baseLogger, err).Warn("titles.command.prefetch.cache_check_failed", "url", url)
				} else if cached {
					skipped++
					continue
				}
			}
			pending[url] = resolver.ResolveAsync(ctx, url, url)
		}

		resolved := 0
		for url, result := range pending {
			if title := <-result; title != url {
				resolved++
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"operation": "prefetch",
		}).Info("titles.command.prefetched", "requested", len(seen), "cached", skipped, "resolved", resolved)
		return nil
	}

	handlerOpts := []commands.HandlerOption[PrefetchTitlesCommand]{
		commands.WithLogger[PrefetchTitlesCommand](baseLogger),
		commands.WithOperation[PrefetchTitlesCommand]("titles.prefetch"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PrefetchTitlesHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PrefetchTitlesCommand].
func (h *PrefetchTitlesHandler) Execute(ctx context.Context, msg PrefetchTitlesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CLIHandler exposes the prefetch handler to CLI integrations.
func (h *PrefetchTitlesHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for title prefetching.
func (h *PrefetchTitlesHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"titles", "prefetch"},
		Group:       "titles",
		Description: "Resolve and cache the titles of the given URLs",
	}
}

// ClearTitleCacheHandler clears the title cache.
type ClearTitleCacheHandler struct {
	inner *commands.Handler[ClearTitleCacheCommand]
}

// NewClearTitleCacheHandler constructs a handler wired to resolver.
func NewClearTitleCacheHandler(resolver interfaces.TitleResolver, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ClearTitleCacheCommand]) *ClearTitleCacheHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, _ ClearTitleCacheCommand) error {
		if !gates.titlesEnabled() {
			return ErrTitlesDisabled
		}
		if err := resolver.ClearCache(ctx); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"operation": "clear",
		}).Info("titles.command.cache.cleared")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ClearTitleCacheCommand]{
		commands.WithLogger[ClearTitleCacheCommand](baseLogger),
		commands.WithOperation[ClearTitleCacheCommand]("titles.cache.clear"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ClearTitleCacheHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ClearTitleCacheCommand].
func (h *ClearTitleCacheHandler) Execute(ctx context.Context, msg ClearTitleCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CronHandler binds cache clearing to a cron runner. Cached titles never
// expire on their own, so hosts schedule this to pick up renamed pages.
func (h *ClearTitleCacheHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), ClearTitleCacheCommand{})
	}
}

// CLIHandler exposes the clear handler to CLI integrations.
func (h *ClearTitleCacheHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for clearing the title cache.
func (h *ClearTitleCacheHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"titles", "cache", "clear"},
		Group:       "titles",
		Description: "Drop every cached link title",
	}
}

package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-linkify/internal/logging"
	"github.com/goliatone/go-linkify/internal/logging/console"
)

func TestConsoleLogger_FieldsContextAndArgs(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
	})

	logger := logging.WithFields(provider.GetLogger("linkify.titles"), map[string]any{
		"module": "linkify.titles",
	})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"correlation_id": "req-1234",
	})
	logger = logger.WithContext(ctx)

	logger.Warn("titles.resolver.fetch_failed",
		"host", "example.com",
		"elapsed", 1500*time.Millisecond,
		"error", errors.New("status 404"),
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26Z WARN titles.resolver.fetch_failed correlation_id=req-1234 elapsed=1.5s error="status 404" host=example.com logger=linkify.titles module=linkify.titles`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("linkify.render")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
}

func TestConsoleLogger_DanglingArgument(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("linkify").Info("render.done", "links", 2, "orphan")

	line := buf.String()
	if !strings.Contains(line, "links=2") || !strings.Contains(line, "field_1=orphan") {
		t.Fatalf("expected positional field for dangling arg, got %s", line)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		" DEBUG ": console.LevelDebug,
		"warning": console.LevelWarn,
		"fatal":   console.LevelFatal,
	}
	for input, want := range cases {
		got, ok := console.ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", input, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatal("expected unknown level to report ok=false")
	}
}

package linkify_test

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-linkify"
)

type countingFetcher struct {
	title string
	calls atomic.Int32
}

func (f *countingFetcher) FetchTitle(context.Context, string) (string, error) {
	f.calls.Add(1)
	return f.title, nil
}

func newModule(t *testing.T, cfg linkify.Config, fetcher *countingFetcher) *linkify.Module {
	t.Helper()
	module, err := linkify.New(cfg, linkify.WithTitleFetcher(fetcher))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestRender_PackageFunctions(t *testing.T) {
	got := linkify.Render("go to https://go.dev now").String()
	want := `go to <a href="https://go.dev" target="_blank" rel="noopener noreferrer">https://go.dev</a> now`
	if got != want {
		t.Fatalf("unexpected render %q", got)
	}

	if got := linkify.RenderText("<b> https://go.dev", false).String(); got != "&lt;b&gt; https://go.dev" {
		t.Fatalf("expected escaped text, got %q", got)
	}
	if got := linkify.Escape(`"a" & <b>`); got != "&quot;a&quot; &amp; &lt;b&gt;" {
		t.Fatalf("unexpected escape %q", got)
	}
	if got := linkify.Escaped("<i>").String(); got != "&lt;i&gt;" {
		t.Fatalf("unexpected escaped html %q", got)
	}
	if linkify.IsSchemeSafe("javascript:alert(1)") {
		t.Fatal("javascript scheme must be unsafe")
	}
	if got := linkify.NormalizeHref("www.example.com"); got != "http://www.example.com" {
		t.Fatalf("unexpected href %q", got)
	}
	if matches := linkify.FindURLs("a https://go.dev b"); len(matches) != 1 || matches[0].URL != "https://go.dev" {
		t.Fatalf("unexpected matches %+v", matches)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := linkify.DefaultConfig()
	cfg.ShortSyntax.URLBehavior = "strip"

	if _, err := linkify.New(cfg); !errors.Is(err, linkify.ErrURLBehaviorInvalid) {
		t.Fatalf("expected ErrURLBehaviorInvalid, got %v", err)
	}
}

func TestModule_RenderHonoursLinksEnabled(t *testing.T) {
	cfg := linkify.DefaultConfig()
	cfg.Render.LinksEnabled = false
	module := newModule(t, cfg, &countingFetcher{})

	if got := module.Render("www.example.com & co").String(); got != "www.example.com &amp; co" {
		t.Fatalf("expected escaped text, got %q", got)
	}
}

func TestModule_RenderTitleKeepTitle(t *testing.T) {
	cfg := linkify.DefaultConfig()
	cfg.ShortSyntax.URLBehavior = linkify.URLBehaviorKeepTitle
	module := newModule(t, cfg, &countingFetcher{title: "Example Domain"})

	html, attachments, err := module.RenderTitle(context.Background(), "see https://example.com")
	if err != nil {
		t.Fatalf("RenderTitle returned error: %v", err)
	}
	want := `see <a href="https://example.com" target="_blank" rel="noopener noreferrer">Example Domain</a>`
	if html.String() != want {
		t.Fatalf("unexpected html %q", html.String())
	}
	if len(attachments) != 0 {
		t.Fatalf("keep-title must not produce attachments, got %+v", attachments)
	}
}

func TestModule_RenderTitleExtract(t *testing.T) {
	cfg := linkify.DefaultConfig()
	cfg.ShortSyntax.URLBehavior = linkify.URLBehaviorExtract
	module := newModule(t, cfg, &countingFetcher{title: "Example Domain"})

	html, attachments, err := module.RenderTitle(context.Background(), "Buy <milk> https://example.com/list")
	if err != nil {
		t.Fatalf("RenderTitle returned error: %v", err)
	}
	if html.String() != "Buy &lt;milk&gt;" {
		t.Fatalf("unexpected html %q", html.String())
	}
	want := []linkify.Attachment{{URL: "https://example.com/list", Title: "Example Domain"}}
	if !reflect.DeepEqual(attachments, want) {
		t.Fatalf("want attachments %+v, got %+v", want, attachments)
	}
}

func TestModule_PrefetchAndClearTitleCache(t *testing.T) {
	fetcher := &countingFetcher{title: "Go"}
	module := newModule(t, linkify.DefaultConfig(), fetcher)
	ctx := context.Background()

	if err := module.PrefetchTitles(ctx, "https://go.dev", "https://go.dev"); err != nil {
		t.Fatalf("PrefetchTitles returned error: %v", err)
	}
	if got := module.ResolveTitle(ctx, "https://go.dev", "fallback"); got != "Go" {
		t.Fatalf("expected cached title, got %q", got)
	}
	if calls := fetcher.calls.Load(); calls != 1 {
		t.Fatalf("expected a single fetch, got %d", calls)
	}

	if err := module.ClearTitleCache(ctx); err != nil {
		t.Fatalf("ClearTitleCache returned error: %v", err)
	}
	module.ResolveTitle(ctx, "https://go.dev", "fallback")
	if calls := fetcher.calls.Load(); calls != 2 {
		t.Fatalf("expected a refetch after clearing, got %d", calls)
	}
}

func TestModule_PrefetchRejectsEmptyCommand(t *testing.T) {
	module := newModule(t, linkify.DefaultConfig(), &countingFetcher{})

	if err := module.PrefetchTitles(context.Background()); err == nil {
		t.Fatal("expected validation error for an empty url list")
	}
}

func TestParseURLBehavior(t *testing.T) {
	behavior, err := linkify.ParseURLBehavior("KEEP-TITLE")
	if err != nil || behavior != linkify.URLBehaviorKeepTitle {
		t.Fatalf("unexpected parse result %q, %v", behavior, err)
	}
	if _, err := linkify.ParseURLBehavior("drop"); !errors.Is(err, linkify.ErrURLBehaviorInvalid) {
		t.Fatalf("expected ErrURLBehaviorInvalid, got %v", err)
	}
}

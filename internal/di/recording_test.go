package di

import (
	"context"
	"maps"
	"net/http"
	"sync"

	"github.com/goliatone/go-linkify/pkg/interfaces"
)

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{provider: p, fields: map[string]any{"logger": name}}
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		if p.entries[i].msg == msg {
			entry := p.entries[i]
			return &entry
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

var _ interfaces.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return &recordingLogger{provider: l.provider, fields: merged}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := maps.Clone(l.fields)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok && key != "" {
			fields[key] = args[i+1]
		}
	}
	l.provider.mu.Lock()
	l.provider.entries = append(l.provider.entries, recordedEntry{level: level, msg: msg, fields: fields})
	l.provider.mu.Unlock()
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

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, http.ErrHandlerTimeout
}

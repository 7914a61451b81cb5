package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-linkify/pkg/interfaces"
)

const (
	rootModule        = "linkify"
	renderModule      = "linkify.render"
	titlesModule      = "linkify.titles"
	shortSyntaxModule = "linkify.shortsyntax"
	commandsModule    = "linkify.commands"
)

const fieldHost = "host"

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered per module.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if strings.TrimSpace(module) == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RenderLogger returns the logger namespace reserved for the link renderer.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// TitlesLogger returns the logger namespace reserved for title resolution.
func TitlesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, titlesModule)
}

// ShortSyntaxLogger returns the logger namespace reserved for the short-syntax processor.
func ShortSyntaxLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, shortSyntaxModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithHost tags the logger with the host part of a URL. The full URL is not
// logged since titles may carry tokens in query strings.
func WithHost(logger interfaces.Logger, host string) interfaces.Logger {
	if trimmed := strings.TrimSpace(host); trimmed != "" {
		return WithFields(logger, map[string]any{fieldHost: trimmed})
	}
	return logger
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

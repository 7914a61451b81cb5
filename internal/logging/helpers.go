package logging

import (
	"maps"

	"github.com/goliatone/go-linkify/pkg/interfaces"
)

// WithFields attaches structured fields when the logger implements
// interfaces.FieldsLogger. Loggers without that extension are returned as is.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fieldsLogger.WithFields(maps.Clone(fields))
}

// WithError is shorthand for WithFields(logger, {"error": err}).
func WithError(logger interfaces.Logger, err error) interfaces.Logger {
	if err == nil {
		return logger
	}
	return WithFields(logger, map[string]any{"error": err})
}

// OrNoOp returns logger, or a no-op logger when logger is nil.
func OrNoOp(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

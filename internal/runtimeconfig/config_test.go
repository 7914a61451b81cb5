package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-linkify/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if !cfg.Render.LinksEnabled || cfg.Render.MaxURLLength != 2000 {
		t.Fatalf("unexpected render defaults %+v", cfg.Render)
	}
	if cfg.Titles.Timeout != 5*time.Second || cfg.Titles.MaxLength != 100 {
		t.Fatalf("unexpected title defaults %+v", cfg.Titles)
	}
}

func TestConfigValidate_RejectsNonPositiveURLLength(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Render.MaxURLLength = 0

	err := cfg.Validate()
	if !goerrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownURLBehavior(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ShortSyntax.URLBehavior = "strip"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrURLBehaviorInvalid) {
		t.Fatalf("expected ErrURLBehaviorInvalid, got %v", err)
	}
}

func TestConfigValidate_TitleSettings(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Titles.Timeout = 0
	if err := cfg.Validate(); !goerrors.IsValidation(err) {
		t.Fatalf("expected validation error for zero timeout, got %v", err)
	}

	cfg.Titles.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled titles should skip validation, got %v", err)
	}
}

func TestConfigValidate_TitleStore(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Titles.Store = "redis"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrTitleStoreUnknown) {
		t.Fatalf("expected ErrTitleStoreUnknown, got %v", err)
	}

	cfg.Titles.Store = "bun"
	cfg.Titles.Driver = "mysql"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrTitleStoreDriverUnknown) {
		t.Fatalf("expected ErrTitleStoreDriverUnknown, got %v", err)
	}

	cfg.Titles.Driver = "postgresql"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected postgres alias to validate, got %v", err)
	}
}

func TestNormalizeDriver(t *testing.T) {
	cases := map[string]string{
		"":           runtimeconfig.DriverSQLite,
		"SQLite":     runtimeconfig.DriverSQLite,
		"pg":         runtimeconfig.DriverPostgres,
		"postgresql": runtimeconfig.DriverPostgres,
		"mysql":      "mysql",
	}
	for input, want := range cases {
		if got := runtimeconfig.NormalizeDriver(input); got != want {
			t.Fatalf("NormalizeDriver(%q): want %q, got %q", input, want, got)
		}
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = "loud"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

package runtimeconfig

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-linkify/internal/shortsyntax"
	"github.com/joho/godotenv"
)

const envPrefix = "LINKIFY_"

const textCodeEnvInvalid = "CONFIG_ENV_INVALID"

// FromEnv returns DefaultConfig overridden by LINKIFY_* variables. Variables
// from the given dotenv files are loaded first without replacing values
// already present in the environment. With no files, a ".env" in the working
// directory is loaded when it exists.
func FromEnv(files ...string) (Config, error) {
	if err := loadDotenv(files); err != nil {
		return Config{}, err
	}
	return ApplyEnv(DefaultConfig(), os.LookupEnv)
}

// ApplyEnv overrides cfg with variables resolved through lookup.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	env := envReader{lookup: lookup}

	env.boolean("LINKS_ENABLED", &cfg.Render.LinksEnabled)
	env.integer("MAX_URL_LENGTH", &cfg.Render.MaxURLLength)
	env.boolean("SANITIZE", &cfg.Render.Sanitize)

	env.boolean("SHORTSYNTAX_PROJECTS", &cfg.ShortSyntax.Projects)
	env.boolean("SHORTSYNTAX_TAGS", &cfg.ShortSyntax.Tags)
	env.boolean("SHORTSYNTAX_DUE_DATES", &cfg.ShortSyntax.DueDates)
	if raw, ok := env.get("URL_BEHAVIOR"); ok {
		behavior, err := shortsyntax.ParseURLBehavior(raw)
		env.fail("URL_BEHAVIOR", err)
		if err == nil {
			cfg.ShortSyntax.URLBehavior = behavior
		}
	}

	env.boolean("TITLES_ENABLED", &cfg.Titles.Enabled)
	env.duration("TITLES_TIMEOUT", &cfg.Titles.Timeout)
	env.integer("TITLES_MAX_LENGTH", &cfg.Titles.MaxLength)
	env.int64("TITLES_MAX_BODY_BYTES", &cfg.Titles.MaxBodyBytes)
	env.text("TITLES_USER_AGENT", &cfg.Titles.UserAgent)
	env.text("TITLES_STORE", &cfg.Titles.Store)
	env.text("TITLES_DRIVER", &cfg.Titles.Driver)
	env.text("TITLES_DSN", &cfg.Titles.DSN)

	env.boolean("LOGGER", &cfg.Features.Logger)
	env.text("LOG_PROVIDER", &cfg.Logging.Provider)
	env.text("LOG_LEVEL", &cfg.Logging.Level)
	env.text("LOG_FORMAT", &cfg.Logging.Format)
	env.boolean("LOG_ADD_SOURCE", &cfg.Logging.AddSource)
	if raw, ok := env.get("LOG_FOCUS"); ok {
		cfg.Logging.Focus = splitList(raw)
	}

	if env.err != nil {
		return Config{}, env.err
	}
	return cfg, nil
}

func loadDotenv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "linkify config: read .env").
				WithTextCode(textCodeEnvInvalid)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "linkify config: read env files").
			WithTextCode(textCodeEnvInvalid).
			WithMetadata(map[string]any{"files": files})
	}
	return nil
}

// envReader records the first parse failure and skips later assignments.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *envReader) get(name string) (string, bool) {
	if r.err != nil || r.lookup == nil {
		return "", false
	}
	raw, ok := r.lookup(envPrefix + name)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func (r *envReader) fail(name string, err error) {
	if err == nil || r.err != nil {
		return
	}
	r.err = goerrors.Wrap(err, goerrors.CategoryValidation, "linkify config: invalid environment variable").
		WithTextCode(textCodeEnvInvalid).
		WithMetadata(map[string]any{"variable": envPrefix + name})
}

func (r *envReader) text(name string, target *string) {
	if raw, ok := r.get(name); ok {
		*target = raw
	}
}

func (r *envReader) boolean(name string, target *bool) {
	if raw, ok := r.get(name); ok {
		value, err := strconv.ParseBool(raw)
		r.fail(name, err)
		if err == nil {
			*target = value
		}
	}
}

func (r *envReader) integer(name string, target *int) {
	if raw, ok := r.get(name); ok {
		value, err := strconv.Atoi(raw)
		r.fail(name, err)
		if err == nil {
			*target = value
		}
	}
}

func (r *envReader) int64(name string, target *int64) {
	if raw, ok := r.get(name); ok {
		value, err := strconv.ParseInt(raw, 10, 64)
		r.fail(name, err)
		if err == nil {
			*target = value
		}
	}
}

func (r *envReader) duration(name string, target *time.Duration) {
	if raw, ok := r.get(name); ok {
		value, err := time.ParseDuration(raw)
		r.fail(name, err)
		if err == nil {
			*target = value
		}
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

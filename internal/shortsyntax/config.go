package shortsyntax

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// URLBehavior selects what the processor does with URLs found in a title.
type URLBehavior string

const (
	// URLBehaviorExtract moves URLs out of the title into attachments.
	URLBehaviorExtract URLBehavior = "extract"
	// URLBehaviorKeepURL leaves URLs in place so they render as raw links.
	URLBehaviorKeepURL URLBehavior = "keep-url"
	// URLBehaviorKeepTitle swaps a URL's display text for its page title.
	URLBehaviorKeepTitle URLBehavior = "keep-title"
)

// ErrURLBehaviorInvalid indicates an unknown URL behaviour value.
var ErrURLBehaviorInvalid = errors.New("shortsyntax: url behavior must be extract, keep-url or keep-title")

// ParseURLBehavior accepts the canonical names case-insensitively. An empty
// value yields the default, keep-url.
func ParseURLBehavior(raw string) (URLBehavior, error) {
	switch normalized := URLBehavior(strings.ToLower(strings.TrimSpace(raw))); normalized {
	case "":
		return URLBehaviorKeepURL, nil
	case URLBehaviorExtract, URLBehaviorKeepURL, URLBehaviorKeepTitle:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrURLBehaviorInvalid, raw)
	}
}

func (b URLBehavior) String() string { return string(b) }

// Config toggles the short-syntax shortcuts recognized in task titles.
type Config struct {
	Projects    bool        `json:"projects"`
	Tags        bool        `json:"tags"`
	DueDates    bool        `json:"due_dates"`
	URLBehavior URLBehavior `json:"url_behavior"`
}

// DefaultConfig enables every shortcut and keeps URLs in place.
func DefaultConfig() Config {
	return Config{
		Projects:    true,
		Tags:        true,
		DueDates:    true,
		URLBehavior: URLBehaviorKeepURL,
	}
}

// Validate ensures the URL behaviour is one of the known values.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.URLBehavior,
			validation.Required,
			validation.In(URLBehaviorExtract, URLBehaviorKeepURL, URLBehaviorKeepTitle).
				Error(ErrURLBehaviorInvalid.Error()),
		),
	)
}

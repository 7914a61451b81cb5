package titlescmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	prefetchTitlesMessageType  = "linkify.titles.prefetch"
	clearTitleCacheMessageType = "linkify.titles.cache.clear"
)

// PrefetchTitlesCommand resolves the given URLs so later renders hit the
// title cache.
type PrefetchTitlesCommand struct {
	URLs []string `json:"urls"`
}

// Type implements command.Message.
func (PrefetchTitlesCommand) Type() string { return prefetchTitlesMessageType }

// Validate requires at least one URL and rejects blank entries.
func (cmd PrefetchTitlesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.URLs,
			validation.Required,
			validation.Each(validation.By(func(value any) error {
				if strings.TrimSpace(value.(string)) == "" {
					return validation.NewError("linkify.titles.prefetch.url_required", "url must not be blank")
				}
				return nil
			})),
		),
	)
}

// ClearTitleCacheCommand drops every cached title.
type ClearTitleCacheCommand struct{}

// Type implements command.Message.
func (ClearTitleCacheCommand) Type() string { return clearTitleCacheMessageType }

// Validate satisfies command.Message.
func (ClearTitleCacheCommand) Validate() error {
	return validation.ValidateStruct(&ClearTitleCacheCommand{})
}

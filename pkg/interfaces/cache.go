package interfaces

import "context"

// TitleStore persists resolved link titles keyed by normalized href.
// Entries never expire; Clear is the only way to drop them.
type TitleStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, title string) error
	Has(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
}

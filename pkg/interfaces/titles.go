package interfaces

import "context"

// TitleFetcher retrieves the human readable title of a remote document.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, href string) (string, error)
}

// TitleResolver turns URLs into display titles. Resolve never fails: any
// error, timeout or missing title yields the supplied fallback.
type TitleResolver interface {
	Resolve(ctx context.Context, rawURL, fallback string) string
	ResolveAsync(ctx context.Context, rawURL, fallback string) <-chan string
	ClearCache(ctx context.Context) error
}

// TitleCacheInspector is implemented by resolvers that can report whether a
// URL is already cached without resolving it.
type TitleCacheInspector interface {
	Cached(ctx context.Context, rawURL string) (bool, error)
}

package titles

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeFetchFailed = "TITLE_FETCH_FAILED"
	textCodeHTTPStatus  = "TITLE_HTTP_STATUS"
	textCodeNotFound    = "TITLE_NOT_FOUND"
)

// ErrTitleNotFound is returned when a document carries neither a <title>
// nor an og:title value.
var ErrTitleNotFound = goerrors.New("titles: document has no title", goerrors.CategoryNotFound).
	WithTextCode(textCodeNotFound)

func fetchFailed(err error, host string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "titles: fetch failed").
		WithTextCode(textCodeFetchFailed).
		WithMetadata(map[string]any{"host": host})
}

func unexpectedStatus(code int, host string) error {
	return goerrors.New(fmt.Sprintf("titles: unexpected status %d", code), goerrors.CategoryExternal).
		WithCode(code).
		WithTextCode(textCodeHTTPStatus).
		WithMetadata(map[string]any{"host": host})
}

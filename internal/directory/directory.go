// Package directory fetches listings and categories from the remote
// listing directory.
package directory

import (
	"context"
	"errors"

	"github.com/mishannn/explore-go/internal/listing"
)

// ErrDirectoryUnavailable wraps every network, status or parse failure.
// The explore screen treats it as empty data.
var ErrDirectoryUnavailable = errors.New("listing directory unavailable")

// Client is the listing directory as seen by the explore screen. Both
// calls are keyed by a language tag such as "en".
type Client interface {
	FetchListings(ctx context.Context, lang string) ([]listing.Listing, error)
	FetchCategories(ctx context.Context, lang string) ([]listing.Category, error)
}

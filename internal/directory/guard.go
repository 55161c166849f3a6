package directory

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mishannn/explore-go/internal/listing"
)

// Guard wraps a Client so that a language already fetched is answered
// from memory and concurrent calls for the same language share one
// request. Failed fetches are not remembered.
type Guard struct {
	client Client
	group  singleflight.Group

	mu         sync.Mutex
	listings   map[string][]listing.Listing
	categories map[string][]listing.Category
}

func NewGuard(client Client) *Guard {
	return &Guard{
		client:     client,
		listings:   make(map[string][]listing.Listing),
		categories: make(map[string][]listing.Category),
	}
}

func (g *Guard) FetchListings(ctx context.Context, lang string) ([]listing.Listing, error) {
	return guarded(ctx, g, g.listings, "listings/"+lang, lang, func(ctx context.Context) ([]listing.Listing, error) {
		return g.client.FetchListings(ctx, lang)
	})
}

func (g *Guard) FetchCategories(ctx context.Context, lang string) ([]listing.Category, error) {
	return guarded(ctx, g, g.categories, "categories/"+lang, lang, func(ctx context.Context) ([]listing.Category, error) {
		return g.client.FetchCategories(ctx, lang)
	})
}

// satisfied reports whether both listings and categories for lang are held.
func (g *Guard) satisfied(lang string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, hasListings := g.listings[lang]
	_, hasCategories := g.categories[lang]
	return hasListings && hasCategories
}

// guarded answers from cache or joins the shared fetch for key. The shared
// fetch is detached from the caller that started it, so a cancelled caller
// only abandons its own wait.
func guarded[T any](ctx context.Context, g *Guard, cache map[string][]T, key string, lang string, fetch func(ctx context.Context) ([]T, error)) ([]T, error) {
	g.mu.Lock()
	if items, ok := cache[lang]; ok {
		g.mu.Unlock()
		return items, nil
	}
	g.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := g.group.DoChan(key, func() (any, error) {
		g.mu.Lock()
		if items, ok := cache[lang]; ok {
			g.mu.Unlock()
			return items, nil
		}
		g.mu.Unlock()

		items, err := fetch(shared)
		if err != nil {
			return nil, err
		}

		g.mu.Lock()
		cache[lang] = items
		g.mu.Unlock()

		return items, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]T), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, ctx.Err())
	}
}

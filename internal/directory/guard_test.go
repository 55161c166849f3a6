package directory

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mishannn/explore-go/internal/listing"
)

type countingClient struct {
	listingCalls  atomic.Int32
	categoryCalls atomic.Int32
	fail          atomic.Bool
	release       chan struct{}
}

func (c *countingClient) FetchListings(ctx context.Context, lang string) ([]listing.Listing, error) {
	c.listingCalls.Add(1)
	if c.release != nil {
		<-c.release
	}
	if c.fail.Load() {
		return nil, ErrDirectoryUnavailable
	}
	return []listing.Listing{{ID: lang + "-1"}}, nil
}

func (c *countingClient) FetchCategories(ctx context.Context, lang string) ([]listing.Category, error) {
	c.categoryCalls.Add(1)
	if c.fail.Load() {
		return nil, ErrDirectoryUnavailable
	}
	return []listing.Category{{Code: "beach"}}, nil
}

func TestGuardShortCircuits(t *testing.T) {
	client := &countingClient{}
	guard := NewGuard(client)
	ctx := context.Background()

	if guard.satisfied("en") {
		t.Fatal("nothing fetched yet")
	}

	for i := 0; i < 3; i++ {
		if _, err := guard.FetchListings(ctx, "en"); err != nil {
			t.Fatalf("FetchListings: %v", err)
		}
		if _, err := guard.FetchCategories(ctx, "en"); err != nil {
			t.Fatalf("FetchCategories: %v", err)
		}
	}

	if n := client.listingCalls.Load(); n != 1 {
		t.Errorf("listings fetched %d times, want 1", n)
	}
	if n := client.categoryCalls.Load(); n != 1 {
		t.Errorf("categories fetched %d times, want 1", n)
	}
	if !guard.satisfied("en") || guard.satisfied("fr") {
		t.Error("only en should be satisfied")
	}

	items, _ := guard.FetchListings(ctx, "fr")
	if len(items) != 1 || items[0].ID != "fr-1" {
		t.Errorf("fr listings = %+v", items)
	}
	if n := client.listingCalls.Load(); n != 2 {
		t.Errorf("a new language should fetch again, got %d calls", n)
	}
}

func TestGuardSharesInflight(t *testing.T) {
	client := &countingClient{release: make(chan struct{})}
	guard := NewGuard(client)

	var wg sync.WaitGroup
	results := make([][]listing.Listing, 5)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = guard.FetchListings(context.Background(), "en")
		}()
	}

	// Let the first call reach the client before releasing it; the rest
	// either join it or hit the cache.
	for client.listingCalls.Load() == 0 {
		runtime.Gosched()
	}
	close(client.release)
	wg.Wait()

	if n := client.listingCalls.Load(); n != 1 {
		t.Errorf("listings fetched %d times, want 1", n)
	}
	for i, r := range results {
		if len(r) != 1 {
			t.Errorf("caller %d got %+v", i, r)
		}
	}
}

func TestGuardDoesNotCacheFailures(t *testing.T) {
	client := &countingClient{}
	client.fail.Store(true)
	guard := NewGuard(client)

	if _, err := guard.FetchListings(context.Background(), "en"); !errors.Is(err, ErrDirectoryUnavailable) {
		t.Fatalf("error = %v", err)
	}
	if guard.satisfied("en") {
		t.Error("failed fetch should not satisfy the guard")
	}

	client.fail.Store(false)
	items, err := guard.FetchListings(context.Background(), "en")
	if err != nil || len(items) != 1 {
		t.Errorf("retry = %+v, %v", items, err)
	}
	if n := client.listingCalls.Load(); n != 2 {
		t.Errorf("listings fetched %d times, want 2", n)
	}
}

type blockingClient struct {
	started chan struct{}
	release chan struct{}
	ctxErr  error
}

func (c *blockingClient) FetchListings(ctx context.Context, lang string) ([]listing.Listing, error) {
	close(c.started)
	<-c.release
	c.ctxErr = ctx.Err()
	if c.ctxErr != nil {
		return nil, c.ctxErr
	}
	return []listing.Listing{{ID: lang + "-1"}}, nil
}

func (c *blockingClient) FetchCategories(ctx context.Context, lang string) ([]listing.Category, error) {
	return nil, nil
}

func TestGuardSharedFetchOutlivesCancelledCaller(t *testing.T) {
	client := &blockingClient{started: make(chan struct{}), release: make(chan struct{})}
	guard := NewGuard(client)

	stoppedCtx, stop := context.WithCancel(context.Background())
	stoppedErr := make(chan error, 1)
	go func() {
		_, err := guard.FetchListings(stoppedCtx, "en")
		stoppedErr <- err
	}()
	<-client.started

	liveResult := make(chan []listing.Listing, 1)
	go func() {
		items, err := guard.FetchListings(context.Background(), "en")
		if err != nil {
			t.Errorf("live caller: %v", err)
		}
		liveResult <- items
	}()

	stop()
	if err := <-stoppedErr; !errors.Is(err, context.Canceled) || !errors.Is(err, ErrDirectoryUnavailable) {
		t.Errorf("cancelled caller error = %v", err)
	}

	close(client.release)
	items := <-liveResult
	if len(items) != 1 || items[0].ID != "en-1" {
		t.Errorf("live caller got %+v", items)
	}
	if client.ctxErr != nil {
		t.Errorf("shared fetch saw a cancelled context: %v", client.ctxErr)
	}
	if !guard.satisfied("en") {
		t.Error("the shared result should be cached")
	}
}

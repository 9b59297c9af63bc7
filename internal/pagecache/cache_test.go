package pagecache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newCache(t *testing.T, ttl time.Duration) (*Cache, *fakeClock, *MemoryStore) {
	t.Helper()
	store, err := NewMemoryStore(4)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(store, ttl, WithClock(clock.Now)), clock, store
}

// counter renders "v1", "v2", ... and counts calls.
type counter struct{ calls int }

func (c *counter) render(context.Context) ([]byte, error) {
	c.calls++
	return []byte{'v', byte('0' + c.calls)}, nil
}

func TestFetchServesStoredPageWithinTTL(t *testing.T) {
	cache, clock, _ := newCache(t, 20*time.Second)
	r := &counter{}
	ctx := context.Background()

	steps := []struct {
		advance time.Duration
		want    string
	}{
		{0, "v1"},
		{5 * time.Second, "v1"},
		{14 * time.Second, "v1"},
		{time.Second, "v2"},
		{19 * time.Second, "v2"},
		{21 * time.Second, "v3"},
	}
	for i, s := range steps {
		clock.Advance(s.advance)
		got, err := cache.Fetch(ctx, IndexPageKey, r.render)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if string(got) != s.want {
			t.Fatalf("step %d: got %q, want %q", i, got, s.want)
		}
	}
	if r.calls != 3 {
		t.Fatalf("render calls = %d, want 3", r.calls)
	}
}

func TestClearForcesRender(t *testing.T) {
	cache, _, store := newCache(t, time.Minute)
	r := &counter{}
	ctx := context.Background()

	if _, err := cache.Fetch(ctx, IndexPageKey, r.render); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Fetch(ctx, "other", r.render); err != nil {
		t.Fatal(err)
	}
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("store holds %d entries after clear", store.Len())
	}
	// Clearing an empty cache is fine.
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	got, _ := cache.Fetch(ctx, IndexPageKey, r.render)
	if string(got) != "v3" {
		t.Fatalf("after clear got %q, want fresh v3", got)
	}
}

func TestRenderErrorIsNotStored(t *testing.T) {
	cache, _, store := newCache(t, time.Minute)
	boom := errors.New("db down")

	_, err := cache.Fetch(context.Background(), IndexPageKey, func(context.Context) ([]byte, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if store.Len() != 0 {
		t.Fatal("failed render was cached")
	}
}

type brokenStore struct{ sets int }

func (b *brokenStore) Get(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, errors.New("unreachable")
}

func (b *brokenStore) Set(context.Context, string, Entry, time.Duration) error {
	b.sets++
	return errors.New("unreachable")
}

func (b *brokenStore) Clear(context.Context) error { return nil }

func TestStoreFailuresDegradeToRender(t *testing.T) {
	store := &brokenStore{}
	cache := New(store, time.Minute)
	r := &counter{}

	for i := 0; i < 2; i++ {
		got, err := cache.Fetch(context.Background(), IndexPageKey, r.render)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if len(got) == 0 {
			t.Fatal("empty body")
		}
	}
	if r.calls != 2 || store.sets != 2 {
		t.Fatalf("calls = %d sets = %d, want 2 and 2", r.calls, store.sets)
	}
}

func TestNewDefaultsTTL(t *testing.T) {
	store, _ := NewMemoryStore(0)
	if got := New(store, 0).TTL(); got != DefaultTTL {
		t.Fatalf("ttl = %v, want %v", got, DefaultTTL)
	}
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/models"
)

type fakeProvider struct {
	verifyErr error
	closed    atomic.Bool
}

func (f *fakeProvider) Init(ctx context.Context) error   { return nil }
func (f *fakeProvider) Load(ctx context.Context) error   { return nil }
func (f *fakeProvider) Verify(ctx context.Context) error { return f.verifyErr }
func (f *fakeProvider) Close() error                     { f.closed.Store(true); return nil }
func (f *fakeProvider) GetEntry(ctx context.Context, key models.EntryKey) (*models.DailyEntry, error) {
	return nil, nil
}
func (f *fakeProvider) PutEntry(ctx context.Context, entry models.DailyEntry) error { return nil }
func (f *fakeProvider) QueryRange(ctx context.Context, ownerID, start, end string) ([]models.DailyEntry, error) {
	return []models.DailyEntry{}, nil
}
func (f *fakeProvider) DeleteEntry(ctx context.Context, key models.EntryKey) error { return nil }
func (f *fakeProvider) ListAll(ctx context.Context, ownerID string) ([]models.DailyEntry, error) {
	return []models.DailyEntry{}, nil
}
func (f *fakeProvider) GetStats(ctx context.Context, ownerID string) (*models.UserStats, error) {
	return nil, nil
}
func (f *fakeProvider) PutStats(ctx context.Context, stats models.UserStats) error { return nil }
func (f *fakeProvider) WipeOwner(ctx context.Context, ownerID string) error       { return nil }
func (f *fakeProvider) Location() string                                          { return "fake" }

func TestHandleOpensOnce(t *testing.T) {
	var opens atomic.Int32
	release := make(chan struct{})
	h := NewHandle(func(ctx context.Context) (Provider, error) {
		opens.Add(1)
		<-release
		return &fakeProvider{}, nil
	})

	var wg sync.WaitGroup
	results := make([]Provider, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := h.Get(context.Background())
			if err != nil {
				t.Errorf("Get() error = %v", err)
			}
			results[i] = p
		}(i)
	}
	close(release)
	wg.Wait()

	if opens.Load() != 1 {
		t.Errorf("open called %d times, want 1", opens.Load())
	}
	for i, p := range results {
		if p != results[0] {
			t.Errorf("caller %d got a different store", i)
		}
	}
}

func TestHandleDoesNotCacheFailure(t *testing.T) {
	var calls int
	h := NewHandle(func(ctx context.Context) (Provider, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("disk not mounted")
		}
		return &fakeProvider{}, nil
	})

	_, err := h.Get(context.Background())
	if !errors.Is(err, rerrors.ErrStorageUnavailable) {
		t.Fatalf("first Get() error = %v, want ErrStorageUnavailable", err)
	}
	if _, err := h.Get(context.Background()); err != nil {
		t.Fatalf("second Get() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("open called %d times, want 2", calls)
	}
}

func TestHandleClosesStoreThatFailsVerify(t *testing.T) {
	bad := &fakeProvider{verifyErr: errors.New("schema too old")}
	h := NewHandle(func(ctx context.Context) (Provider, error) { return bad, nil })

	if _, err := h.Get(context.Background()); !errors.Is(err, rerrors.ErrStorageUnavailable) {
		t.Fatalf("Get() error = %v, want ErrStorageUnavailable", err)
	}
	if !bad.closed.Load() {
		t.Error("store that failed Verify was not closed")
	}
}

func TestHandleDoInvalidatesStaleStore(t *testing.T) {
	var opened []*fakeProvider
	h := NewHandle(func(ctx context.Context) (Provider, error) {
		p := &fakeProvider{}
		opened = append(opened, p)
		return p, nil
	})
	ctx := context.Background()

	err := h.Do(ctx, func(p Provider) error {
		return Classify("get entry", sql.ErrConnDone)
	})
	if !errors.Is(err, rerrors.ErrStaleHandle) {
		t.Fatalf("Do() error = %v, want ErrStaleHandle", err)
	}
	if !opened[0].closed.Load() {
		t.Error("stale store was not closed")
	}

	// Ordinary failures keep the store.
	if err := h.Do(ctx, func(p Provider) error { return errors.New("constraint failed") }); err == nil {
		t.Fatal("Do() should pass the error through")
	}
	if len(opened) != 2 {
		t.Fatalf("opened %d stores, want 2", len(opened))
	}
	if opened[1].closed.Load() {
		t.Error("healthy store was closed")
	}
}

func TestHandleInvalidateIgnoresReplacedStore(t *testing.T) {
	h := NewHandle(func(ctx context.Context) (Provider, error) { return &fakeProvider{}, nil })
	current, _ := h.Get(context.Background())

	old := &fakeProvider{}
	h.Invalidate(old)
	if old.closed.Load() {
		t.Error("Invalidate closed a store the handle does not own")
	}
	if p, _ := h.Get(context.Background()); p != current {
		t.Error("Invalidate of a replaced store dropped the current one")
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !current.(*fakeProvider).closed.Load() {
		t.Error("Close() did not close the current store")
	}
}

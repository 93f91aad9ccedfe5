package storage

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/logger"
)

// OpenFunc opens and prepares a backend.
type OpenFunc func(ctx context.Context) (Provider, error)

// Handle owns the process-wide store. The store is opened lazily on first
// use; concurrent first callers share one initialization. An open failure is
// not remembered, so the next Get tries again.
type Handle struct {
	open  OpenFunc
	group singleflight.Group

	mu      sync.Mutex
	current Provider
}

func NewHandle(open OpenFunc) *Handle {
	return &Handle{open: open}
}

// Get returns the open store, opening and verifying it if needed. Failures
// are reported as ErrStorageUnavailable.
func (h *Handle) Get(ctx context.Context) (Provider, error) {
	if p := h.loaded(); p != nil {
		return p, nil
	}

	v, err, _ := h.group.Do("open", func() (interface{}, error) {
		if p := h.loaded(); p != nil {
			return p, nil
		}
		p, err := h.open(ctx)
		if err != nil {
			return nil, unavailable(err)
		}
		if err := p.Verify(ctx); err != nil {
			_ = p.Close()
			return nil, unavailable(err)
		}
		h.mu.Lock()
		h.current = p
		h.mu.Unlock()
		logger.Debug("Storage opened", "location", p.Location())
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Provider), nil
}

func (h *Handle) loaded() Provider {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func unavailable(err error) error {
	if errors.Is(err, rerrors.ErrStorageUnavailable) {
		return err
	}
	return rerrors.Unavailable(err)
}

// Invalidate closes and forgets stale if it is still the current store. A
// store that was already replaced is left alone.
func (h *Handle) Invalidate(stale Provider) {
	h.mu.Lock()
	if h.current == nil || h.current != stale {
		h.mu.Unlock()
		return
	}
	h.current = nil
	h.mu.Unlock()

	logger.Warn("Discarding stale storage handle", "location", stale.Location())
	if err := stale.Close(); err != nil {
		logger.Debug("Closing stale storage handle failed", "error", err)
	}
}

// Do runs fn against the current store and invalidates it when fn reports
// ErrStaleHandle. The error is returned unchanged; there is no retry.
func (h *Handle) Do(ctx context.Context, fn func(Provider) error) error {
	p, err := h.Get(ctx)
	if err != nil {
		return err
	}
	err = fn(p)
	if errors.Is(err, rerrors.ErrStaleHandle) {
		h.Invalidate(p)
	}
	return err
}

// Close closes the current store, if any.
func (h *Handle) Close() error {
	h.mu.Lock()
	p := h.current
	h.current = nil
	h.mu.Unlock()
	if p == nil {
		return nil
	}
	return p.Close()
}

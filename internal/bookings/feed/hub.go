// Package feed keeps subscribers up to date with the full booking list.
package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "venuebook/internal/bookings/errors"
	"venuebook/internal/bookings/lifecycle"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"
)

// Listener receives the full booking list, ordered by date ascending. It is
// called from the hub goroutine and must not block. It must not call
// Subscribe or Refresh.
type Listener func(bookings []*model.Booking)

type Source interface {
	FindAll(ctx context.Context) ([]*model.Booking, error)
	WatchChanges(ctx context.Context, onChange func()) error
}

type Hub struct {
	source       Source
	pollInterval time.Duration
	log          *logger.Logger

	// deliverMu serializes loads and deliveries so every listener sees
	// snapshots in the order they were read.
	deliverMu sync.Mutex

	mu        sync.RWMutex
	listeners map[uint64]Listener
	nextID    uint64
	snapshot  []*model.Booking
	loaded    bool
}

func NewHub(source Source, pollInterval time.Duration, log *logger.Logger) *Hub {
	return &Hub{
		source:       source,
		pollInterval: pollInterval,
		log:          log,
		listeners:    make(map[uint64]Listener),
	}
}

// Subscribe registers fn and delivers the current snapshot to it right away
// when one has been loaded. The returned func removes the registration and is
// safe to call more than once.
func (h *Hub) Subscribe(fn Listener) (unsubscribe func()) {
	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	snapshot, loaded := h.snapshot, h.loaded
	h.mu.Unlock()

	if loaded {
		fn(snapshot)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Run loads the initial snapshot and then refreshes it on every change until
// ctx is done. Without change stream support it polls instead.
func (h *Hub) Run(ctx context.Context) error {
	h.Refresh(ctx)

	err := h.source.WatchChanges(ctx, func() { h.Refresh(ctx) })
	if errors.Is(err, bookingserrors.ErrChangeStreamsUnsupported) {
		h.log.Warn("Change streams unavailable, polling for booking changes", "interval", h.pollInterval)
		return h.poll(ctx)
	}
	if err != nil && ctx.Err() == nil {
		h.log.Error("Booking change stream stopped", "error", err)
		return err
	}
	return nil
}

func (h *Hub) poll(ctx context.Context) error {
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}

// Refresh reloads the booking list and pushes it to every listener. A failed
// load keeps the previous snapshot.
func (h *Hub) Refresh(ctx context.Context) {
	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()

	bookings, err := h.source.FindAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			h.log.Error("Failed to load bookings for feed", "error", err)
		}
		return
	}
	lifecycle.SortByDateAsc(bookings)

	h.mu.Lock()
	h.snapshot = bookings
	h.loaded = true
	listeners := make([]Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		listeners = append(listeners, l)
	}
	h.mu.Unlock()

	for _, l := range listeners {
		l(bookings)
	}
}

package feed

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	bookingserrors "venuebook/internal/bookings/errors"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"
)

type fakeSource struct {
	mu       sync.Mutex
	bookings []*model.Booking
	findErr  error
	watchFn  func(ctx context.Context, onChange func()) error
}

func (f *fakeSource) FindAll(context.Context) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make([]*model.Booking, len(f.bookings))
	copy(out, f.bookings)
	return out, nil
}

func (f *fakeSource) WatchChanges(ctx context.Context, onChange func()) error {
	if f.watchFn != nil {
		return f.watchFn(ctx, onChange)
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeSource) set(bookings ...*model.Booking) {
	f.mu.Lock()
	f.bookings = bookings
	f.mu.Unlock()
}

func at(d int) *model.Booking {
	return &model.Booking{ID: strconv.Itoa(d), Date: time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)}
}

func TestHub_RefreshDeliversSortedSnapshot(t *testing.T) {
	src := &fakeSource{}
	src.set(at(20), at(3), at(11))
	hub := NewHub(src, time.Second, logger.Discard())

	var got []*model.Booking
	unsubscribe := hub.Subscribe(func(b []*model.Booking) { got = b })
	defer unsubscribe()

	if got != nil {
		t.Fatalf("listener called before any snapshot was loaded")
	}

	hub.Refresh(context.Background())

	if len(got) != 3 {
		t.Fatalf("got %d bookings, want 3", len(got))
	}
	for i, want := range []int{3, 11, 20} {
		if got[i].Date.Day() != want {
			t.Errorf("got[%d] day = %d, want %d", i, got[i].Date.Day(), want)
		}
	}
}

func TestHub_SubscribeReceivesCurrentSnapshot(t *testing.T) {
	src := &fakeSource{}
	src.set(at(1))
	hub := NewHub(src, time.Second, logger.Discard())
	hub.Refresh(context.Background())

	calls := 0
	unsubscribe := hub.Subscribe(func([]*model.Booking) { calls++ })
	defer unsubscribe()

	if calls != 1 {
		t.Fatalf("calls = %d, want immediate delivery", calls)
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	src := &fakeSource{}
	hub := NewHub(src, time.Second, logger.Discard())

	calls := 0
	unsubscribe := hub.Subscribe(func([]*model.Booking) { calls++ })
	if hub.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, want 1", hub.Subscribers())
	}

	unsubscribe()
	unsubscribe()
	hub.Refresh(context.Background())

	if calls != 0 {
		t.Errorf("calls = %d after unsubscribe", calls)
	}
	if hub.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", hub.Subscribers())
	}
}

func TestHub_FailedLoadKeepsSnapshot(t *testing.T) {
	src := &fakeSource{}
	src.set(at(1), at(2))
	hub := NewHub(src, time.Second, logger.Discard())
	hub.Refresh(context.Background())

	src.findErr = errors.New("connection reset")
	calls := 0
	unsubscribe := hub.Subscribe(func(b []*model.Booking) {
		calls++
		if len(b) != 2 {
			t.Errorf("snapshot length = %d, want 2", len(b))
		}
	})
	defer unsubscribe()

	hub.Refresh(context.Background())
	if calls != 1 {
		t.Errorf("calls = %d, want only the initial delivery", calls)
	}
}

func TestHub_RunRefreshesOnChange(t *testing.T) {
	src := &fakeSource{}
	src.set(at(1))
	src.watchFn = func(ctx context.Context, onChange func()) error {
		src.set(at(1), at(2))
		onChange()
		return nil
	}
	hub := NewHub(src, time.Second, logger.Discard())

	var sizes []int
	unsubscribe := hub.Subscribe(func(b []*model.Booking) { sizes = append(sizes, len(b)) })
	defer unsubscribe()

	if err := hub.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sizes) != 2 || sizes[0] != 1 || sizes[1] != 2 {
		t.Errorf("snapshot sizes = %v, want [1 2]", sizes)
	}
}

func TestHub_RunFallsBackToPolling(t *testing.T) {
	src := &fakeSource{}
	src.watchFn = func(context.Context, func()) error {
		return bookingserrors.ErrChangeStreamsUnsupported
	}
	hub := NewHub(src, 10*time.Millisecond, logger.Discard())

	var mu sync.Mutex
	refreshes := 0
	unsubscribe := hub.Subscribe(func([]*model.Booking) {
		mu.Lock()
		refreshes++
		mu.Unlock()
	})
	defer unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := hub.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if refreshes < 3 {
		t.Errorf("refreshes = %d, want polling to refresh repeatedly", refreshes)
	}
}

func TestHub_InitialSnapshotNeverOvertakesNewer(t *testing.T) {
	src := &fakeSource{}
	src.set(at(1))
	hub := NewHub(src, time.Second, logger.Discard())
	hub.Refresh(context.Background())

	var (
		mu    sync.Mutex
		calls int
		last  []*model.Booking
	)
	entered := make(chan struct{})
	release := make(chan struct{})
	listener := func(b []*model.Booking) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
		mu.Lock()
		last = b
		mu.Unlock()
	}

	subscribed := make(chan func())
	go func() { subscribed <- hub.Subscribe(listener) }()
	<-entered

	src.set(at(1), at(2))
	refreshed := make(chan struct{})
	go func() {
		hub.Refresh(context.Background())
		close(refreshed)
	}()

	select {
	case <-refreshed:
		t.Fatal("Refresh finished while the initial snapshot was still being delivered")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-refreshed
	unsubscribe := <-subscribed
	defer unsubscribe()

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("listener called %d times, want 2", calls)
	}
	if len(last) != 2 {
		t.Errorf("last delivery holds %d bookings, want the current 2", len(last))
	}
}

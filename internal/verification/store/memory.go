package store

import (
	"context"
	"sync"
	"time"

	verificationerrors "venuebook/internal/verification/errors"
	"venuebook/pkg/model"
)

// Memory is a process-local store. Codes do not survive a restart and are
// not shared between instances.
type Memory struct {
	mu       sync.Mutex
	codes    map[string]model.VerificationCode
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMemory() *Memory {
	return &Memory{
		codes:  make(map[string]model.VerificationCode),
		stopCh: make(chan struct{}),
	}
}

func (m *Memory) Put(_ context.Context, code *model.VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[code.Email] = *code
	return nil
}

func (m *Memory) Get(_ context.Context, email string) (*model.VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[email]
	if !ok {
		return nil, verificationerrors.ErrCodeNotFound
	}
	return &code, nil
}

func (m *Memory) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, email)
	return nil
}

func (m *Memory) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for email, code := range m.codes {
		if code.Expired(now) {
			delete(m.codes, email)
			removed++
		}
	}
	return removed, nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.codes)
}

// StartJanitor sweeps expired codes every interval until Stop is called.
func (m *Memory) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				_, _ = m.DeleteExpired(context.Background(), now)
			case <-m.stopCh:
				return
			}
		}
	}()
}

func (m *Memory) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

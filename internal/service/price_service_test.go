package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubSource struct {
	mu    sync.Mutex
	price float64
	err   error
	calls atomic.Int32
	block chan struct{} // when set, NodePrice waits until closed
}

func (s *stubSource) NodePrice(ctx context.Context) (float64, error) {
	s.calls.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.price, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestPriceService_UnknownUntilFirstSuccess(t *testing.T) {
	s := NewPriceService(&stubSource{price: 32.5}, nil, discardLogger())

	if _, known := s.NodePrice(); known {
		t.Fatal("price known before any probe")
	}

	s.Refresh(context.Background())
	waitFor(t, func() bool { _, known := s.NodePrice(); return known })

	price, _ := s.NodePrice()
	if price != 32.5 {
		t.Errorf("price = %v, want 32.5", price)
	}
}

func TestPriceService_FailedProbeKeepsUnknown(t *testing.T) {
	src := &stubSource{err: errors.New("upstream down")}
	s := NewPriceService(src, nil, discardLogger())

	s.Refresh(context.Background())
	waitFor(t, func() bool { return src.calls.Load() >= 1 && !s.inFlight.Load() })

	if _, known := s.NodePrice(); known {
		t.Error("price known after failed probe")
	}
}

func TestPriceService_FailedProbeKeepsLastPrice(t *testing.T) {
	src := &stubSource{price: 32.5}
	s := NewPriceService(src, nil, discardLogger())

	s.Refresh(context.Background())
	waitFor(t, func() bool { _, known := s.NodePrice(); return known })

	src.mu.Lock()
	src.err = errors.New("upstream down")
	src.mu.Unlock()

	s.Refresh(context.Background())
	waitFor(t, func() bool { return src.calls.Load() >= 2 && !s.inFlight.Load() })

	price, known := s.NodePrice()
	if !known || price != 32.5 {
		t.Errorf("price after failed refresh = %v/%v, want 32.5/true", price, known)
	}
}

func TestPriceService_SkipsWhileInFlight(t *testing.T) {
	src := &stubSource{price: 32.5, block: make(chan struct{})}
	s := NewPriceService(src, nil, discardLogger())

	s.Refresh(context.Background())
	waitFor(t, func() bool { return src.calls.Load() == 1 })

	// Further refreshes while the first probe hangs are dropped.
	s.Refresh(context.Background())
	s.Refresh(context.Background())
	if got := src.calls.Load(); got != 1 {
		t.Errorf("source calls = %d, want 1", got)
	}

	close(src.block)
	waitFor(t, func() bool { _, known := s.NodePrice(); return known })
}

type recordingCache struct {
	mu    sync.Mutex
	price float64
	set   bool
}

func (c *recordingCache) SetNodePrice(ctx context.Context, price float64, ts time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.price, c.set = price, true
	return nil
}

func (c *recordingCache) GetNodePrice(ctx context.Context) (float64, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.price, time.Time{}, nil
}

func TestPriceService_WritesThroughCache(t *testing.T) {
	cache := &recordingCache{}
	s := NewPriceService(&stubSource{price: 31.0}, cache, discardLogger())

	s.Refresh(context.Background())
	waitFor(t, func() bool {
		cache.mu.Lock()
		defer cache.mu.Unlock()
		return cache.set
	})

	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.price != 31.0 {
		t.Errorf("cached price = %v, want 31.0", cache.price)
	}
}

func TestPriceService_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewPriceService(&stubSource{price: 30}, nil, discardLogger())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Hour) }()

	waitFor(t, func() bool { _, known := s.NodePrice(); return known })
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

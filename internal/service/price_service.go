package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teamfortytwo/atlas/internal/domain"
)

// NodePriceSource samples the current reference node price from an upstream
// platform API.
type NodePriceSource interface {
	NodePrice(ctx context.Context) (float64, error)
}

// PriceService tracks the live node price shown next to listings. Refreshes
// are fire-and-forget: a failed or slow probe never blocks market operations,
// it just leaves the price unknown until the next attempt succeeds.
type PriceService struct {
	source NodePriceSource
	cache  domain.PriceCache // optional
	logger *slog.Logger

	inFlight atomic.Bool

	mu    sync.RWMutex
	price float64
	known bool
	asOf  time.Time
}

// NewPriceService creates a PriceService. cache may be nil, in which case the
// price lives only in memory.
func NewPriceService(source NodePriceSource, cache domain.PriceCache, logger *slog.Logger) *PriceService {
	return &PriceService{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// NodePrice returns the last successfully sampled price. The second return is
// false while no probe has succeeded yet.
func (s *PriceService) NodePrice() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.price, s.known
}

// AsOf returns when the current price was sampled.
func (s *PriceService) AsOf() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.asOf
}

// Refresh launches one background probe. If a probe is already in flight the
// call is a no-op, so a slow upstream never stacks requests.
func (s *PriceService) Refresh(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.inFlight.Store(false)
		s.probe(ctx)
	}()
}

// Run refreshes the price once immediately and then on every interval tick
// until ctx is cancelled. It always returns nil; price probing is best-effort
// and must not take the process down.
func (s *PriceService) Run(ctx context.Context, interval time.Duration) error {
	s.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

func (s *PriceService) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	price, err := s.source.NodePrice(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "node price probe failed",
			slog.String("error", err.Error()),
		)
		return
	}

	now := time.Now()
	s.mu.Lock()
	s.price = price
	s.known = true
	s.asOf = now
	s.mu.Unlock()

	s.logger.Info("node price updated", slog.Float64("price", price))

	if s.cache != nil {
		if err := s.cache.SetNodePrice(ctx, price, now); err != nil {
			s.logger.WarnContext(ctx, "node price cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}
}

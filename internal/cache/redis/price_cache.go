package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/teamfortytwo/atlas/internal/domain"
)

// nodePriceKey is the hash holding the sampled node price, with fields
// "price" and "ts" (Unix nanosecond timestamp).
const nodePriceKey = "price:node"

// PriceCache implements domain.PriceCache on a Redis hash, so a restarted
// process can serve a node price before its first upstream probe completes.
type PriceCache struct {
	rdb *redis.Client
}

// NewPriceCache creates a PriceCache backed by the given Client.
func NewPriceCache(c *Client) *PriceCache {
	return &PriceCache{rdb: c.rdb}
}

// SetNodePrice stores the latest sampled node price.
func (pc *PriceCache) SetNodePrice(ctx context.Context, price float64, ts time.Time) error {
	fields := map[string]interface{}{
		"price": strconv.FormatFloat(price, 'f', -1, 64),
		"ts":    strconv.FormatInt(ts.UnixNano(), 10),
	}
	if err := pc.rdb.HSet(ctx, nodePriceKey, fields).Err(); err != nil {
		return fmt.Errorf("redis: set node price: %w", err)
	}
	return nil
}

// GetNodePrice retrieves the last stored node price and its sample time. It
// returns domain.ErrPriceUnavailable when no price has ever been stored.
func (pc *PriceCache) GetNodePrice(ctx context.Context) (float64, time.Time, error) {
	vals, err := pc.rdb.HGetAll(ctx, nodePriceKey).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: get node price: %w", err)
	}
	if len(vals) == 0 {
		return 0, time.Time{}, domain.ErrPriceUnavailable
	}

	price, err := strconv.ParseFloat(vals["price"], 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: parse node price: %w", err)
	}
	tsNano, err := strconv.ParseInt(vals["ts"], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: parse node price ts: %w", err)
	}

	return price, time.Unix(0, tsNano), nil
}

// Compile-time interface check.
var _ domain.PriceCache = (*PriceCache)(nil)

package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/teamfortytwo/atlas/internal/blob/s3"
	"github.com/teamfortytwo/atlas/internal/cache/redis"
	"github.com/teamfortytwo/atlas/internal/config"
	"github.com/teamfortytwo/atlas/internal/domain"
	"github.com/teamfortytwo/atlas/internal/engine"
	"github.com/teamfortytwo/atlas/internal/notify"
	"github.com/teamfortytwo/atlas/internal/platform/kiln"
	"github.com/teamfortytwo/atlas/internal/service"
)

// Dependencies bundles everything the application needs to serve the
// marketplace. It is constructed by Wire and torn down by the returned cleanup
// function.
type Dependencies struct {
	Engine   *engine.Engine
	Prices   *service.PriceService
	Archiver domain.HistoryArchiver
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Engine: engine.New(logger),
	}

	// --- Redis (optional node price cache) ---
	var priceCache domain.PriceCache
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		priceCache = redis.NewPriceCache(redisClient)
	}

	// --- Node price feed ---
	// The service is always constructed so the price endpoint can report
	// "unknown"; the refresh loop only runs when the feed is enabled.
	kilnClient := kiln.NewClient(cfg.Kiln.BaseURL, cfg.Kiln.APIKey)
	deps.Prices = service.NewPriceService(kilnClient, priceCache, logger)

	// --- S3 (optional history archive storage) ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.Archiver = s3blob.NewArchiver(s3blob.NewWriter(s3Client))
	}

	// --- Notifications ---
	if cfg.Notify.DiscordWebhookURL != "" {
		senders := []notify.Sender{notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL)}
		events := make([]domain.EventType, 0, len(cfg.Notify.Events))
		for _, e := range cfg.Notify.Events {
			events = append(events, domain.EventType(e))
		}
		deps.Notifier = notify.NewNotifier(senders, events, logger)
	}

	return deps, cleanup, nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/metrics"
	goredis "github.com/go-redis/redis/v8"
)

const keyPrefix = "fleetcrm:"

type dashboardCache struct {
	client *goredis.Client
}

func NewDashboardCache(client *goredis.Client) outbound.DashboardCache {
	return &dashboardCache{client: client}
}

func (c *dashboardCache) Get(ctx context.Context, key string) (*entity.DashboardSummary, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		metrics.DashboardCacheTotal.WithLabelValues(metrics.ResultMiss).Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.DashboardCacheTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, false, fmt.Errorf("failed to read dashboard cache: %w", err)
	}

	var summary entity.DashboardSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		metrics.DashboardCacheTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, false, fmt.Errorf("failed to decode cached dashboard: %w", err)
	}

	metrics.DashboardCacheTotal.WithLabelValues(metrics.ResultHit).Inc()
	return &summary, true, nil
}

func (c *dashboardCache) Set(ctx context.Context, key string, summary *entity.DashboardSummary, ttl time.Duration) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write dashboard cache: %w", err)
	}
	return nil
}

type noopDashboardCache struct{}

// NewNoopDashboardCache never hits. Used when caching is disabled.
func NewNoopDashboardCache() outbound.DashboardCache {
	return noopDashboardCache{}
}

func (noopDashboardCache) Get(context.Context, string) (*entity.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (noopDashboardCache) Set(context.Context, string, *entity.DashboardSummary, time.Duration) error {
	return nil
}

// NewClient parses url and verifies the server answers a PING
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := goredis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimitConfig configures the Redis backed limiter
type RateLimitConfig struct {
	Enabled       bool
	IPAttempts    int
	IPWindow      time.Duration
	BlockDuration time.Duration
}

type rateLimitService struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// NewRateLimitService returns a Redis limiter, or a noop limiter when rate
// limiting is disabled or no client is available.
func NewRateLimitService(config RateLimitConfig, client *redis.Client, log *logrus.Logger) inbound.RateLimitService {
	if !config.Enabled || client == nil {
		log.Info("Rate limiting disabled")
		return NewNoopRateLimitService()
	}

	log.WithFields(logrus.Fields{
		"ip_attempts":    config.IPAttempts,
		"ip_window":      config.IPWindow,
		"block_duration": config.BlockDuration,
	}).Info("Rate limiting service initialized")

	return &rateLimitService{
		redisClient: client,
		logger:      log,
	}
}

func (s *rateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	current, err := s.GetAttempts(ctx, key)
	if err != nil {
		return false, err
	}

	under := current < limit
	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":         key,
		"current":     current,
		"limit":       limit,
		"under_limit": under,
	}).Debug("Rate limit check")

	return under, nil
}

// Increment bumps the counter for key. The window starts on the first hit.
func (s *rateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	count, err := s.redisClient.Incr(ctx, key).Result()
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to increment rate limit counter")
		return fmt.Errorf("failed to increment rate limit: %w", err)
	}
	if count == 1 {
		if err := s.redisClient.Expire(ctx, key, window).Err(); err != nil {
			return fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":    key,
		"count":  count,
		"window": window,
	}).Debug("Rate limit incremented")

	return nil
}

func (s *rateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	blockKey := blockedKey(key)

	pipe := s.redisClient.TxPipeline()
	pipe.HSet(ctx, blockKey, map[string]interface{}{
		"reason":         reason,
		"blocked_at":     time.Now().Unix(),
		"duration":       duration.Seconds(),
		"correlation_id": logger.CorrelationID(ctx),
	})
	pipe.Expire(ctx, blockKey, duration)

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to block key")
		return fmt.Errorf("failed to block key: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":      key,
		"duration": duration,
		"reason":   reason,
	}).Warn("Key blocked due to rate limit exceeded")

	return nil
}

func (s *rateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, blockedKey(key)).Result()
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to check block status")
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	return exists > 0, nil
}

func (s *rateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	count, err := s.redisClient.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to get attempts count")
		return 0, fmt.Errorf("failed to get attempts: %w", err)
	}
	return count, nil
}

func blockedKey(key string) string {
	return "blocked:" + key
}

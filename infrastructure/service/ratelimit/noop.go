package ratelimit

import (
	"context"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
)

type noopRateLimitService struct{}

// NewNoopRateLimitService allows every request
func NewNoopRateLimitService() inbound.RateLimitService {
	return noopRateLimitService{}
}

func (noopRateLimitService) CheckLimit(context.Context, string, int, time.Duration) (bool, error) {
	return true, nil
}

func (noopRateLimitService) Increment(context.Context, string, time.Duration) error {
	return nil
}

func (noopRateLimitService) Block(context.Context, string, time.Duration, string) error {
	return nil
}

func (noopRateLimitService) IsBlocked(context.Context, string) (bool, error) {
	return false, nil
}

func (noopRateLimitService) GetAttempts(context.Context, string) (int, error) {
	return 0, nil
}

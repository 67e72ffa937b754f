package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/metrics"
)

const defaultWriteTimeout = 5 * time.Second

var ErrRecorderClosed = errors.New("audit recorder is closed")

// Recorder persists audit records in the background. Each record is written
// at most once by its own goroutine; failures are logged and counted, never
// retried.
type Recorder struct {
	repo         outbound.AuditRepository
	logger       logger.Logger
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ inbound.AuditTrail = (*Recorder)(nil)

func NewRecorder(repo outbound.AuditRepository, log logger.Logger, writeTimeout time.Duration) *Recorder {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &Recorder{
		repo:         repo,
		logger:       log,
		writeTimeout: writeTimeout,
	}
}

// Record dispatches the write and returns immediately
func (r *Recorder) Record(ctx context.Context, record *domain.AuditRecord) {
	if record == nil {
		return
	}

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		metrics.AuditRecordsTotal.WithLabelValues(string(record.Action), metrics.ResultDropped).Inc()
		logger.LogAuditEvent(ctx, r.logger, string(record.Action), string(record.EntityType),
			record.EntityID, record.UserID, ErrRecorderClosed, nil)
		return
	}
	r.wg.Add(1)
	r.mu.RUnlock()

	// keep request values such as the correlation id, drop the cancellation
	writeCtx := context.WithoutCancel(ctx)

	metrics.AuditWritesInFlight.Inc()
	go r.write(writeCtx, record)
}

func (r *Recorder) write(ctx context.Context, record *domain.AuditRecord) {
	defer r.wg.Done()
	defer metrics.AuditWritesInFlight.Dec()

	var err error
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("audit write panicked: %v", p)
		}
		result := metrics.ResultStored
		if err != nil {
			result = metrics.ResultFailed
		}
		metrics.AuditRecordsTotal.WithLabelValues(string(record.Action), result).Inc()
		logger.LogAuditEvent(ctx, r.logger, string(record.Action), string(record.EntityType),
			record.EntityID, record.UserID, err, map[string]interface{}{
				"audit_id": record.ID,
			})
	}()

	ctx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	start := time.Now()
	err = r.repo.Insert(ctx, record)
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
}

// Close stops accepting records and waits for in-flight writes until ctx is
// done.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit drain interrupted: %w", ctx.Err())
	}
}

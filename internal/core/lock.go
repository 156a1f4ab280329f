package core

import (
	"context"

	"go.uber.org/zap"
)

// RequestLock provides context-aware locking for serializing turns
type RequestLock struct {
	sem chan struct{}
}

// NewRequestLock creates a new request lock
func NewRequestLock() *RequestLock {
	return &RequestLock{
		sem: make(chan struct{}, 1),
	}
}

// LockWithContext attempts to acquire the lock, respecting context cancellation
func (c *RequestLock) LockWithContext(ctx context.Context) bool {
	select {
	case c.sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Unlock releases the lock
func (c *RequestLock) Unlock() {
	select {
	case <-c.sem:
	default:
		// already unlocked
	}
}

// WithRequestLock acquires the lock and executes the onSuccess function.
// If the lock cannot be acquired within the context's deadline, onTimeout is called (if provided).
func WithRequestLock(ctx context.Context, lock *RequestLock, operation string, onSuccess func(), onTimeout func()) {
	var logger *zap.SugaredLogger
	if logCtx, ok := ctx.(interface{ GetLogger() *zap.SugaredLogger }); ok {
		logger = logCtx.GetLogger()
	} else {
		logger = GetLogger()
	}

	logger.Debugw("lock_acquiring", "operation", operation)
	if !lock.LockWithContext(ctx) {
		logger.Warnw("lock_timeout", "operation", operation)
		if onTimeout != nil {
			onTimeout()
		}
		return
	}
	logger.Debugw("lock_acquired", "operation", operation)
	defer func() {
		logger.Debugw("lock_released", "operation", operation)
		lock.Unlock()
	}()

	onSuccess()
}

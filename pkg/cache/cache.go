package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMiss          = errors.New("cache miss")
	ErrLockNotHeld   = errors.New("system busy, please try again later (lock)")
	lockRetries      = 3
	lockRetryBackoff = 100 * time.Millisecond
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// WithLock runs fn while holding key, retrying a few times before giving up.
func WithLock(ctx context.Context, l Locker, key string, ttl time.Duration, fn func() error) error {
	value := uuid.New().String()
	acquired := false
	var lastErr error
	for i := 0; i < lockRetries; i++ {
		ok, err := l.AcquireLock(ctx, key, value, ttl)
		if err != nil {
			lastErr = err
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryBackoff):
		}
	}
	if !acquired {
		if lastErr != nil {
			return errors.Join(ErrLockNotHeld, lastErr)
		}
		return ErrLockNotHeld
	}
	defer l.ReleaseLock(context.WithoutCancel(ctx), key, value)
	return fn()
}

// LocalLocker serialises work inside one process when Redis is not configured.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]localLock
	clock func() time.Time
}

type localLock struct {
	value   string
	expires time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: map[string]localLock{}, clock: time.Now}
}

func (l *LocalLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return false, nil
	}
	l.held[key] = localLock{value: value, expires: now.Add(ttl)}
	return true, nil
}

func (l *LocalLocker) ReleaseLock(ctx context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.held[key]; ok && cur.value == value {
		delete(l.held, key)
	}
	return nil
}

// Package memstore provides in-memory stand-ins for the Redis-backed cache and
// notification queue, for unit tests that should not need a Redis server.
package memstore

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/target/bizportal/internal/core"
	"github.com/target/bizportal/internal/domain/notify"
	"github.com/target/bizportal/internal/ports"
)

var (
	_ core.CacheRepository   = (*Cache)(nil)
	_ ports.NotificationSink = (*NotificationSink)(nil)
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Cache is a mutex-guarded map honouring TTLs against an injectable clock.
type Cache struct {
	mu    sync.Mutex
	items map[string]entry

	Now func() time.Time
	// Err, when set, is returned by every operation.
	Err error
}

// NewCache creates an empty cache using the wall clock.
func NewCache() *Cache {
	return &Cache{items: make(map[string]entry), Now: time.Now}
}

func (c *Cache) live(key string) (entry, bool) {
	e, ok := c.items[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !c.Now().Before(e.expiresAt) {
		delete(c.items, key)
		return entry{}, false
	}
	return e, true
}

func (c *Cache) put(key string, value []byte, ttl time.Duration) {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = c.Now().Add(ttl)
	}
	c.items[key] = e
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.put(key, value, ttl)
	return nil
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	e, ok := c.live(key)
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), e.value...), nil
}

func (c *Cache) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	_, ok := c.live(key)
	delete(c.items, key)
	return ok, nil
}

func (c *Cache) SetIfNotExists(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, errors.New("key cannot be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	if _, ok := c.live(key); ok {
		return false, nil
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	c.put(key, value, ttl)
	return true, nil
}

func (c *Cache) DeleteIfEquals(_ context.Context, key string, value []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	e, ok := c.live(key)
	if !ok || !bytes.Equal(e.value, value) {
		return false, nil
	}
	delete(c.items, key)
	return true, nil
}

func (c *Cache) Health(context.Context) error { return c.Err }

// NotificationSink keeps per-recipient queues in memory.
type NotificationSink struct {
	mu      sync.Mutex
	seq     int
	queues  map[string][]notify.Notification
	Now     func() time.Time
	PushErr error
}

// NewNotificationSink creates an empty sink.
func NewNotificationSink() *NotificationSink {
	return &NotificationSink{queues: make(map[string][]notify.Notification), Now: time.Now}
}

func (s *NotificationSink) Push(
	_ context.Context,
	recipient string,
	n notify.Notification,
) (notify.Notification, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PushErr != nil {
		return notify.Notification{}, false, s.PushErr
	}
	if n.DedupeKey != "" {
		for _, p := range s.queues[recipient] {
			if p.DedupeKey == n.DedupeKey {
				return p, false, nil
			}
		}
	}
	s.seq++
	n.ID = "n" + strconv.Itoa(s.seq)
	n.CreatedAt = s.Now()
	s.queues[recipient] = append(s.queues[recipient], n)
	return n, true, nil
}

func (s *NotificationSink) Dismiss(_ context.Context, recipient, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[recipient]
	for i, p := range q {
		if p.ID == id {
			s.queues[recipient] = append(q[:i:i], q[i+1:]...)
			break
		}
	}
	return nil
}

func (s *NotificationSink) Drain(_ context.Context, recipient string) ([]notify.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.queues[recipient]
	delete(s.queues, recipient)
	return out, nil
}

// Pending returns a copy of the queue without draining it.
func (s *NotificationSink) Pending(recipient string) []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Notification(nil), s.queues[recipient]...)
}

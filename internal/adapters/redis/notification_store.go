package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/target/bizportal/internal/domain/notify"
	"github.com/target/bizportal/internal/ports"
)

// DefaultNotificationPrefix namespaces toast queues.
const DefaultNotificationPrefix = "portal:toasts:"

var _ ports.NotificationSink = (*NotificationStore)(nil)

// NotificationStoreOptions configures a NotificationStore.
type NotificationStoreOptions struct {
	Client redis.UniversalClient
	Prefix string
	// TTL bounds how long an undrained queue and its dedupe keys survive.
	TTL time.Duration
	// VisibleFor keeps a drained notification's dedupe key alive while the
	// browser is still showing it.
	VisibleFor time.Duration
}

// NotificationStore keeps one Redis list per recipient plus one SET NX key
// per pending DedupeKey.
type NotificationStore struct {
	client     redis.UniversalClient
	prefix     string
	ttl        time.Duration
	visibleFor time.Duration
	now        func() time.Time
}

// NewNotificationStore creates a Redis-backed notification queue.
func NewNotificationStore(opts NotificationStoreOptions) *NotificationStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultNotificationPrefix
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	visible := opts.VisibleFor
	if visible <= 0 {
		visible = 4 * time.Second
	}
	return &NotificationStore{client: opts.Client, prefix: prefix, ttl: ttl, visibleFor: visible, now: time.Now}
}

// queueKey hash-tags the recipient so a queue and its dedupe keys share a
// cluster slot and can be changed in one transaction.
func (s *NotificationStore) queueKey(recipient string) string {
	return s.prefix + "{" + recipient + "}"
}

func (s *NotificationStore) dedupeKey(recipient, key string) string {
	return s.queueKey(recipient) + ":dedupe:" + strconv.FormatUint(xxhash.Sum64String(key), 16)
}

func (s *NotificationStore) Push(
	ctx context.Context,
	recipient string,
	n notify.Notification,
) (notify.Notification, bool, error) {
	if recipient == "" {
		return notify.Notification{}, false, errors.New("recipient cannot be empty")
	}
	n.ID = uuid.NewString()
	n.CreatedAt = s.now().UTC()

	if n.DedupeKey != "" {
		dk := s.dedupeKey(recipient, n.DedupeKey)
		ok, err := s.client.SetNX(ctx, dk, n.ID, s.ttl).Result()
		if err != nil {
			return notify.Notification{}, false, fmt.Errorf("redis dedupe setnx: %w", err)
		}
		if !ok {
			existing, getErr := s.client.Get(ctx, dk).Result()
			if getErr != nil && !errors.Is(getErr, redis.Nil) {
				return notify.Notification{}, false, fmt.Errorf("redis dedupe get: %w", getErr)
			}
			n.ID = existing
			return n, false, nil
		}
	}

	raw, err := json.Marshal(n)
	if err != nil {
		return notify.Notification{}, false, fmt.Errorf("marshal notification: %w", err)
	}
	qk := s.queueKey(recipient)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, qk, raw)
		p.Expire(ctx, qk, s.ttl)
		return nil
	})
	if err != nil {
		return notify.Notification{}, false, fmt.Errorf("redis push notification: %w", err)
	}
	return n, true, nil
}

// dismissAttempts bounds retries when the queue changes between the read and
// the removal.
const dismissAttempts = 3

func (s *NotificationStore) Dismiss(ctx context.Context, recipient, id string) error {
	if recipient == "" || id == "" {
		return nil
	}
	qk := s.queueKey(recipient)
	remove := func(tx *redis.Tx) error {
		items, err := tx.LRange(ctx, qk, 0, -1).Result()
		if err != nil {
			return fmt.Errorf("redis lrange: %w", err)
		}
		for _, raw := range items {
			var n notify.Notification
			if json.Unmarshal([]byte(raw), &n) != nil || n.ID != id {
				continue
			}
			_, err := tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
				p.LRem(ctx, qk, 1, raw)
				if n.DedupeKey != "" {
					p.Del(ctx, s.dedupeKey(recipient, n.DedupeKey))
				}
				return nil
			})
			return err
		}
		return nil
	}

	var err error
	for range dismissAttempts {
		err = s.client.Watch(ctx, remove, qk)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("redis dismiss notification: %w", err)
	}
	return nil
}

func (s *NotificationStore) Drain(ctx context.Context, recipient string) ([]notify.Notification, error) {
	if recipient == "" {
		return nil, nil
	}
	qk := s.queueKey(recipient)
	var lr *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		lr = p.LRange(ctx, qk, 0, -1)
		p.Del(ctx, qk)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis drain: %w", err)
	}

	out := make([]notify.Notification, 0, len(lr.Val()))
	var dedupeKeys []string
	for _, raw := range lr.Val() {
		var n notify.Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			continue
		}
		if n.DedupeKey != "" {
			dedupeKeys = append(dedupeKeys, s.dedupeKey(recipient, n.DedupeKey))
		}
		out = append(out, n)
	}
	if len(dedupeKeys) == 0 {
		return out, nil
	}

	// Duplicates stay suppressed while the toasts are on screen.
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range dedupeKeys {
			p.Expire(ctx, k, s.visibleFor)
		}
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("redis shorten dedupe keys: %w", err)
	}
	return out, nil
}

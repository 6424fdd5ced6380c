package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenAdsStore tracks which ads have already been served to a given
// app package, backing the unseen-random ad selection.
type SeenAdsStore interface {
	MarkSeen(ctx context.Context, packageName, adID string) error
	SeenAds(ctx context.Context, packageName string) (map[string]bool, error)
}

// RedisSeenAdsStore implements SeenAdsStore with one Redis set per
// package, expiring after the configured TTL so rotation restarts
// daily.
type RedisSeenAdsStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSeenAdsStore creates a Redis-backed seen-ads store.
func NewRedisSeenAdsStore(client *redis.Client, ttl time.Duration) *RedisSeenAdsStore {
	return &RedisSeenAdsStore{client: client, ttl: ttl}
}

func seenKey(packageName string) string {
	return fmt.Sprintf("seen:%s", packageName)
}

func (s *RedisSeenAdsStore) MarkSeen(ctx context.Context, packageName, adID string) error {
	key := seenKey(packageName)
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, key, adID)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSeenAdsStore) SeenAds(ctx context.Context, packageName string) (map[string]bool, error) {
	ids, err := s.client.SMembers(ctx, seenKey(packageName)).Result()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}

// InMemorySeenAdsStore is the fallback used when Redis is not
// available and in tests. Entries never expire.
type InMemorySeenAdsStore struct {
	mu   sync.Mutex
	seen map[string]map[string]bool
}

// NewInMemorySeenAdsStore creates an empty in-memory seen-ads store.
func NewInMemorySeenAdsStore() *InMemorySeenAdsStore {
	return &InMemorySeenAdsStore{seen: make(map[string]map[string]bool)}
}

func (s *InMemorySeenAdsStore) MarkSeen(ctx context.Context, packageName, adID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[packageName] == nil {
		s.seen[packageName] = make(map[string]bool)
	}
	s.seen[packageName][adID] = true
	return nil
}

func (s *InMemorySeenAdsStore) SeenAds(ctx context.Context, packageName string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make(map[string]bool, len(s.seen[packageName]))
	for id := range s.seen[packageName] {
		res[id] = true
	}
	return res, nil
}

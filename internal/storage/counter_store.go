package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vidora/adserve/internal/models"
)

// CounterMatch selects daily counter rows. Empty string fields match
// everything; the date range is inclusive on both ends.
type CounterMatch struct {
	PerformerID string
	AdID        string
	Range       models.DateRange
}

// CounterStore is the keyed aggregate store for daily engagement
// counters. Increment is a single atomic upsert-and-increment: the
// row for the key is created on first write and two concurrent
// increments on the same key never lose an update. There is at most
// one row per (performer, ad, date) key.
type CounterStore interface {
	Increment(ctx context.Context, key models.CounterKey, eventType models.EventType, watchDelta float64) error
	Read(ctx context.Context, match CounterMatch) ([]*models.DailyCounter, error)
	DeleteByAd(ctx context.Context, adID string) error
}

// InMemoryCounterStore implements CounterStore with a mutex guarding
// the whole upsert, preserving the single-operation contract of the
// database-backed implementation.
type InMemoryCounterStore struct {
	mu       sync.Mutex
	counters map[models.CounterKey]*models.DailyCounter
	now      func() time.Time
}

// NewInMemoryCounterStore creates an empty in-memory counter store.
func NewInMemoryCounterStore() *InMemoryCounterStore {
	return &InMemoryCounterStore{
		counters: make(map[models.CounterKey]*models.DailyCounter),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *InMemoryCounterStore) Increment(ctx context.Context, key models.CounterKey, eventType models.EventType, watchDelta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok {
		c = &models.DailyCounter{
			PerformerID: key.PerformerID,
			AdID:        key.AdID,
			Date:        key.Date,
			CreatedAt:   s.now(),
		}
		s.counters[key] = c
	}

	switch eventType {
	case models.EventView:
		c.Views++
	case models.EventClick:
		c.Clicks++
	case models.EventSkip:
		c.Skips++
	case models.EventExit:
		c.Exits++
	}
	c.WatchDurationSum += watchDelta
	return nil
}

func (s *InMemoryCounterStore) Read(ctx context.Context, match CounterMatch) ([]*models.DailyCounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*models.DailyCounter
	for key, c := range s.counters {
		if match.AdID != "" && key.AdID != match.AdID {
			continue
		}
		if match.PerformerID != "" && key.PerformerID != match.PerformerID {
			continue
		}
		if !match.Range.Contains(key.Date) {
			continue
		}
		cp := *c
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Date != res[j].Date {
			return res[i].Date < res[j].Date
		}
		return res[i].AdID < res[j].AdID
	})
	return res, nil
}

func (s *InMemoryCounterStore) DeleteByAd(ctx context.Context, adID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.counters {
		if key.AdID == adID {
			delete(s.counters, key)
		}
	}
	return nil
}

package storage

import (
	"context"
	"sync"

	"github.com/vidora/adserve/internal/models"
)

// EventLog is the append-only raw event store, bucketed by calendar
// date. Rows are never mutated after the append; the log is the
// source of truth the daily aggregates can be rebuilt from.
type EventLog interface {
	Append(ctx context.Context, e *models.Event) error
	EventsByDate(ctx context.Context, date string) ([]*models.Event, error)
	DeleteByAd(ctx context.Context, adID string) error
}

// InMemoryEventLog is a thread-safe in-memory EventLog.
type InMemoryEventLog struct {
	mu     sync.RWMutex
	byDate map[string][]*models.Event
}

// NewInMemoryEventLog creates an empty in-memory event log.
func NewInMemoryEventLog() *InMemoryEventLog {
	return &InMemoryEventLog{byDate: make(map[string][]*models.Event)}
}

func (l *InMemoryEventLog) Append(ctx context.Context, e *models.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *e
	l.byDate[e.Date] = append(l.byDate[e.Date], &cp)
	return nil
}

func (l *InMemoryEventLog) EventsByDate(ctx context.Context, date string) ([]*models.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	events := l.byDate[date]
	res := make([]*models.Event, 0, len(events))
	for _, e := range events {
		cp := *e
		res = append(res, &cp)
	}
	return res, nil
}

func (l *InMemoryEventLog) DeleteByAd(ctx context.Context, adID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for date, events := range l.byDate {
		kept := events[:0]
		for _, e := range events {
			if e.AdID != adID {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(l.byDate, date)
		} else {
			l.byDate[date] = kept
		}
	}
	return nil
}

// Size returns the total number of logged events. Test helper.
func (l *InMemoryEventLog) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, events := range l.byDate {
		n += len(events)
	}
	return n
}

package models

import "time"

// EventType classifies an engagement event.
type EventType string

const (
	EventView  EventType = "view"
	EventClick EventType = "click"
	EventSkip  EventType = "skip"
	EventExit  EventType = "exit"
)

// ValidEventType reports whether t is one of the supported types.
func ValidEventType(t EventType) bool {
	switch t {
	case EventView, EventClick, EventSkip, EventExit:
		return true
	}
	return false
}

// Event is an immutable engagement fact. Timestamp is the
// client-supplied string, stored verbatim; Date and CreatedAt are
// assigned from the server clock at ingestion. The row carries
// everything needed to rebuild the daily aggregates from scratch.
type Event struct {
	ID            string    `json:"id"`
	AdID          string    `json:"adId"`
	PerformerID   string    `json:"performerId"`
	PackageName   string    `json:"packageName"`
	Timestamp     string    `json:"timestamp"`
	EventType     EventType `json:"eventType"`
	WatchDuration float64   `json:"watchDuration"`
	Date          string    `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
}

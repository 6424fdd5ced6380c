package models

import "time"

// DateFormat is the calendar-date key layout. Fixed width, so
// lexicographic comparison equals chronological comparison.
const DateFormat = "2006-01-02"

// CounterKey identifies one daily aggregate row.
type CounterKey struct {
	PerformerID string
	AdID        string
	Date        string
}

// DailyCounter is the aggregate row at the heart of the stats
// pipeline: per-event-type counts plus a running watch-duration sum
// for one (performer, ad, date) key. Created lazily on first event,
// never empty; counts only ever grow.
type DailyCounter struct {
	PerformerID      string    `json:"performerId"`
	AdID             string    `json:"adId"`
	Date             string    `json:"date"`
	Views            int64     `json:"views"`
	Clicks           int64     `json:"clicks"`
	Skips            int64     `json:"skips"`
	Exits            int64     `json:"exits"`
	WatchDurationSum float64   `json:"watchDurationSum"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RawTotals holds counters summed across daily rows, before any
// derived metric is computed.
type RawTotals struct {
	Views            int64
	Clicks           int64
	Skips            int64
	Exits            int64
	WatchDurationSum float64
}

// Add accumulates one daily row into the totals.
func (t *RawTotals) Add(c *DailyCounter) {
	t.Views += c.Views
	t.Clicks += c.Clicks
	t.Skips += c.Skips
	t.Exits += c.Exits
	t.WatchDurationSum += c.WatchDurationSum
}

// Stats is the derived view of a set of totals. ConversionRate is
// present only when a budget tier was available; it is a
// budget-weighted proxy (clicks/weight*100), not a true conversion
// measurement.
type Stats struct {
	Views            int64    `json:"views"`
	Clicks           int64    `json:"clicks"`
	Skips            int64    `json:"skips"`
	AvgWatchDuration float64  `json:"avgWatchDuration"`
	ClickThroughRate float64  `json:"clickThroughRate"`
	ConversionRate   *float64 `json:"conversionRate,omitempty"`
}

// AdStatsEntry is one row of a performer stats listing: derived stats
// for a single owned ad, plus the raw exit count.
type AdStatsEntry struct {
	AdID             string  `json:"adId"`
	Views            int64   `json:"views"`
	Clicks           int64   `json:"clicks"`
	Skips            int64   `json:"skips"`
	Exits            int64   `json:"exits"`
	AvgWatchDuration float64 `json:"avgWatchDuration"`
	ClickThroughRate float64 `json:"clickThroughRate"`
}

// DateRange is an inclusive calendar-date filter. Empty bounds are
// unbounded on that side.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

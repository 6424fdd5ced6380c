package storage

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/vidora/adserve/internal/models"
)

// ClickHouseEventLog implements EventLog on a ClickHouse table. The
// raw log is insert-only analytics data, which is what ClickHouse is
// built for; ad deletion is the rare mutation and goes through an
// ALTER DELETE mutation.
//
// Expected table:
//
//	CREATE TABLE ad_events (
//	    id             String,
//	    ad_id          String,
//	    performer_id   String,
//	    package_name   String,
//	    client_ts      String,
//	    event_type     LowCardinality(String),
//	    watch_duration Float64,
//	    date           Date,
//	    created_at     DateTime64(3, 'UTC')
//	) ENGINE = MergeTree()
//	PARTITION BY toYYYYMM(date)
//	ORDER BY (date, ad_id, created_at)
type ClickHouseEventLog struct {
	conn driver.Conn
}

// NewClickHouseEventLog creates a ClickHouse-backed event log.
func NewClickHouseEventLog(conn driver.Conn) *ClickHouseEventLog {
	return &ClickHouseEventLog{conn: conn}
}

func (l *ClickHouseEventLog) Append(ctx context.Context, e *models.Event) error {
	err := l.conn.Exec(ctx, `
		INSERT INTO ad_events
			(id, ad_id, performer_id, package_name, client_ts, event_type, watch_duration, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.AdID, e.PerformerID, e.PackageName, e.Timestamp,
		string(e.EventType), e.WatchDuration, e.Date, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append event to clickhouse: %w", err)
	}
	return nil
}

func (l *ClickHouseEventLog) EventsByDate(ctx context.Context, date string) ([]*models.Event, error) {
	rows, err := l.conn.Query(ctx, `
		SELECT id, ad_id, performer_id, package_name, client_ts, event_type,
			watch_duration, toString(date), created_at
		FROM ad_events WHERE date = ? ORDER BY created_at
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query events from clickhouse: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		var eventType string
		if err := rows.Scan(&e.ID, &e.AdID, &e.PerformerID, &e.PackageName,
			&e.Timestamp, &eventType, &e.WatchDuration, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.EventType = models.EventType(eventType)
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (l *ClickHouseEventLog) DeleteByAd(ctx context.Context, adID string) error {
	err := l.conn.Exec(ctx, `ALTER TABLE ad_events DELETE WHERE ad_id = ?`, adID)
	if err != nil {
		return fmt.Errorf("failed to delete events from clickhouse: %w", err)
	}
	return nil
}

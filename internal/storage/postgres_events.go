package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidora/adserve/internal/models"
)

// PostgresEventLog implements EventLog using PostgreSQL. Used when no
// ClickHouse warehouse is configured.
type PostgresEventLog struct {
	pool *pgxpool.Pool
}

// NewPostgresEventLog creates a PostgreSQL-backed event log.
func NewPostgresEventLog(pool *pgxpool.Pool) *PostgresEventLog {
	return &PostgresEventLog{pool: pool}
}

func (l *PostgresEventLog) Append(ctx context.Context, e *models.Event) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO ad_events
			(id, ad_id, performer_id, package_name, client_ts, event_type, watch_duration, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, e.ID, e.AdID, e.PerformerID, e.PackageName, e.Timestamp,
		string(e.EventType), e.WatchDuration, e.Date, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (l *PostgresEventLog) EventsByDate(ctx context.Context, date string) ([]*models.Event, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, ad_id, performer_id, package_name, client_ts, event_type, watch_duration, date, created_at
		FROM ad_events WHERE date = $1 ORDER BY created_at
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
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

func (l *PostgresEventLog) DeleteByAd(ctx context.Context, adID string) error {
	_, err := l.pool.Exec(ctx, `DELETE FROM ad_events WHERE ad_id = $1`, adID)
	if err != nil {
		return fmt.Errorf("failed to delete events for ad: %w", err)
	}
	return nil
}

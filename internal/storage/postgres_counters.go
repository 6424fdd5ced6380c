package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidora/adserve/internal/models"
)

// PostgresCounterStore implements CounterStore on a daily_ad_stats
// table. The increment is one INSERT ... ON CONFLICT DO UPDATE
// statement, so the upsert-and-increment is atomic at the row level:
// concurrent writers to the same key serialize inside Postgres and no
// update is lost. No application-level locking is involved.
type PostgresCounterStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCounterStore creates a PostgreSQL-backed counter store.
func NewPostgresCounterStore(pool *pgxpool.Pool) *PostgresCounterStore {
	return &PostgresCounterStore{pool: pool}
}

func (s *PostgresCounterStore) Increment(ctx context.Context, key models.CounterKey, eventType models.EventType, watchDelta float64) error {
	var views, clicks, skips, exits int64
	switch eventType {
	case models.EventView:
		views = 1
	case models.EventClick:
		clicks = 1
	case models.EventSkip:
		skips = 1
	case models.EventExit:
		exits = 1
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO daily_ad_stats
			(performer_id, ad_id, date, views, clicks, skips, exits, watch_duration_sum, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (performer_id, ad_id, date) DO UPDATE SET
			views  = daily_ad_stats.views  + EXCLUDED.views,
			clicks = daily_ad_stats.clicks + EXCLUDED.clicks,
			skips  = daily_ad_stats.skips  + EXCLUDED.skips,
			exits  = daily_ad_stats.exits  + EXCLUDED.exits,
			watch_duration_sum = daily_ad_stats.watch_duration_sum + EXCLUDED.watch_duration_sum
	`, key.PerformerID, key.AdID, key.Date, views, clicks, skips, exits, watchDelta)

	if err != nil {
		return fmt.Errorf("failed to increment daily counter: %w", err)
	}
	return nil
}

func (s *PostgresCounterStore) Read(ctx context.Context, match CounterMatch) ([]*models.DailyCounter, error) {
	query := `
		SELECT performer_id, ad_id, date, views, clicks, skips, exits, watch_duration_sum, created_at
		FROM daily_ad_stats WHERE 1=1`
	args := make([]any, 0, 4)

	if match.PerformerID != "" {
		args = append(args, match.PerformerID)
		query += fmt.Sprintf(" AND performer_id = $%d", len(args))
	}
	if match.AdID != "" {
		args = append(args, match.AdID)
		query += fmt.Sprintf(" AND ad_id = $%d", len(args))
	}
	if match.Range.From != "" {
		args = append(args, match.Range.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if match.Range.To != "" {
		args = append(args, match.Range.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date, ad_id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read daily counters: %w", err)
	}
	defer rows.Close()

	var res []*models.DailyCounter
	for rows.Next() {
		var c models.DailyCounter
		if err := rows.Scan(&c.PerformerID, &c.AdID, &c.Date, &c.Views, &c.Clicks,
			&c.Skips, &c.Exits, &c.WatchDurationSum, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (s *PostgresCounterStore) DeleteByAd(ctx context.Context, adID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM daily_ad_stats WHERE ad_id = $1`, adID)
	if err != nil {
		return fmt.Errorf("failed to delete counters for ad: %w", err)
	}
	return nil
}

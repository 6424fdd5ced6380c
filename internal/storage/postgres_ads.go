package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidora/adserve/internal/models"
)

// PostgresAdRepo implements AdRepo using PostgreSQL.
type PostgresAdRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresAdRepo creates a PostgreSQL-backed ad repo.
func NewPostgresAdRepo(pool *pgxpool.Pool) *PostgresAdRepo {
	return &PostgresAdRepo{pool: pool}
}

const adColumns = `id, name, performer_id, performer_name, video_url, target_url,
	budget, skip_time, exit_time, created_at, updated_at`

func scanAd(row pgx.Row) (*models.Ad, error) {
	var a models.Ad
	err := row.Scan(&a.ID, &a.Name, &a.PerformerID, &a.PerformerName,
		&a.Details.VideoURL, &a.Details.TargetURL, &a.Details.Budget,
		&a.Details.SkipTime, &a.Details.ExitTime, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAdRepo) GetAd(ctx context.Context, id string) (*models.Ad, error) {
	a, err := scanAd(r.pool.QueryRow(ctx,
		`SELECT `+adColumns+` FROM ads WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ad: %w", err)
	}
	return a, nil
}

func (r *PostgresAdRepo) ListAds(ctx context.Context) ([]*models.Ad, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+adColumns+` FROM ads ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}
	defer rows.Close()

	var ads []*models.Ad
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, a)
	}
	return ads, rows.Err()
}

func (r *PostgresAdRepo) CreateAd(ctx context.Context, a *models.Ad) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ads (id, name, performer_id, performer_name, video_url, target_url,
			budget, skip_time, exit_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, a.ID, a.Name, a.PerformerID, a.PerformerName, a.Details.VideoURL,
		a.Details.TargetURL, a.Details.Budget, a.Details.SkipTime,
		a.Details.ExitTime, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ad: %w", err)
	}
	return nil
}

// UpdateAd merges the partial update in a single statement. COALESCE
// keeps columns whose update field is nil; updated_at always moves.
func (r *PostgresAdRepo) UpdateAd(ctx context.Context, id string, upd *models.AdUpdate, now time.Time) (*models.Ad, error) {
	a, err := scanAd(r.pool.QueryRow(ctx, `
		UPDATE ads SET
			name       = COALESCE($2, name),
			video_url  = COALESCE($3, video_url),
			target_url = COALESCE($4, target_url),
			budget     = COALESCE($5, budget),
			skip_time  = COALESCE($6, skip_time),
			exit_time  = COALESCE($7, exit_time),
			updated_at = $8
		WHERE id = $1
		RETURNING `+adColumns,
		id, upd.Name, upd.VideoURL, upd.TargetURL, upd.Budget,
		upd.SkipTime, upd.ExitTime, now))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update ad: %w", err)
	}
	return a, nil
}

func (r *PostgresAdRepo) DeleteAd(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete ad: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

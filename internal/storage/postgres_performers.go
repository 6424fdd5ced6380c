package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidora/adserve/internal/models"
)

// PostgresPerformerRepo implements PerformerRepo using PostgreSQL.
// The owned-ad set lives in a TEXT[] column so the stored ad order
// survives round trips, matching the listing order of performer
// stats.
type PostgresPerformerRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresPerformerRepo creates a PostgreSQL-backed performer repo.
func NewPostgresPerformerRepo(pool *pgxpool.Pool) *PostgresPerformerRepo {
	return &PostgresPerformerRepo{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresPerformerRepo) scanPerformer(row pgx.Row) (*models.Performer, error) {
	var p models.Performer
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Ads); err != nil {
		return nil, err
	}
	if p.Ads == nil {
		p.Ads = []string{}
	}
	return &p, nil
}

func (r *PostgresPerformerRepo) GetPerformer(ctx context.Context, id string) (*models.Performer, error) {
	p, err := r.scanPerformer(r.pool.QueryRow(ctx,
		`SELECT id, name, email, ads FROM performers WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get performer: %w", err)
	}
	return p, nil
}

func (r *PostgresPerformerRepo) GetPerformerByEmail(ctx context.Context, email string) (*models.Performer, error) {
	p, err := r.scanPerformer(r.pool.QueryRow(ctx,
		`SELECT id, name, email, ads FROM performers WHERE email = $1`, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get performer by email: %w", err)
	}
	return p, nil
}

func (r *PostgresPerformerRepo) ListPerformers(ctx context.Context) ([]*models.Performer, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, email, ads FROM performers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list performers: %w", err)
	}
	defer rows.Close()

	var performers []*models.Performer
	for rows.Next() {
		p, err := r.scanPerformer(rows)
		if err != nil {
			return nil, err
		}
		performers = append(performers, p)
	}
	return performers, rows.Err()
}

func (r *PostgresPerformerRepo) CreatePerformer(ctx context.Context, p *models.Performer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO performers (id, name, email, ads) VALUES ($1, $2, $3, $4)
	`, p.ID, p.Name, p.Email, p.Ads)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create performer: %w", err)
	}
	return nil
}

func (r *PostgresPerformerRepo) AddAd(ctx context.Context, performerID, adID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE performers SET ads = array_append(ads, $2)
		WHERE id = $1 AND NOT ($2 = ANY(ads))
	`, performerID, adID)
	if err != nil {
		return fmt.Errorf("failed to add ad to performer: %w", err)
	}
	return nil
}

func (r *PostgresPerformerRepo) RemoveAd(ctx context.Context, performerID, adID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE performers SET ads = array_remove(ads, $2) WHERE id = $1
	`, performerID, adID)
	if err != nil {
		return fmt.Errorf("failed to remove ad from performer: %w", err)
	}
	return nil
}

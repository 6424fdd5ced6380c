package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidora/adserve/internal/models"
)

// PostgresDeveloperRepo implements DeveloperRepo using PostgreSQL.
type PostgresDeveloperRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresDeveloperRepo creates a PostgreSQL-backed developer repo.
func NewPostgresDeveloperRepo(pool *pgxpool.Pool) *PostgresDeveloperRepo {
	return &PostgresDeveloperRepo{pool: pool}
}

func (r *PostgresDeveloperRepo) GetDeveloperByEmail(ctx context.Context, email string) (*models.Developer, error) {
	var d models.Developer
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, created_at FROM developers WHERE email = $1
	`, email).Scan(&d.ID, &d.Name, &d.Email, &d.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get developer by email: %w", err)
	}
	return &d, nil
}

func (r *PostgresDeveloperRepo) CreateDeveloper(ctx context.Context, d *models.Developer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO developers (id, name, email, created_at) VALUES ($1, $2, $3, $4)
	`, d.ID, d.Name, d.Email, d.CreatedAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create developer: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"sync"

	"github.com/vidora/adserve/internal/models"
)

// DeveloperRepo defines operations for developer accounts.
type DeveloperRepo interface {
	GetDeveloperByEmail(ctx context.Context, email string) (*models.Developer, error)
	CreateDeveloper(ctx context.Context, d *models.Developer) error
}

// InMemoryDeveloperRepo is a thread-safe in-memory DeveloperRepo.
type InMemoryDeveloperRepo struct {
	mu      sync.RWMutex
	byEmail map[string]*models.Developer
}

// NewInMemoryDeveloperRepo creates an empty in-memory developer repo.
func NewInMemoryDeveloperRepo() *InMemoryDeveloperRepo {
	return &InMemoryDeveloperRepo{byEmail: make(map[string]*models.Developer)}
}

func (r *InMemoryDeveloperRepo) GetDeveloperByEmail(ctx context.Context, email string) (*models.Developer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *InMemoryDeveloperRepo) CreateDeveloper(ctx context.Context, d *models.Developer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[d.Email]; taken {
		return ErrConflict
	}
	cp := *d
	r.byEmail[d.Email] = &cp
	return nil
}

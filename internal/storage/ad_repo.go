package storage

import (
	"context"
	"sync"
	"time"

	"github.com/vidora/adserve/internal/models"
)

// AdRepo defines CRUD operations for ads. Lookups return (nil, nil)
// when the ad does not exist; the service layer turns that into a
// typed not-found error.
type AdRepo interface {
	GetAd(ctx context.Context, id string) (*models.Ad, error)
	ListAds(ctx context.Context) ([]*models.Ad, error)
	CreateAd(ctx context.Context, a *models.Ad) error
	UpdateAd(ctx context.Context, id string, upd *models.AdUpdate, now time.Time) (*models.Ad, error)
	DeleteAd(ctx context.Context, id string) (bool, error)
}

// InMemoryAdRepo is a thread-safe in-memory AdRepo. Used when
// PostgreSQL is unavailable and throughout the test suite.
type InMemoryAdRepo struct {
	mu    sync.RWMutex
	ads   map[string]*models.Ad
	order []string
}

// NewInMemoryAdRepo creates an empty in-memory ad repo.
func NewInMemoryAdRepo() *InMemoryAdRepo {
	return &InMemoryAdRepo{ads: make(map[string]*models.Ad)}
}

func (r *InMemoryAdRepo) GetAd(ctx context.Context, id string) (*models.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.ads[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *InMemoryAdRepo) ListAds(ctx context.Context) ([]*models.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.Ad, 0, len(r.order))
	for _, id := range r.order {
		if a, ok := r.ads[id]; ok {
			cp := *a
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *InMemoryAdRepo) CreateAd(ctx context.Context, a *models.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.ads[a.ID] = &cp
	r.order = append(r.order, a.ID)
	return nil
}

func (r *InMemoryAdRepo) UpdateAd(ctx context.Context, id string, upd *models.AdUpdate, now time.Time) (*models.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.ads[id]
	if !ok {
		return nil, nil
	}
	upd.Apply(a, now)
	cp := *a
	return &cp, nil
}

func (r *InMemoryAdRepo) DeleteAd(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ads[id]; !ok {
		return false, nil
	}
	delete(r.ads, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

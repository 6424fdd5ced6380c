package storage

import (
	"context"
	"sync"

	"github.com/vidora/adserve/internal/models"
)

// PerformerRepo defines operations for performers. CreatePerformer
// returns ErrConflict when the email is already taken, so the
// duplicate-creation race collapses into the store's uniqueness
// constraint instead of a lookup-then-insert sequence.
type PerformerRepo interface {
	GetPerformer(ctx context.Context, id string) (*models.Performer, error)
	GetPerformerByEmail(ctx context.Context, email string) (*models.Performer, error)
	ListPerformers(ctx context.Context) ([]*models.Performer, error)
	CreatePerformer(ctx context.Context, p *models.Performer) error
	AddAd(ctx context.Context, performerID, adID string) error
	RemoveAd(ctx context.Context, performerID, adID string) error
}

// InMemoryPerformerRepo is a thread-safe in-memory PerformerRepo.
type InMemoryPerformerRepo struct {
	mu         sync.RWMutex
	performers map[string]*models.Performer
	byEmail    map[string]string
	order      []string
}

// NewInMemoryPerformerRepo creates an empty in-memory performer repo.
func NewInMemoryPerformerRepo() *InMemoryPerformerRepo {
	return &InMemoryPerformerRepo{
		performers: make(map[string]*models.Performer),
		byEmail:    make(map[string]string),
	}
}

func copyPerformer(p *models.Performer) *models.Performer {
	cp := *p
	cp.Ads = append([]string(nil), p.Ads...)
	return &cp
}

func (r *InMemoryPerformerRepo) GetPerformer(ctx context.Context, id string) (*models.Performer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.performers[id]
	if !ok {
		return nil, nil
	}
	return copyPerformer(p), nil
}

func (r *InMemoryPerformerRepo) GetPerformerByEmail(ctx context.Context, email string) (*models.Performer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return copyPerformer(r.performers[id]), nil
}

func (r *InMemoryPerformerRepo) ListPerformers(ctx context.Context) ([]*models.Performer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.Performer, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.performers[id]; ok {
			res = append(res, copyPerformer(p))
		}
	}
	return res, nil
}

func (r *InMemoryPerformerRepo) CreatePerformer(ctx context.Context, p *models.Performer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[p.Email]; taken {
		return ErrConflict
	}
	r.performers[p.ID] = copyPerformer(p)
	r.byEmail[p.Email] = p.ID
	r.order = append(r.order, p.ID)
	return nil
}

func (r *InMemoryPerformerRepo) AddAd(ctx context.Context, performerID, adID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.performers[performerID]
	if !ok {
		return nil
	}
	for _, id := range p.Ads {
		if id == adID {
			return nil
		}
	}
	p.Ads = append(p.Ads, adID)
	return nil
}

func (r *InMemoryPerformerRepo) RemoveAd(ctx context.Context, performerID, adID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.performers[performerID]
	if !ok {
		return nil
	}
	for i, id := range p.Ads {
		if id == adID {
			p.Ads = append(p.Ads[:i], p.Ads[i+1:]...)
			break
		}
	}
	return nil
}

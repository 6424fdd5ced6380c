package ads

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vidora/adserve/internal/models"
	"github.com/vidora/adserve/internal/storage"
)

// PerformerService manages performer accounts.
type PerformerService struct {
	performers storage.PerformerRepo
}

// NewPerformerService constructs a PerformerService.
func NewPerformerService(performers storage.PerformerRepo) *PerformerService {
	return &PerformerService{performers: performers}
}

// CreatePerformer registers a performer. Creation is idempotent on
// email: if the address is already registered, or a concurrent
// request wins the insert race, the existing record is returned with
// created=false. The store's uniqueness constraint, not a
// lookup-then-insert sequence, is what closes the race.
func (s *PerformerService) CreatePerformer(ctx context.Context, name, email string) (*models.Performer, bool, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if existing, err := s.performers.GetPerformerByEmail(ctx, email); err != nil {
		return nil, false, storageErr("performer lookup", err)
	} else if existing != nil {
		return existing, false, nil
	}

	performer := &models.Performer{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Ads:   []string{},
	}
	err := s.performers.CreatePerformer(ctx, performer)
	if errors.Is(err, storage.ErrConflict) {
		existing, lookupErr := s.performers.GetPerformerByEmail(ctx, email)
		if lookupErr != nil {
			return nil, false, storageErr("performer lookup", lookupErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, storageErr("performer create", err)
	}
	return performer, true, nil
}

// FindByEmail returns the performer registered under email, or nil.
func (s *PerformerService) FindByEmail(ctx context.Context, email string) (*models.Performer, error) {
	performer, err := s.performers.GetPerformerByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, storageErr("performer lookup", err)
	}
	return performer, nil
}

// ListPerformers returns every registered performer.
func (s *PerformerService) ListPerformers(ctx context.Context) ([]*models.Performer, error) {
	performers, err := s.performers.ListPerformers(ctx)
	if err != nil {
		return nil, storageErr("performer list", err)
	}
	return performers, nil
}

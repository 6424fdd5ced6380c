package ads

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vidora/adserve/internal/models"
	"github.com/vidora/adserve/internal/storage"
)

// DeveloperService manages developer accounts. Developers identify by
// email only.
type DeveloperService struct {
	developers storage.DeveloperRepo
}

// NewDeveloperService constructs a DeveloperService.
func NewDeveloperService(developers storage.DeveloperRepo) *DeveloperService {
	return &DeveloperService{developers: developers}
}

// CreateDeveloper registers a developer, idempotent on email the same
// way performer creation is.
func (s *DeveloperService) CreateDeveloper(ctx context.Context, name, email string) (*models.Developer, bool, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if existing, err := s.developers.GetDeveloperByEmail(ctx, email); err != nil {
		return nil, false, storageErr("developer lookup", err)
	} else if existing != nil {
		return existing, false, nil
	}

	developer := &models.Developer{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	err := s.developers.CreateDeveloper(ctx, developer)
	if errors.Is(err, storage.ErrConflict) {
		existing, lookupErr := s.developers.GetDeveloperByEmail(ctx, email)
		if lookupErr != nil {
			return nil, false, storageErr("developer lookup", lookupErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, storageErr("developer create", err)
	}
	return developer, true, nil
}

// Login resolves a developer by email. A missing account is reported
// as not found rather than an auth failure; there are no passwords.
func (s *DeveloperService) Login(ctx context.Context, email string) (*models.Developer, error) {
	developer, err := s.developers.GetDeveloperByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, storageErr("developer lookup", err)
	}
	if developer == nil {
		return nil, &NotFoundError{Resource: "developer", ID: email}
	}
	return developer, nil
}

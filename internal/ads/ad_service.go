package ads

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vidora/adserve/internal/metrics"
	"github.com/vidora/adserve/internal/models"
	"github.com/vidora/adserve/internal/storage"
	"go.uber.org/zap"
)

// AdService provides CRUD over ads plus random selection for serving.
// Deletion cascades into the performer's ad list, the raw event log
// and the daily counters.
type AdService struct {
	ads        storage.AdRepo
	performers storage.PerformerRepo
	events     storage.EventLog
	counters   storage.CounterStore
	seen       storage.SeenAdsStore
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewAdService constructs an AdService. seen may be nil, in which
// case random selection serves from the full ad set; metrics may be
// nil.
func NewAdService(ads storage.AdRepo, performers storage.PerformerRepo, events storage.EventLog,
	counters storage.CounterStore, seen storage.SeenAdsStore, logger *zap.Logger, m *metrics.Metrics) *AdService {
	return &AdService{
		ads:        ads,
		performers: performers,
		events:     events,
		counters:   counters,
		seen:       seen,
		logger:     logger,
		metrics:    m,
	}
}

// CreateAdRequest is the create-ad input. The performer is referenced
// by email, matching how the management UI identifies creators.
type CreateAdRequest struct {
	AdName         string           `json:"adName" validate:"required"`
	PerformerEmail string           `json:"performerEmail" validate:"required,email"`
	Details        models.AdDetails `json:"adDetails"`
}

// CreateAd validates the request, resolves the owning performer by
// email and registers the new ad in the performer's ad set.
func (s *AdService) CreateAd(ctx context.Context, req CreateAdRequest) (*models.Ad, error) {
	performer, err := s.performers.GetPerformerByEmail(ctx, strings.TrimSpace(req.PerformerEmail))
	if err != nil {
		return nil, storageErr("performer lookup", err)
	}
	if performer == nil {
		return nil, &NotFoundError{Resource: "performer", ID: req.PerformerEmail}
	}

	now := time.Now().UTC()
	ad := &models.Ad{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.AdName),
		PerformerID:   performer.ID,
		PerformerName: performer.Name,
		Details: models.AdDetails{
			VideoURL:  strings.TrimSpace(req.Details.VideoURL),
			TargetURL: strings.TrimSpace(req.Details.TargetURL),
			Budget:    strings.ToLower(strings.TrimSpace(req.Details.Budget)),
			SkipTime:  req.Details.SkipTime,
			ExitTime:  req.Details.ExitTime,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ad.Validate(); err != nil {
		return nil, &ValidationError{Field: "adDetails", Reason: err.Error()}
	}

	if err := s.ads.CreateAd(ctx, ad); err != nil {
		return nil, storageErr("ad create", err)
	}
	if err := s.performers.AddAd(ctx, performer.ID, ad.ID); err != nil {
		return nil, storageErr("performer ad-list update", err)
	}
	return ad, nil
}

// GetAd returns one ad by id.
func (s *AdService) GetAd(ctx context.Context, id string) (*models.Ad, error) {
	ad, err := s.ads.GetAd(ctx, id)
	if err != nil {
		return nil, storageErr("ad lookup", err)
	}
	if ad == nil {
		return nil, &NotFoundError{Resource: "ad", ID: id}
	}
	return ad, nil
}

// ListAds returns all ads.
func (s *AdService) ListAds(ctx context.Context) ([]*models.Ad, error) {
	ads, err := s.ads.ListAds(ctx)
	if err != nil {
		return nil, storageErr("ad list", err)
	}
	return ads, nil
}

// UpdateAd applies a partial update. Only supplied fields change;
// updatedAt is always refreshed. The merged result must still satisfy
// the creation invariants.
func (s *AdService) UpdateAd(ctx context.Context, id string, upd models.AdUpdate) (*models.Ad, error) {
	if upd.Budget != nil && !models.ValidBudget(strings.ToLower(strings.TrimSpace(*upd.Budget))) {
		return nil, &ValidationError{Field: "budget", Reason: "must be one of low, medium, high"}
	}
	if upd.VideoURL != nil && !strings.HasPrefix(strings.TrimSpace(*upd.VideoURL), "http") {
		return nil, &ValidationError{Field: "videoUrl", Reason: "must be absolute"}
	}
	if upd.TargetURL != nil && !strings.HasPrefix(strings.TrimSpace(*upd.TargetURL), "http") {
		return nil, &ValidationError{Field: "targetUrl", Reason: "must be absolute"}
	}

	ad, err := s.ads.UpdateAd(ctx, id, &upd, time.Now().UTC())
	if err != nil {
		return nil, storageErr("ad update", err)
	}
	if ad == nil {
		return nil, &NotFoundError{Resource: "ad", ID: id}
	}
	return ad, nil
}

// DeleteAd removes the ad along with its membership in the owning
// performer's ad list, its raw events and its daily counters.
func (s *AdService) DeleteAd(ctx context.Context, id string) error {
	ad, err := s.ads.GetAd(ctx, id)
	if err != nil {
		return storageErr("ad lookup", err)
	}
	if ad == nil {
		return &NotFoundError{Resource: "ad", ID: id}
	}

	if _, err := s.ads.DeleteAd(ctx, id); err != nil {
		return storageErr("ad delete", err)
	}
	if err := s.performers.RemoveAd(ctx, ad.PerformerID, id); err != nil {
		return storageErr("performer ad-list update", err)
	}
	if err := s.events.DeleteByAd(ctx, id); err != nil {
		return storageErr("event cleanup", err)
	}
	if err := s.counters.DeleteByAd(ctx, id); err != nil {
		return storageErr("counter cleanup", err)
	}

	s.logger.Info("ad deleted with cascades",
		zap.String("ad_id", id),
		zap.String("performer_id", ad.PerformerID),
	)
	return nil
}

// RandomAd picks a uniformly random ad the given package has not been
// served yet, and records the pick. Once every ad has been seen the
// filter resets to the full set. Seen-set failures degrade to
// unfiltered sampling: serving a repeat beats serving nothing.
func (s *AdService) RandomAd(ctx context.Context, packageName string) (*models.Ad, error) {
	all, err := s.ads.ListAds(ctx)
	if err != nil {
		return nil, storageErr("ad list", err)
	}
	if len(all) == 0 {
		return nil, ErrNoAds
	}

	candidates := all
	if s.seen != nil {
		seen, err := s.seen.SeenAds(ctx, packageName)
		if err != nil {
			s.logger.Warn("seen-ads lookup failed, serving unfiltered",
				zap.String("package", packageName), zap.Error(err))
			s.metrics.RecordSeenSetFallback()
		} else {
			unseen := make([]*models.Ad, 0, len(all))
			for _, ad := range all {
				if !seen[ad.ID] {
					unseen = append(unseen, ad)
				}
			}
			if len(unseen) > 0 {
				candidates = unseen
			}
		}
	}

	chosen := candidates[rand.Intn(len(candidates))]

	if s.seen != nil {
		if err := s.seen.MarkSeen(ctx, packageName, chosen.ID); err != nil {
			s.logger.Warn("failed to record served ad",
				zap.String("package", packageName),
				zap.String("ad_id", chosen.ID),
				zap.Error(err))
		}
	}
	return chosen, nil
}

package ads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vidora/adserve/internal/models"
	"github.com/vidora/adserve/internal/storage"
	"go.uber.org/zap"
)

// IngestService is the write path of the stats pipeline: it records
// an engagement event once and bumps the running per-day counters.
type IngestService struct {
	ads      storage.AdRepo
	log      storage.EventLog
	counters storage.CounterStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewIngestService constructs an IngestService over the given stores.
func NewIngestService(ads storage.AdRepo, log storage.EventLog, counters storage.CounterStore, logger *zap.Logger) *IngestService {
	return &IngestService{
		ads:      ads,
		log:      log,
		counters: counters,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Ingest validates the payload, resolves the ad's owner, appends the
// event to the raw log under the server-clock UTC date and increments
// the daily counter, in that order. Validation and lookups happen
// before any mutation; a counter failure after a successful log
// append leaves the aggregate behind the log, which stays
// reconcilable because the log row carries every counted field.
//
// Note the watch-duration sum accumulates view events only: a click
// or skip contributes its type count but no watch time.
func (s *IngestService) Ingest(ctx context.Context, p EventPayload) (string, error) {
	event, err := BuildEvent(p)
	if err != nil {
		return "", err
	}

	ad, err := s.ads.GetAd(ctx, event.AdID)
	if err != nil {
		return "", storageErr("ad lookup", err)
	}
	if ad == nil {
		return "", &NotFoundError{Resource: "ad", ID: event.AdID}
	}
	if ad.PerformerID == "" {
		return "", &IntegrityError{Reason: "ad " + ad.ID + " has no performer assigned"}
	}

	now := s.now()
	event.ID = uuid.NewString()
	event.PerformerID = ad.PerformerID
	event.Date = now.Format(models.DateFormat)
	event.CreatedAt = now

	if err := s.log.Append(ctx, event); err != nil {
		return "", storageErr("event append", err)
	}

	var watchDelta float64
	if event.EventType == models.EventView {
		watchDelta = event.WatchDuration
	}

	key := models.CounterKey{
		PerformerID: event.PerformerID,
		AdID:        event.AdID,
		Date:        event.Date,
	}
	if err := s.counters.Increment(ctx, key, event.EventType, watchDelta); err != nil {
		s.logger.Error("counter increment failed after event append, aggregate lags the log",
			zap.String("event_id", event.ID),
			zap.String("ad_id", event.AdID),
			zap.String("date", event.Date),
			zap.Error(err),
		)
		return "", storageErr("counter increment", err)
	}

	s.logger.Debug("event ingested",
		zap.String("event_id", event.ID),
		zap.String("ad_id", event.AdID),
		zap.String("event_type", string(event.EventType)),
	)
	return event.ID, nil
}

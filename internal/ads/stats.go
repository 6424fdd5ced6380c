package ads

import (
	"context"
	"math"

	"github.com/vidora/adserve/internal/models"
	"github.com/vidora/adserve/internal/storage"
)

// StatsService is the read path: it sums daily counters over a match
// and derives the reported metrics.
type StatsService struct {
	ads        storage.AdRepo
	performers storage.PerformerRepo
	counters   storage.CounterStore
}

// NewStatsService constructs a StatsService over the given stores.
func NewStatsService(ads storage.AdRepo, performers storage.PerformerRepo, counters storage.CounterStore) *StatsService {
	return &StatsService{ads: ads, performers: performers, counters: counters}
}

// Aggregate sums every counter field across all rows matching the
// criteria. Zero matching rows is a normal state and yields all-zero
// totals.
func (s *StatsService) Aggregate(ctx context.Context, match storage.CounterMatch) (models.RawTotals, error) {
	rows, err := s.counters.Read(ctx, match)
	if err != nil {
		return models.RawTotals{}, storageErr("counter read", err)
	}
	var totals models.RawTotals
	for _, row := range rows {
		totals.Add(row)
	}
	return totals, nil
}

// aggregateByAd sums matching rows grouped by ad id.
func (s *StatsService) aggregateByAd(ctx context.Context, match storage.CounterMatch) (map[string]*models.RawTotals, error) {
	rows, err := s.counters.Read(ctx, match)
	if err != nil {
		return nil, storageErr("counter read", err)
	}
	byAd := make(map[string]*models.RawTotals)
	for _, row := range rows {
		t, ok := byAd[row.AdID]
		if !ok {
			t = &models.RawTotals{}
			byAd[row.AdID] = t
		}
		t.Add(row)
	}
	return byAd, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// DeriveStats computes the reported metrics from raw totals. All
// ratios collapse to zero when there are no views. With a budget
// tier, a conversionRate is included: clicks divided by the tier
// weight, times 100. That is a budget-adjusted proxy, not a measured
// conversion, and it ignores the weight entirely at zero views.
func DeriveStats(totals models.RawTotals, budget string) models.Stats {
	stats := models.Stats{
		Views:  totals.Views,
		Clicks: totals.Clicks,
		Skips:  totals.Skips,
	}
	if totals.Views > 0 {
		stats.AvgWatchDuration = round2(totals.WatchDurationSum / float64(totals.Views))
		stats.ClickThroughRate = round2(float64(totals.Clicks) / float64(totals.Views) * 100)
	}
	if budget != "" {
		var conv float64
		if totals.Views > 0 {
			conv = round2(float64(totals.Clicks) / models.BudgetWeight(budget) * 100)
		}
		stats.ConversionRate = &conv
	}
	return stats
}

// AdStatsResult is the response of a per-ad stats query.
type AdStatsResult struct {
	AdID      string           `json:"adId"`
	DateRange models.DateRange `json:"dateRange"`
	AdStats   models.Stats     `json:"adStats"`
}

// GetAdStats returns derived stats for one ad over an optional date
// range. Missing counter history is not an error: a freshly created
// or just-cleared ad reports zeroed stats. Only a missing ad fails.
func (s *StatsService) GetAdStats(ctx context.Context, adID string, dateRange models.DateRange) (*AdStatsResult, error) {
	ad, err := s.ads.GetAd(ctx, adID)
	if err != nil {
		return nil, storageErr("ad lookup", err)
	}
	if ad == nil {
		return nil, &NotFoundError{Resource: "ad", ID: adID}
	}

	totals, err := s.Aggregate(ctx, storage.CounterMatch{AdID: adID, Range: dateRange})
	if err != nil {
		return nil, err
	}

	return &AdStatsResult{
		AdID:      adID,
		DateRange: dateRange,
		AdStats:   DeriveStats(totals, ad.Details.Budget),
	}, nil
}

// PerformerStatsResult is the response of a performer stats query.
type PerformerStatsResult struct {
	PerformerID string                `json:"performerId"`
	AdsStats    []models.AdStatsEntry `json:"adsStats"`
}

// GetPerformerStats returns one entry per ad the performer owns, in
// stored ad order. Ads with no counters in range still appear,
// zeroed.
func (s *StatsService) GetPerformerStats(ctx context.Context, performerID string, dateRange models.DateRange) (*PerformerStatsResult, error) {
	performer, err := s.performers.GetPerformer(ctx, performerID)
	if err != nil {
		return nil, storageErr("performer lookup", err)
	}
	if performer == nil {
		return nil, &NotFoundError{Resource: "performer", ID: performerID}
	}

	byAd, err := s.aggregateByAd(ctx, storage.CounterMatch{PerformerID: performerID, Range: dateRange})
	if err != nil {
		return nil, err
	}

	entries := make([]models.AdStatsEntry, 0, len(performer.Ads))
	for _, adID := range performer.Ads {
		var totals models.RawTotals
		if t, ok := byAd[adID]; ok {
			totals = *t
		}
		derived := DeriveStats(totals, "")
		entries = append(entries, models.AdStatsEntry{
			AdID:             adID,
			Views:            derived.Views,
			Clicks:           derived.Clicks,
			Skips:            derived.Skips,
			Exits:            totals.Exits,
			AvgWatchDuration: derived.AvgWatchDuration,
			ClickThroughRate: derived.ClickThroughRate,
		})
	}

	return &PerformerStatsResult{PerformerID: performerID, AdsStats: entries}, nil
}

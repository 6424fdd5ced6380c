package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vidora/adserve/internal/ads"
	"github.com/vidora/adserve/internal/models"
)

func (s *Server) handleCreateAd(w http.ResponseWriter, r *http.Request) {
	var req ads.CreateAdRequest
	if err := readJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ad, err := s.adService.CreateAd(r.Context(), req)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Ad created",
		"adId":    ad.ID,
	})
}

func (s *Server) handleListAds(w http.ResponseWriter, r *http.Request) {
	list, err := s.adService.ListAds(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if list == nil {
		list = []*models.Ad{}
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetAd(w http.ResponseWriter, r *http.Request) {
	ad, err := s.adService.GetAd(r.Context(), chi.URLParam(r, "adID"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ad)
}

func (s *Server) handleUpdateAd(w http.ResponseWriter, r *http.Request) {
	var upd models.AdUpdate
	if err := readJSON(w, r, &upd); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid json")
		return
	}

	ad, err := s.adService.UpdateAd(r.Context(), chi.URLParam(r, "adID"), upd)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Ad updated",
		"adId":    ad.ID,
	})
}

func (s *Server) handleDeleteAd(w http.ResponseWriter, r *http.Request) {
	if err := s.adService.DeleteAd(r.Context(), chi.URLParam(r, "adID")); err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Ad deleted"})
}

// handleRandomAd serves an ad the calling app has not shown yet. An
// empty catalog is 204, not an error: the app just skips the slot.
func (s *Server) handleRandomAd(w http.ResponseWriter, r *http.Request) {
	packageName := r.URL.Query().Get("packageName")
	if packageName == "" {
		s.errorResponse(w, http.StatusBadRequest, "packageName is required")
		return
	}

	ad, err := s.adService.RandomAd(r.Context(), packageName)
	if err != nil {
		if errors.Is(err, ads.ErrNoAds) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.serviceError(w, err)
		return
	}
	s.metrics.RecordAdServed()
	s.writeJSON(w, http.StatusOK, ad)
}

func (s *Server) handleAdEvent(w http.ResponseWriter, r *http.Request) {
	var payload ads.EventPayload
	if err := readJSON(w, r, &payload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid json")
		return
	}

	start := time.Now()
	eventID, err := s.ingestService.Ingest(r.Context(), payload)
	if err != nil {
		s.metrics.RecordIngestFailure(failureReason(err))
		s.serviceError(w, err)
		return
	}
	s.metrics.RecordIngest(strings.ToLower(strings.TrimSpace(payload.Details.EventType)), time.Since(start))

	s.writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Event logged",
		"eventId": eventID,
	})
}

func (s *Server) handleAdStats(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "adID")
	dateRange := models.DateRange{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := s.statsService.GetAdStats(r.Context(), adID, dateRange)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.metrics.RecordStatsQuery("ad")
	s.writeJSON(w, http.StatusOK, result)
}

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vidora/adserve/internal/models"
)

type performerRequest struct {
	PerformerName  string `json:"performerName" validate:"required"`
	PerformerEmail string `json:"performerEmail" validate:"required,email"`
}

func (s *Server) handleCreatePerformer(w http.ResponseWriter, r *http.Request) {
	var req performerRequest
	if err := readJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	performer, created, err := s.performerService.CreatePerformer(r.Context(), req.PerformerName, req.PerformerEmail)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	status := http.StatusOK
	message := "Performer already exists"
	if created {
		status = http.StatusCreated
		message = "Performer created"
	}
	s.writeJSON(w, status, map[string]string{
		"message":     message,
		"performerId": performer.ID,
	})
}

type checkEmailRequest struct {
	PerformerEmail string `json:"performerEmail" validate:"required,email"`
}

func (s *Server) handleCheckPerformerEmail(w http.ResponseWriter, r *http.Request) {
	var req checkEmailRequest
	if err := readJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	performer, err := s.performerService.FindByEmail(r.Context(), req.PerformerEmail)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if performer == nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"exists": false})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"exists":      true,
		"performerId": performer.ID,
	})
}

func (s *Server) handleListPerformers(w http.ResponseWriter, r *http.Request) {
	performers, err := s.performerService.ListPerformers(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if performers == nil {
		performers = []*models.Performer{}
	}
	s.writeJSON(w, http.StatusOK, performers)
}

func (s *Server) handlePerformerStats(w http.ResponseWriter, r *http.Request) {
	performerID := chi.URLParam(r, "performerID")
	dateRange := models.DateRange{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := s.statsService.GetPerformerStats(r.Context(), performerID, dateRange)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.metrics.RecordStatsQuery("performer")
	s.writeJSON(w, http.StatusOK, result)
}

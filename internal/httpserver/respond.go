package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/vidora/adserve/internal/ads"
	"go.uber.org/zap"
)

// validate checks request payload shape before anything reaches the
// service layer. Field semantics (budget tiers, URL schemes, event
// types) stay with the services.
var validate = validator.New(validator.WithRequiredStructEnabled())

const maxBodyBytes = 1 << 20

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// serviceError maps the error taxonomy onto HTTP statuses: client
// mistakes to 400, missing entities to 404, data faults and storage
// failures to 500.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	var (
		validationErr *ads.ValidationError
		notFoundErr   *ads.NotFoundError
		integrityErr  *ads.IntegrityError
	)
	switch {
	case errors.As(err, &validationErr):
		s.errorResponse(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		s.errorResponse(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &integrityErr):
		s.logger.Error("data integrity fault", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, integrityErr.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

// failureReason labels an ingest error for metrics.
func failureReason(err error) string {
	var (
		validationErr *ads.ValidationError
		notFoundErr   *ads.NotFoundError
		integrityErr  *ads.IntegrityError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &integrityErr):
		return "integrity"
	default:
		return "storage"
	}
}

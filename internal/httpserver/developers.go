package httpserver

import (
	"net/http"
)

type developerRequest struct {
	DeveloperName  string `json:"developerName" validate:"required"`
	DeveloperEmail string `json:"developerEmail" validate:"required,email"`
}

func (s *Server) handleCreateDeveloper(w http.ResponseWriter, r *http.Request) {
	var req developerRequest
	if err := readJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	developer, created, err := s.developerService.CreateDeveloper(r.Context(), req.DeveloperName, req.DeveloperEmail)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	status := http.StatusOK
	message := "Developer already exists"
	if created {
		status = http.StatusCreated
		message = "Developer created"
	}
	s.writeJSON(w, status, map[string]string{
		"message":     message,
		"developerId": developer.ID,
	})
}

type loginRequest struct {
	DeveloperEmail string `json:"developerEmail" validate:"required,email"`
}

func (s *Server) handleDeveloperLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	developer, err := s.developerService.Login(r.Context(), req.DeveloperEmail)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"exists":      true,
		"developerId": developer.ID,
	})
}

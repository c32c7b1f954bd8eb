package server

import (
	"encoding/json"
	"net/http"
)

func (s *Service) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response body")
	}
}

func (s *Service) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": message,
		"success": false,
	})
}

// respondFieldErrors reports form validation failures as a field-to-message
// map so the client can render them inline.
func (s *Service) respondFieldErrors(w http.ResponseWriter, fieldErrors map[string]string) {
	s.respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":       http.StatusText(http.StatusUnprocessableEntity),
		"fieldErrors": fieldErrors,
		"success":     false,
	})
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	s.respondError(w, http.StatusInternalServerError, "something went wrong, please try again")
}

package adapthttp

import (
	"fmt"
	"net/http"

	"caltrack/internal/domain"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getProfile(w, r)
	case http.MethodPut:
		s.putProfile(w, r)
	case http.MethodPatch:
		s.patchProfile(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch)
	}
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profile.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if p == nil {
		writeError(w, fmt.Errorf("profile not set up: %w", domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) putProfile(w http.ResponseWriter, r *http.Request) {
	var in domain.ProfileInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.profile.Setup(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) patchProfile(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if err := parseJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.profile.UpdateSettings(r.Context(), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	created, err := s.seed.Seed(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"seeded": created})
}

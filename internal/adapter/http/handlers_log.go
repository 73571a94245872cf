package adapthttp

import (
	"net/http"

	"caltrack/internal/domain"
)

// foodEntryView decorates a food entry with its photo's serving URL.
type foodEntryView struct {
	domain.FoodEntry
	PhotoURL string `json:"photoUrl,omitempty"`
}

func (s *Server) foodViews(entries []domain.FoodEntry) []foodEntryView {
	views := make([]foodEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, foodEntryView{FoodEntry: e, PhotoURL: s.photos.URL(e.PhotoID)})
	}
	return views
}

type dayView struct {
	Log     *domain.DailyLog `json:"log"`
	Entries []foodEntryView  `json:"entries"`
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getDay(w, r)
	case http.MethodPost:
		s.createDay(w, r)
	case http.MethodPatch:
		s.patchDay(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodPatch)
	}
}

func (s *Server) getDay(w http.ResponseWriter, r *http.Request) {
	log, entries, err := s.logs.Day(r.Context(), dateQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dayView{Log: log, Entries: s.foodViews(entries)})
}

func (s *Server) createDay(w http.ResponseWriter, r *http.Request) {
	log, err := s.logs.GetOrCreateDailyLog(r.Context(), dateQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) patchDay(w http.ResponseWriter, r *http.Request) {
	var patch domain.DailyLogPatch
	if err := parseJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	log, err := s.logs.UpdateDay(r.Context(), dateQuery(r), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleRecentDays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	logs, err := s.logs.Recent(r.Context(), intQuery(r, "limit", 30))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleFood(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.addFood(w, r)
	case http.MethodDelete:
		s.removeFood(w, r)
	default:
		methodNotAllowed(w, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) addFood(w http.ResponseWriter, r *http.Request) {
	var in domain.FoodEntryInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	entry, err := s.logs.AddFoodEntry(r.Context(), dateQuery(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, foodEntryView{FoodEntry: *entry, PhotoURL: s.photos.URL(entry.PhotoID)})
}

func (s *Server) removeFood(w http.ResponseWriter, r *http.Request) {
	id, err := idQuery(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.logs.RemoveFoodEntry(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWaterAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	log, err := s.logs.AddWaterGlass(r.Context(), dateQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleWaterRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	log, err := s.logs.RemoveWaterGlass(r.Context(), dateQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// Package adapthttp exposes the application services over a JSON HTTP API
// and serves the single-page frontend from disk.
package adapthttp

import (
	"log/slog"
	"net/http"

	"caltrack/internal/adapter/pubsub"
	"caltrack/internal/app"
)

type Server struct {
	profile *app.ProfileService
	logs    *app.LogService
	weight  *app.WeightService
	photos  *app.PhotoService
	seed    *app.SeedService
	hub     *pubsub.Hub
	webDir  string
	logger  *slog.Logger
}

func New(
	profile *app.ProfileService,
	logs *app.LogService,
	weight *app.WeightService,
	photos *app.PhotoService,
	seed *app.SeedService,
	hub *pubsub.Hub,
	webDir string,
	logger *slog.Logger,
) *Server {
	return &Server{
		profile: profile,
		logs:    logs,
		weight:  weight,
		photos:  photos,
		seed:    seed,
		hub:     hub,
		webDir:  webDir,
		logger:  logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)

	mux.HandleFunc("/api/profile", s.handleProfile)
	mux.HandleFunc("/api/seed", s.handleSeed)

	mux.HandleFunc("/api/log/day", s.handleDay)
	mux.HandleFunc("/api/log/recent", s.handleRecentDays)
	mux.HandleFunc("/api/food", s.handleFood)
	mux.HandleFunc("/api/water/add", s.handleWaterAdd)
	mux.HandleFunc("/api/water/remove", s.handleWaterRemove)

	mux.HandleFunc("/api/weight", s.handleWeight)
	mux.HandleFunc("/api/weight/recent", s.handleWeightRecent)
	mux.HandleFunc("/api/weight/latest", s.handleWeightLatest)
	mux.HandleFunc("/api/trend", s.handleTrend)

	mux.HandleFunc("/api/photos/upload-url", s.handlePhotoUploadURL)
	mux.Handle("/api/photos/upload/", http.StripPrefix("/api/photos/upload/", http.HandlerFunc(s.handlePhotoUpload)))
	mux.Handle("/api/photos/", http.StripPrefix("/api/photos/", http.HandlerFunc(s.handlePhotoGet)))

	mux.HandleFunc("/api/events", s.handleEvents)

	mux.Handle("/", spaFromDisk(s.webDir))

	return withLogging(s.logger, withNoCache(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

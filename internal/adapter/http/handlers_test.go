package adapthttp_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	adapthttp "caltrack/internal/adapter/http"
	"caltrack/internal/adapter/memory"
	"caltrack/internal/adapter/pubsub"
	"caltrack/internal/app"
	"caltrack/internal/domain"
)

type memPhotoStore struct {
	mu    sync.Mutex
	blobs map[string]string
	types map[string]string
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{blobs: map[string]string{}, types: map[string]string{}}
}

func (s *memPhotoStore) Save(_ context.Context, key, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = string(data)
	s.types[key] = contentType
	return nil
}

func (s *memPhotoStore) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(data)), s.types[key], nil
}

func (s *memPhotoStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	delete(s.types, key)
	return nil
}

func (s *memPhotoStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok, nil
}

type fixture struct {
	srv *httptest.Server
	hub *pubsub.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := memory.New()
	photos := newMemPhotoStore()
	hub := pubsub.NewHub()
	t.Cleanup(hub.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	profileSvc := app.NewProfileService(db.Profiles(), hub)
	logSvc := app.NewLogService(db.DailyLogs(), db.FoodEntries(), db.Profiles(), photos, db, hub, logger)
	weightSvc := app.NewWeightService(db.Weights(), db.Profiles(), hub)
	photoSvc := app.NewPhotoService(photos)
	seedSvc := app.NewSeedService(profileSvc, weightSvc, logSvc)

	h := adapthttp.New(profileSvc, logSvc, weightSvc, photoSvc, seedSvc, hub, t.TempDir(), logger).Handler()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, hub: hub}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status = %d, want %d; body: %s", resp.StatusCode, want, body)
	}
}

func profileBody() map[string]any {
	return map[string]any{
		"name":            "Jaco",
		"age":             46,
		"sex":             "male",
		"heightCm":        178,
		"startWeightKg":   90,
		"goalWeightKg":    77,
		"tdeeKcal":        2550,
		"bmrKcal":         1820,
		"dailyCalorieMin": 1900,
		"dailyCalorieMax": 2000,
	}
}

func (f *fixture) setupProfile(t *testing.T) {
	t.Helper()
	resp := f.do(t, http.MethodPut, "/api/profile", profileBody())
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/api/health", nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestProfileLifecycle(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/profile", nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	f.setupProfile(t)

	var p domain.Profile
	resp = f.do(t, http.MethodGet, "/api/profile", nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &p)
	if p.Name != "Jaco" || p.DailyWaterGlassTarget != domain.DefaultWaterGlassTarget {
		t.Fatalf("profile = %+v", p)
	}

	resp = f.do(t, http.MethodPatch, "/api/profile", map[string]any{"dailyStepTarget": 9000})
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &p)
	if p.DailyStepTarget != 9000 {
		t.Fatalf("stepTarget = %d, want 9000", p.DailyStepTarget)
	}
}

func TestProfileValidation(t *testing.T) {
	f := newFixture(t)

	body := profileBody()
	body["age"] = 0
	resp := f.do(t, http.MethodPut, "/api/profile", body)
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	// Unknown fields are rejected.
	body = profileBody()
	body["bogus"] = true
	resp = f.do(t, http.MethodPut, "/api/profile", body)
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestProfileMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodDelete, "/api/profile", nil)
	wantStatus(t, resp, http.StatusMethodNotAllowed)
	resp.Body.Close()
}

func TestSeed(t *testing.T) {
	f := newFixture(t)

	var out map[string]bool
	resp := f.do(t, http.MethodPost, "/api/seed", nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &out)
	if !out["seeded"] {
		t.Fatal("first seed did not create data")
	}

	resp = f.do(t, http.MethodPost, "/api/seed", nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &out)
	if out["seeded"] {
		t.Fatal("second seed created data again")
	}
}

func TestFoodFlow(t *testing.T) {
	f := newFixture(t)
	f.setupProfile(t)
	const day = "/api/log/day?date=2026-02-16"

	entry := map[string]any{
		"timeLocal":    "08:29",
		"item":         "cappuccino",
		"kcalEstimate": 170,
		"category":     "drink",
	}
	var created domain.FoodEntry
	resp := f.do(t, http.MethodPost, "/api/food?date=2026-02-16", entry)
	wantStatus(t, resp, http.StatusCreated)
	decode(t, resp, &created)
	if created.ID == 0 {
		t.Fatal("entry id missing")
	}

	entry["timeLocal"] = "13:30"
	entry["item"] = "lunch"
	entry["kcalEstimate"] = 690
	entry["category"] = "meal"
	resp = f.do(t, http.MethodPost, "/api/food?date=2026-02-16", entry)
	wantStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	var view struct {
		Log     *domain.DailyLog   `json:"log"`
		Entries []domain.FoodEntry `json:"entries"`
	}
	resp = f.do(t, http.MethodGet, day, nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &view)
	if view.Log == nil || view.Log.KcalTotal != 860 {
		t.Fatalf("log = %+v, want kcalTotal 860", view.Log)
	}
	if len(view.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(view.Entries))
	}

	resp = f.do(t, http.MethodDelete, fmt.Sprintf("/api/food?id=%d", created.ID), nil)
	wantStatus(t, resp, http.StatusNoContent)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, day, nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &view)
	if view.Log.KcalTotal != 690 {
		t.Fatalf("kcalTotal = %d, want 690", view.Log.KcalTotal)
	}
}

func TestFoodValidation(t *testing.T) {
	f := newFixture(t)
	f.setupProfile(t)

	resp := f.do(t, http.MethodPost, "/api/food?date=2026-02-16", map[string]any{
		"timeLocal": "25:99",
		"item":      "x",
		"category":  "meal",
	})
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = f.do(t, http.MethodDelete, "/api/food?id=abc", nil)
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestWaterFlow(t *testing.T) {
	f := newFixture(t)
	f.setupProfile(t)
	const q = "?date=2026-02-16"

	var log domain.DailyLog
	resp := f.do(t, http.MethodPost, "/api/water/add"+q, nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &log)
	if log.WaterGlasses != 1 {
		t.Fatalf("waterGlasses = %d, want 1", log.WaterGlasses)
	}

	resp = f.do(t, http.MethodPost, "/api/water/remove"+q, nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &log)
	if log.WaterGlasses != 0 {
		t.Fatalf("waterGlasses = %d, want 0", log.WaterGlasses)
	}

	// Clamped at zero.
	resp = f.do(t, http.MethodPost, "/api/water/remove"+q, nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &log)
	if log.WaterGlasses != 0 {
		t.Fatalf("waterGlasses = %d, want 0", log.WaterGlasses)
	}
}

func TestDayPatch(t *testing.T) {
	f := newFixture(t)
	f.setupProfile(t)

	var log domain.DailyLog
	resp := f.do(t, http.MethodPatch, "/api/log/day?date=2026-02-16", map[string]any{
		"stepsCount": 2245,
		"kcalBurned": 2525,
		"notes":      "First tracked day",
	})
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &log)
	if log.StepsCount == nil || *log.StepsCount != 2245 {
		t.Fatalf("stepsCount = %v", log.StepsCount)
	}
	if log.DeficitKcal == nil || *log.DeficitKcal != 2525 {
		t.Fatalf("deficitKcal = %v, want 2525", log.DeficitKcal)
	}
}

func TestRecentDays(t *testing.T) {
	f := newFixture(t)
	f.setupProfile(t)

	for _, date := range []string{"2026-02-14", "2026-02-16", "2026-02-15"} {
		resp := f.do(t, http.MethodPost, "/api/log/day?date="+date, nil)
		wantStatus(t, resp, http.StatusOK)
		resp.Body.Close()
	}

	var logs []domain.DailyLog
	resp := f.do(t, http.MethodGet, "/api/log/recent?limit=2", nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &logs)
	if len(logs) != 2 || logs[0].Date != "2026-02-16" {
		t.Fatalf("logs = %v", logs)
	}
}

func TestWeightAndTrend(t *testing.T) {
	f := newFixture(t)
	f.setupProfile(t)

	for _, in := range []map[string]any{
		{"date": "2024-01-01", "weightKg": 90},
		{"date": "2024-01-08", "weightKg": 88},
	} {
		resp := f.do(t, http.MethodPut, "/api/weight", in)
		wantStatus(t, resp, http.StatusOK)
		resp.Body.Close()
	}

	var latest domain.WeightEntry
	resp := f.do(t, http.MethodGet, "/api/weight/latest", nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &latest)
	if latest.Date != "2024-01-08" {
		t.Fatalf("latest = %+v", latest)
	}

	var trend app.TrendSummary
	resp = f.do(t, http.MethodGet, "/api/trend", nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &trend)
	if trend.RatePerWeekKg != 2 {
		t.Fatalf("rate = %v, want 2", trend.RatePerWeekKg)
	}
	if trend.DaysToGoal == nil || *trend.DaysToGoal != 39 {
		t.Fatalf("daysToGoal = %v, want 39", trend.DaysToGoal)
	}
}

func TestWeightNoProfile(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodPut, "/api/weight", map[string]any{"date": "2024-01-01", "weightKg": 90})
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestPhotoFlow(t *testing.T) {
	f := newFixture(t)
	f.setupProfile(t)

	var upload app.Upload
	resp := f.do(t, http.MethodPost, "/api/photos/upload-url", nil)
	wantStatus(t, resp, http.StatusOK)
	decode(t, resp, &upload)
	if upload.PhotoID == "" || !strings.HasSuffix(upload.UploadURL, upload.PhotoID) {
		t.Fatalf("upload = %+v", upload)
	}

	req, err := http.NewRequest(http.MethodPut, f.srv.URL+upload.UploadURL, strings.NewReader("jpeg bytes"))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	wantStatus(t, putResp, http.StatusCreated)
	putResp.Body.Close()

	getResp := f.do(t, http.MethodGet, "/api/photos/"+upload.PhotoID, nil)
	wantStatus(t, getResp, http.StatusOK)
	defer getResp.Body.Close()
	if ct := getResp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("content type = %q", ct)
	}
	data, _ := io.ReadAll(getResp.Body)
	if string(data) != "jpeg bytes" {
		t.Fatalf("data = %q", data)
	}
}

func TestPhotoNotFound(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/api/photos/6ba7b810-9dad-41d1-80b4-00c04fd430c8", nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestFoodEntryPhotoURL(t *testing.T) {
	f := newFixture(t)
	f.setupProfile(t)

	resp := f.do(t, http.MethodPost, "/api/food?date=2026-02-16", map[string]any{
		"timeLocal":    "13:30",
		"item":         "lunch",
		"kcalEstimate": 690,
		"category":     "meal",
		"photoId":      "6ba7b810-9dad-41d1-80b4-00c04fd430c8",
	})
	wantStatus(t, resp, http.StatusCreated)
	var view struct {
		PhotoURL string `json:"photoUrl"`
	}
	decode(t, resp, &view)
	if view.PhotoURL != "/api/photos/6ba7b810-9dad-41d1-80b4-00c04fd430c8" {
		t.Fatalf("photoUrl = %q", view.PhotoURL)
	}
}

func TestEventsStream(t *testing.T) {
	f := newFixture(t)
	f.setupProfile(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.srv.URL+"/api/events", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	f.hub.Publish(domain.Event{Kind: domain.EventDayUpdated, Date: "2026-02-16"})

	scanner := bufio.NewScanner(resp.Body)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "event: daylog.updated") || !strings.Contains(joined, "data: 2026-02-16") {
		t.Fatalf("stream = %q", joined)
	}
}

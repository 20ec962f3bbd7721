package api

import (
	"context"
	"encoding/json"
	"itinerary-planner-service/internal/adapters/travel"
	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTripRepo struct {
	acts   []domain.Activity
	blocks []domain.TimeBlock
	legs   []ports.TravelLeg
}

func (r *memTripRepo) ListActivities(context.Context) ([]domain.Activity, error) {
	out := make([]domain.Activity, len(r.acts))
	for i, a := range r.acts {
		out[i] = a.Clone()
	}
	return out, nil
}

func (r *memTripRepo) ListTimeBlocks(context.Context) ([]domain.TimeBlock, error) {
	return r.blocks, nil
}

func (r *memTripRepo) ListTravelLegs(context.Context) ([]ports.TravelLeg, error) {
	return r.legs, nil
}

func newTestRouter(t *testing.T, timeout time.Duration) http.Handler {
	t.Helper()
	legal, err := domain.LegalWindows(domain.Interval{Start: 1, End: 21})
	require.NoError(t, err)

	repo := &memTripRepo{
		acts: []domain.Activity{{ID: 1, Title: "museum", Duration: 2, Location: "museum", Legal: legal}},
		blocks: []domain.TimeBlock{
			domain.NewTimeBlock(0, domain.Interval{Start: 1, End: 30}, "home", "home"),
		},
		legs: []ports.TravelLeg{{From: "home", To: "museum", DistanceMeters: 800, DurationSeconds: 240}},
	}
	provider := travel.NewStaticTravelProvider(travel.LegsFromTrip(repo.legs), true)

	return NewRouter(repo, provider, Options{
		TravelUnit:       time.Minute,
		FetchConcurrency: 2,
		Planner:          services.PlannerConfig{Timeout: timeout},
	}, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t, time.Second), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	_, err := uuid.Parse(rec.Header().Get("X-Request-Id"))
	assert.NoError(t, err, "generated request ids are UUIDs")
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	newTestRouter(t, time.Second).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}

func TestGetTrip(t *testing.T) {
	rec := do(t, newTestRouter(t, time.Second), http.MethodGet, "/trip", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.TripResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []dto.ActivityDTO{{
		ID: 1, Title: "museum", Duration: 2, Location: "museum",
		Windows: []dto.WindowDTO{{Start: 1, End: 21}},
	}}, res.Activities)
	assert.Equal(t, []dto.TimeBlockDTO{{Index: 0, Start: 1, End: 30, StartLocation: "home", EndLocation: "home"}}, res.TimeBlocks)
	assert.Len(t, res.Travel, 1)
}

func TestPlanStoredTrip(t *testing.T) {
	rec := do(t, newTestRouter(t, time.Second), http.MethodPost, "/itineraries", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.ItineraryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, []dto.EntryResponse{
		{Start: 0, End: 0, Kind: "start", Label: "At start location", Location: "home"},
		{Start: 1, End: 5, Kind: "travel", Label: "travel home -> museum", Location: "museum"},
		{Start: 5, End: 7, Kind: "activity", Label: "museum", ActivityID: 1, Location: "museum"},
		{Start: 7, End: 11, Kind: "travel", Label: "travel museum -> home", Location: "home"},
		{Start: 11, End: 11, Kind: "end", Label: "At end location", Location: "home"},
	}, res.Blocks[0].Entries)
}

func TestPlanInlineTrip(t *testing.T) {
	body := `{
		"activities": [
			{"id": 1, "title": "swim", "duration": 1, "location": "pool", "windows": [{"start": 0, "end": 10}]},
			{"id": 2, "title": "call", "duration": 1, "windows": [{"start": 0, "end": 10}]}
		],
		"time_blocks": [
			{"index": 3, "start": 0, "end": 10, "start_location": "pool", "end_location": "pool"},
			{"index": 4, "start": 20, "end": 30}
		]
	}`
	rec := do(t, newTestRouter(t, time.Second), http.MethodPost, "/itineraries", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.ItineraryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Blocks, 2)
	assert.Equal(t, 3, res.Blocks[0].Index)
	assert.Equal(t, 4, res.Blocks[1].Index)

	placed := 0
	for _, b := range res.Blocks {
		for _, e := range b.Entries {
			if e.Kind == "activity" {
				placed++
			}
		}
	}
	assert.Equal(t, 2, placed)
}

func TestPlanInlineTravelLegs(t *testing.T) {
	body := `{
		"activities": [{"id": 1, "title": "tea", "duration": 1, "location": "garden", "windows": [{"start": 0, "end": 20}]}],
		"time_blocks": [{"index": 0, "start": 0, "end": 20, "start_location": "inn", "end_location": "inn"}],
		"travel": [{"from": "inn", "to": "garden", "duration_seconds": 120}]
	}`
	rec := do(t, newTestRouter(t, time.Second), http.MethodPost, "/itineraries", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.ItineraryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	last := res.Blocks[0].Entries[len(res.Blocks[0].Entries)-1]
	assert.Equal(t, dto.EntryResponse{Start: 5, End: 5, Kind: "end", Label: "At end location", Location: "inn"}, last)
}

func TestPlanRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"unknown field", `{"hub": "x"}`},
		{"two objects", `{} {}`},
		{"activities without blocks", `{"activities": [{"id": 1, "title": "a", "windows": [{"start": 0, "end": 1}]}]}`},
		{"negative duration", `{"activities": [{"id": 1, "title": "a", "duration": -1, "windows": [{"start": 0, "end": 1}]}],
			"time_blocks": [{"index": 0, "start": 0, "end": 5}]}`},
		{"reversed window", `{"activities": [{"id": 1, "title": "a", "windows": [{"start": 3, "end": 1}]}],
			"time_blocks": [{"index": 0, "start": 0, "end": 5}]}`},
		{"missing windows", `{"activities": [{"id": 1, "title": "a"}], "time_blocks": [{"index": 0, "start": 0, "end": 5}]}`},
		{"reversed block", `{"time_blocks": [{"index": 0, "start": 5, "end": 0}]}`},
		{"duplicate block index", `{"time_blocks": [{"index": 0, "start": 0, "end": 5}, {"index": 0, "start": 6, "end": 9}]}`},
		{"travel alone", `{"travel": [{"from": "a", "to": "b", "duration_seconds": 60}]}`},
		{"negative travel", `{"time_blocks": [{"index": 0, "start": 0, "end": 5}],
			"travel": [{"from": "a", "to": "b", "duration_seconds": -60}]}`},
	}
	h := newTestRouter(t, time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/itineraries", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestPlanStatusCodes(t *testing.T) {
	t.Run("no itinerary", func(t *testing.T) {
		body := `{
			"activities": [{"id": 1, "title": "museum", "duration": 2, "location": "museum", "windows": [{"start": 1, "end": 21}]}],
			"time_blocks": [{"index": 0, "start": 1, "end": 8, "start_location": "home", "end_location": "home"}]
		}`
		rec := do(t, newTestRouter(t, time.Second), http.MethodPost, "/itineraries", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	})

	t.Run("infeasible activity", func(t *testing.T) {
		body := `{
			"activities": [{"id": 9, "title": "opera", "duration": 3, "windows": [{"start": 0, "end": 2}]}],
			"time_blocks": [{"index": 0, "start": 0, "end": 10}]
		}`
		rec := do(t, newTestRouter(t, time.Second), http.MethodPost, "/itineraries", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "opera")
	})

	t.Run("budget exhausted", func(t *testing.T) {
		rec := do(t, newTestRouter(t, time.Nanosecond), http.MethodPost, "/itineraries", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	})
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestRouter(t, time.Second), http.MethodPost, "/trip", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, time.Second)
	do(t, h, http.MethodGet, "/health", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `itinerary_http_requests_total{route="/health",status="200"}`)
}

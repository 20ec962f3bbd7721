package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"itinerary-planner-service/internal/adapters/travel"
	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type ItineraryHandler struct {
	Repo     ports.TripRepository
	Provider ports.TravelProvider

	TravelUnit       time.Duration
	FetchConcurrency int
	Planner          services.PlannerConfig
}

// Plan distributes a trip's activities over its time blocks and returns the
// resulting itinerary. An empty body plans the stored trip; a body with
// activities and time blocks plans those instead, using its travel legs
// (usable in both directions) when it has any.
func (h *ItineraryHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanItineraryRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	svcReq := services.PlanItineraryRequest{
		TravelUnit:       h.TravelUnit,
		FetchConcurrency: h.FetchConcurrency,
		Planner:          h.Planner,
	}
	provider := h.Provider

	if len(req.Activities) > 0 || len(req.TimeBlocks) > 0 {
		if len(req.TimeBlocks) == 0 {
			writeError(w, r, http.StatusBadRequest, "time_blocks are required with inline activities")
			return
		}

		var err error
		if svcReq.Activities, err = activitiesFromDTO(req.Activities); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if svcReq.Blocks, err = blocksFromDTO(req.TimeBlocks); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if len(req.Travel) > 0 {
			legs, err := legsFromDTO(req.Travel)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			provider = travel.NewStaticTravelProvider(travel.LegsFromTrip(legs), true)
		}
	} else if len(req.Travel) > 0 {
		writeError(w, r, http.StatusBadRequest, "travel needs inline activities and time_blocks")
		return
	}

	it, err := services.PlanItinerary(r.Context(), svcReq, h.Repo, provider)
	if err != nil {
		status, msg := planErrorStatus(err)
		ev := zerolog.Ctx(r.Context()).Warn()
		if status == http.StatusInternalServerError {
			ev = zerolog.Ctx(r.Context()).Error()
		}
		ev.Err(err).Int("status", status).Msg("plan itinerary failed")
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, itineraryToDTO(it))
}

func planErrorStatus(err error) (int, string) {
	var actErr *services.ActivityError
	switch {
	case errors.As(err, &actErr):
		return http.StatusUnprocessableEntity, actErr.Error()
	case errors.Is(err, services.ErrNoItinerary):
		return http.StatusUnprocessableEntity, services.ErrNoItinerary.Error()
	case errors.Is(err, services.ErrSearchBudgetExhausted):
		return http.StatusServiceUnavailable, services.ErrSearchBudgetExhausted.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

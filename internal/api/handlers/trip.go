package handlers

import (
	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/ports"
	"net/http"

	"github.com/rs/zerolog"
)

// TripHandler exposes the stored trip read-only.
type TripHandler struct {
	Repo ports.TripRepository
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	acts, err := h.Repo.ListActivities(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list activities failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	blocks, err := h.Repo.ListTimeBlocks(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list time blocks failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	legs, err := h.Repo.ListTravelLegs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list travel legs failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.TripResponse{
		Activities: make([]dto.ActivityDTO, 0, len(acts)),
		TimeBlocks: make([]dto.TimeBlockDTO, 0, len(blocks)),
		Travel:     make([]dto.TravelLegDTO, 0, len(legs)),
	}
	for _, a := range acts {
		res.Activities = append(res.Activities, activityToDTO(a))
	}
	for _, b := range blocks {
		res.TimeBlocks = append(res.TimeBlocks, blockToDTO(b))
	}
	for _, l := range legs {
		res.Travel = append(res.Travel, dto.TravelLegDTO{
			From:            l.From,
			To:              l.To,
			DistanceMeters:  l.DistanceMeters,
			DurationSeconds: l.DurationSeconds,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

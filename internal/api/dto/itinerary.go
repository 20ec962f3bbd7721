package dto

import "time"

// PlanItineraryRequest inlines a trip. An empty body plans the stored trip.
type PlanItineraryRequest struct {
	Activities []ActivityDTO  `json:"activities"`
	TimeBlocks []TimeBlockDTO `json:"time_blocks"`
	Travel     []TravelLegDTO `json:"travel"`
}

type EntryResponse struct {
	Start      int64  `json:"start"`
	End        int64  `json:"end"`
	Kind       string `json:"kind"`
	Label      string `json:"label"`
	ActivityID int    `json:"activity_id,omitempty"`
	Location   string `json:"location,omitempty"`
}

type BlockResponse struct {
	Index         int             `json:"index"`
	Start         int64           `json:"start"`
	End           int64           `json:"end"`
	StartLocation string          `json:"start_location,omitempty"`
	EndLocation   string          `json:"end_location,omitempty"`
	Entries       []EntryResponse `json:"entries"`
}

type ItineraryResponse struct {
	ID        string          `json:"id"`
	PlannedAt time.Time       `json:"planned_at"`
	Blocks    []BlockResponse `json:"blocks"`
}

package dto

type WindowDTO struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type ActivityDTO struct {
	ID       int         `json:"id"`
	Title    string      `json:"title"`
	Duration int64       `json:"duration"`
	Location string      `json:"location,omitempty"`
	Windows  []WindowDTO `json:"windows"`
}

type TimeBlockDTO struct {
	Index         int    `json:"index"`
	Start         int64  `json:"start"`
	End           int64  `json:"end"`
	StartLocation string `json:"start_location,omitempty"`
	EndLocation   string `json:"end_location,omitempty"`
}

type TravelLegDTO struct {
	From            string `json:"from"`
	To              string `json:"to"`
	DistanceMeters  int    `json:"distance_meters,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
}

type TripResponse struct {
	Activities []ActivityDTO  `json:"activities"`
	TimeBlocks []TimeBlockDTO `json:"time_blocks"`
	Travel     []TravelLegDTO `json:"travel"`
}

package handlers

import (
	"fmt"
	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"strings"
)

func activitiesFromDTO(in []dto.ActivityDTO) ([]domain.Activity, error) {
	out := make([]domain.Activity, 0, len(in))
	ids := map[int]struct{}{}
	for i, a := range in {
		if strings.TrimSpace(a.Title) == "" {
			return nil, fmt.Errorf("activities[%d]: title is required", i)
		}
		if _, dup := ids[a.ID]; dup {
			return nil, fmt.Errorf("activities[%d]: duplicate id %d", i, a.ID)
		}
		ids[a.ID] = struct{}{}
		if a.Duration < 0 {
			return nil, fmt.Errorf("activities[%d]: duration must be >= 0", i)
		}
		if len(a.Windows) == 0 {
			return nil, fmt.Errorf("activities[%d]: at least one window is required", i)
		}

		windows := make([]domain.Interval, 0, len(a.Windows))
		for j, w := range a.Windows {
			iv, err := domain.NewInterval(domain.Time(w.Start), domain.Time(w.End))
			if err != nil {
				return nil, fmt.Errorf("activities[%d].windows[%d]: %w", i, j, err)
			}
			windows = append(windows, iv)
		}
		legal, err := domain.LegalWindows(windows...)
		if err != nil {
			return nil, fmt.Errorf("activities[%d]: %w", i, err)
		}

		out = append(out, domain.Activity{
			ID:       a.ID,
			Title:    strings.TrimSpace(a.Title),
			Duration: domain.Duration(a.Duration),
			Location: domain.Location(strings.TrimSpace(a.Location)),
			Legal:    legal,
		})
	}
	return out, nil
}

func blocksFromDTO(in []dto.TimeBlockDTO) ([]domain.TimeBlock, error) {
	out := make([]domain.TimeBlock, 0, len(in))
	indexes := map[int]struct{}{}
	for i, b := range in {
		if _, dup := indexes[b.Index]; dup {
			return nil, fmt.Errorf("time_blocks[%d]: duplicate index %d", i, b.Index)
		}
		indexes[b.Index] = struct{}{}

		iv, err := domain.NewInterval(domain.Time(b.Start), domain.Time(b.End))
		if err != nil {
			return nil, fmt.Errorf("time_blocks[%d]: %w", i, err)
		}
		out = append(out, domain.NewTimeBlock(b.Index, iv,
			domain.Location(strings.TrimSpace(b.StartLocation)),
			domain.Location(strings.TrimSpace(b.EndLocation)),
		))
	}
	return out, nil
}

func legsFromDTO(in []dto.TravelLegDTO) ([]ports.TravelLeg, error) {
	out := make([]ports.TravelLeg, 0, len(in))
	for i, l := range in {
		from, to := strings.TrimSpace(l.From), strings.TrimSpace(l.To)
		if from == "" || to == "" {
			return nil, fmt.Errorf("travel[%d]: from and to are required", i)
		}
		if l.DurationSeconds < 0 {
			return nil, fmt.Errorf("travel[%d]: duration_seconds must be >= 0", i)
		}
		out = append(out, ports.TravelLeg{From: from, To: to, DistanceMeters: l.DistanceMeters, DurationSeconds: l.DurationSeconds})
	}
	return out, nil
}

func activityToDTO(a domain.Activity) dto.ActivityDTO {
	windows := a.Legal.Available()
	out := dto.ActivityDTO{
		ID:       a.ID,
		Title:    a.Title,
		Duration: int64(a.Duration),
		Location: string(a.Location),
		Windows:  make([]dto.WindowDTO, 0, len(windows)),
	}
	for _, w := range windows {
		out.Windows = append(out.Windows, dto.WindowDTO{Start: int64(w.Start), End: int64(w.End)})
	}
	return out
}

func blockToDTO(b domain.TimeBlock) dto.TimeBlockDTO {
	return dto.TimeBlockDTO{
		Index:         b.Index,
		Start:         int64(b.Interval.Start),
		End:           int64(b.Interval.End),
		StartLocation: string(b.StartLocation),
		EndLocation:   string(b.EndLocation),
	}
}

func entryToDTO(e domain.Entry) dto.EntryResponse {
	out := dto.EntryResponse{
		Start: int64(e.Start),
		End:   int64(e.End()),
		Label: e.Item.Label(),
	}
	switch it := e.Item.(type) {
	case domain.Activity:
		out.Kind = "activity"
		out.ActivityID = it.ID
		out.Location = string(it.Location)
	case domain.Transit:
		out.Kind = "travel"
		out.Location = string(it.To)
	case domain.Marker:
		out.Kind = "start"
		if it.Kind == domain.MarkerEnd {
			out.Kind = "end"
		}
		out.Location = string(it.Location)
	default:
		out.Kind = "other"
	}
	return out
}

func itineraryToDTO(it domain.Itinerary) dto.ItineraryResponse {
	res := dto.ItineraryResponse{
		ID:        it.ID,
		PlannedAt: it.PlannedAt,
		Blocks:    make([]dto.BlockResponse, 0, len(it.Blocks)),
	}
	for _, b := range it.Blocks {
		entries := b.Timeline.Entries()
		block := dto.BlockResponse{
			Index:         b.Index,
			Start:         int64(b.Interval.Start),
			End:           int64(b.Interval.End),
			StartLocation: string(b.StartLocation),
			EndLocation:   string(b.EndLocation),
			Entries:       make([]dto.EntryResponse, 0, len(entries)),
		}
		for _, e := range entries {
			block.Entries = append(block.Entries, entryToDTO(e))
		}
		res.Blocks = append(res.Blocks, block)
	}
	return res
}

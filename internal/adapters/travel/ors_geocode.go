package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"net/http"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocodeMany resolves locations one by one using /geocode/search. Keys of
// the result are the locations as given.
func (o *ORSTravelProvider) geocodeMany(
	ctx context.Context,
	locations []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	out := make(map[string]domain.Coordinates, len(locations))
	for _, l := range locations {
		if _, ok := out[l]; ok {
			continue
		}

		c, err := o.geocode(ctx, l)
		if err != nil {
			return nil, err
		}
		out[l] = c
	}
	return out, nil
}

func (o *ORSTravelProvider) geocode(ctx context.Context, location string) (domain.Coordinates, error) {
	endpoint := o.client.baseURL + "/geocode/search"

	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", normalize(location))
		q.Set("size", "1")
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", location, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", location)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", location)
	}
	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}

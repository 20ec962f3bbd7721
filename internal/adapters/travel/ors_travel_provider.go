package travel

import (
	"context"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/metrics"
	"itinerary-planner-service/internal/platform/obs"
	"itinerary-planner-service/internal/ports"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ORSTravelProvider implements TravelMatrixProvider using OpenRouteService.
//
// It coordinates:
//   - Location normalization
//   - Literal "lon,lat" locations, which skip geocoding
//   - Geocode and travel caching behind ports
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use as long as its caches are.
type ORSTravelProvider struct {
	client       *orsClient
	profile      string
	country      string
	travelCache  ports.TravelCache
	geocodeCache ports.GeocodeCache
}

type ORSOption func(*ORSTravelProvider)

func WithBaseURL(u string) ORSOption {
	return func(o *ORSTravelProvider) { o.client.baseURL = strings.TrimRight(u, "/") }
}

// WithProfile selects the ORS routing profile, e.g. "foot-walking".
func WithProfile(p string) ORSOption {
	return func(o *ORSTravelProvider) { o.profile = p }
}

// WithCountry restricts geocoding to one ISO country code. Empty searches worldwide.
func WithCountry(c string) ORSOption {
	return func(o *ORSTravelProvider) { o.country = c }
}

func WithRetryBackoff(d time.Duration) ORSOption {
	return func(o *ORSTravelProvider) { o.client.backoff = d }
}

func WithHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSTravelProvider) { o.client.session = c }
}

// NewORSTravelProvider builds a provider. Either cache may be nil.
func NewORSTravelProvider(
	apiKey string,
	travelCache ports.TravelCache,
	geocodeCache ports.GeocodeCache,
	opts ...ORSOption,
) (*ORSTravelProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSTravelProvider{
		client: &orsClient{
			session:     &http.Client{Timeout: 10 * time.Second},
			apiKey:      apiKey,
			baseURL:     "https://api.openrouteservice.org",
			maxAttempts: 4,
			backoff:     200 * time.Millisecond,
		},
		profile:      "driving-car",
		travelCache:  travelCache,
		geocodeCache: geocodeCache,
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Delegate to batched path to reuse caching and matrix logic.
func (o *ORSTravelProvider) GetTravel(ctx context.Context, origin, destination string) (ports.TravelResult, error) {
	normOrigin, normDestination := normalize(origin), normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.TravelResult{}, errors.New("get ORS travel: origin and destination must be non-empty")
	}
	if normOrigin == normDestination {
		return ports.TravelResult{}, nil
	}

	results, err := o.GetTravels(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.TravelResult{}, fmt.Errorf("get travels %q -> %q: %w", normOrigin, normDestination, err)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.TravelResult{}, fmt.Errorf("%q -> %q: %w", origin, destination, ports.ErrNoRoute)
	}
	return result, nil
}

// GetTravels computes travel from a single origin to many destinations.
// Destinations equal to the origin, and those ORS cannot route to, are left
// out of the result.
func (o *ORSTravelProvider) GetTravels(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.TravelResult, err error) {
	defer obs.Time(ctx, "ors.GetTravels")(&err)

	normOrigin := normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	seen := make(map[string]struct{}, len(destinations))
	destList := make([]string, 0, len(destinations))
	for _, d := range destinations {
		nd := normalize(d)
		if nd == "" || nd == normOrigin {
			continue
		}
		if _, ok := seen[nd]; ok {
			continue
		}
		seen[nd] = struct{}{}
		destList = append(destList, nd)
	}
	if len(destList) == 0 {
		return map[string]ports.TravelResult{}, nil
	}

	hits := map[string]ports.TravelResult{}
	// Check the travel cache before issuing external API calls.
	if o.travelCache != nil {
		hits, err = o.travelCache.GetMany(ctx, normOrigin, destList)
		if err != nil {
			return nil, fmt.Errorf("ORS get travel cache: %w", err)
		}
	}

	misses := make([]string, 0, len(destList))
	for _, d := range destList {
		if _, ok := hits[d]; !ok {
			misses = append(misses, d)
		}
	}
	metrics.TravelLookups.WithLabelValues("cache").Add(float64(len(destList) - len(misses)))
	if len(misses) == 0 {
		return hits, nil
	}
	metrics.TravelLookups.WithLabelValues("upstream").Add(float64(len(misses)))

	coords, err := o.resolve(ctx, append([]string{normOrigin}, misses...))
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	destCoords := make([]domain.Coordinates, 0, len(misses))
	for _, d := range misses {
		destCoords = append(destCoords, coords[d])
	}

	// Fetch a single origin->many matrix row for all cache misses.
	fetched, err := o.fetchMatrixRow(ctx, coords[normOrigin], misses, destCoords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	if o.travelCache != nil {
		if err := o.travelCache.PutMany(ctx, normOrigin, fetched); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("origin", normOrigin).Msg("travel cache write failed")
		}
	}

	out := make(map[string]ports.TravelResult, len(hits)+len(fetched))
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fetched {
		out[k] = v
	}
	return out, nil
}

// resolve returns coordinates for every location. Literal "lon,lat"
// locations are parsed, the rest come from the geocode cache or ORS.
func (o *ORSTravelProvider) resolve(ctx context.Context, locations []string) (map[string]domain.Coordinates, error) {
	coords := make(map[string]domain.Coordinates, len(locations))
	var lookup []string
	for _, l := range locations {
		if c, ok := domain.ParseCoordinates(domain.Location(l)); ok {
			coords[l] = c
			continue
		}
		lookup = append(lookup, l)
	}
	if len(lookup) == 0 {
		return coords, nil
	}

	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, lookup)
		if err != nil {
			return nil, fmt.Errorf("ORS get geocode cache: %w", err)
		}
		for k, v := range hits {
			coords[k] = v
		}
	}

	var misses []string
	for _, l := range lookup {
		if _, ok := coords[l]; !ok {
			misses = append(misses, l)
		}
	}
	if len(misses) == 0 {
		return coords, nil
	}

	fresh, err := o.geocodeMany(ctx, misses)
	if err != nil {
		return nil, err
	}
	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	for _, l := range misses {
		c, ok := fresh[l]
		if !ok {
			return nil, fmt.Errorf("missing coordinate for %q", l)
		}
		coords[l] = c
	}
	return coords, nil
}

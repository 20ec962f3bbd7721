package travel

import (
	"context"
	"itinerary-planner-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTravelProvider(t *testing.T) {
	p := NewStaticTravelProvider([]Leg{
		{From: "hotel", To: "museum", Meters: 800, Seconds: 240},
		{From: "museum", To: "hotel", Meters: 900, Seconds: 300},
		{From: "hotel", To: "park", Meters: 400, Seconds: 180},
	}, true)
	ctx := context.Background()

	got, err := p.GetTravel(ctx, "museum", "hotel")
	require.NoError(t, err)
	assert.Equal(t, 300, got.DurationSeconds, "explicit reverse leg wins")

	got, err = p.GetTravel(ctx, "park", "hotel")
	require.NoError(t, err)
	assert.Equal(t, 180, got.DurationSeconds)

	_, err = p.GetTravel(ctx, "park", "museum")
	require.ErrorIs(t, err, ports.ErrNoRoute)

	row, err := p.GetTravels(ctx, "hotel", []string{"museum", "park", "hotel", "beach"})
	require.NoError(t, err)
	assert.Equal(t, map[string]ports.TravelResult{
		"museum": {DistanceMeters: 800, DurationSeconds: 240},
		"park":   {DistanceMeters: 400, DurationSeconds: 180},
	}, row)
}

func TestStaticTravelProvider_Directed(t *testing.T) {
	p := NewStaticTravelProvider(LegsFromTrip([]ports.TravelLeg{
		{From: "a", To: "b", DurationSeconds: 60},
	}), false)

	_, err := p.GetTravel(context.Background(), "b", "a")
	require.ErrorIs(t, err, ports.ErrNoRoute)
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/platform/obs"
	"itinerary-planner-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DefaultTravelTTL = 24 * time.Hour

	// KeyTravel is the hash of cached travel results for one origin,
	// keyed by destination.
	KeyTravel = "itinerary:travel:" // + origin
)

type redisTravel struct {
	Meters  int `json:"m"`
	Seconds int `json:"s"`
}

// RedisTravelCache shares travel results between instances. Each origin is
// one hash whose TTL restarts on every write.
type RedisTravelCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTravelCache(client *redis.Client, ttl time.Duration) *RedisTravelCache {
	if ttl <= 0 {
		ttl = DefaultTravelTTL
	}
	return &RedisTravelCache{client: client, ttl: ttl}
}

func (c *RedisTravelCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.TravelResult, err error) {
	defer obs.Time(ctx, "travel.redis.GetMany")(&err)

	if c.client == nil {
		return nil, errors.New("redis travel cache: client is nil")
	}
	if origin == "" {
		return nil, errors.New("get redis travel cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.TravelResult{}, nil
	}

	vals, err := c.client.HMGet(ctx, KeyTravel+origin, uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis travel cache: hmget: %w", err)
	}

	out := make(map[string]ports.TravelResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var t redisTravel
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			// a corrupt field is a miss; the next write replaces it
			zerolog.Ctx(ctx).Debug().Err(err).Str("origin", origin).Str("destination", uniq[i]).
				Msg("failed to unmarshal cached travel")
			continue
		}
		out[uniq[i]] = ports.TravelResult{DistanceMeters: t.Meters, DurationSeconds: t.Seconds}
	}
	return out, nil
}

func (c *RedisTravelCache) PutMany(ctx context.Context, origin string, results map[string]ports.TravelResult) error {
	if c.client == nil {
		return errors.New("redis travel cache: client is nil")
	}
	if origin == "" {
		return errors.New("insert redis travel cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	fields := make(map[string]any, len(results))
	for dest, r := range results {
		if dest == "" {
			return errors.New("insert redis travel cache: empty destination key")
		}

		b, err := json.Marshal(redisTravel{Meters: r.DistanceMeters, Seconds: r.DurationSeconds})
		if err != nil {
			return fmt.Errorf("marshal cached travel: %w", err)
		}
		fields[dest] = string(b)
	}

	key := KeyTravel + origin
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert redis travel cache: %w", err)
	}
	return nil
}

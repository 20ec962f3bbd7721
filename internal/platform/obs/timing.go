package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs how long an operation took once the returned func runs, with
// the operation's error if errp points at one:
//
//	defer obs.Time(ctx, "planner.schedule_block")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		logger := zerolog.Ctx(ctx)
		ev := logger.Info()
		if errp != nil && *errp != nil {
			ev = logger.Warn().Err(*errp)
		}
		ev.Str("req_id", RequestID(ctx)).
			Str("op", name).
			Int64("dur_ms", time.Since(start).Milliseconds()).
			Msg("op finished")
	}
}

package obs

import (
	"context"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// RequestID returns the request id stored in ctx, or "" if none.
func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// Time starts timing the operation name. The returned func logs the duration
// and records it in OperationDuration; pass the address of the caller's
// named error result so failures are reported too.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	logger := FromContext(ctx)
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			OperationDuration.WithLabelValues(name, "error").Observe(dur.Seconds())
			logger.Warn("operation failed", "req_id", reqID, "op", name, "dur", dur, "err", *errp)
			return
		}
		OperationDuration.WithLabelValues(name, "ok").Observe(dur.Seconds())
		logger.Debug("operation", "req_id", reqID, "op", name, "dur", dur)
	}
}

package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "req_id"
	RunIDKey     ctxKey = "run_id"
)

// WithRequestID tags a context with an HTTP request identifier so
// timing lines from one request can be correlated.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, reqID)
}

// WithRunID tags a context with a reconciliation run identifier so
// timing lines from one run can be correlated.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// Time logs an operation's duration (and error, if any) when the
// returned func is deferred. Correlation ids present on the context
// are included in the line.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	id, _ := ctx.Value(RequestIDKey).(string)
	if id == "" {
		id, _ = ctx.Value(RunIDKey).(string)
	}

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("id=%s op=%s dur=%dms err=%v", id, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("id=%s op=%s dur=%dms", id, name, dur.Milliseconds())
	}
}

package applog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

// New builds the process logger. Development mode switches to zap's
// human-readable console encoder.
func New(development bool) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, CtxKeyLogger, l)
}

// From returns the request logger, or a no-op logger outside a request.
func From(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(CtxKeyLogger).(*zap.SugaredLogger); ok {
		return l
	}

	return zap.NewNop().Sugar()
}

// Middleware puts l on every request context, tagged with the chi request id
// when one is present.
func Middleware(l *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := l
			if id := middleware.GetReqID(r.Context()); id != "" {
				logger = l.With("request_id", id)
			}
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/hisab/internal/metrics"
)

// MetricsInterceptor records a request count and latency per procedure.
func MetricsInterceptor(m *metrics.RPC) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.Requests.WithLabelValues(procedure, code).Inc()
			m.Duration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

package walletapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"walletprobe.com/internal/infrastructure/logger"
	"walletprobe.com/internal/infrastructure/metrics"
)

// RequestIDHeader correlates probe requests with wallet service logs
const RequestIDHeader = "X-Request-ID"

type operationKey struct{}

func withOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey{}, operation)
}

func operationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok {
		return op
	}
	return "unknown"
}

// instrumentedTransport adds a request ID to each request, then logs and
// times it
type instrumentedTransport struct {
	next   http.RoundTripper
	logger logger.Logger
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
		req = req.Clone(ctx)
		req.Header.Set(RequestIDHeader, requestID)
	}
	requestLogger := t.logger.WithRequestID(requestID)
	operation := operationFrom(ctx)

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		metrics.RequestErrors.WithLabelValues(operation).Inc()
		requestLogger.LogDebug(ctx, "Request failed",
			"operation", operation,
			"method", req.Method,
			"path", req.URL.Path,
			"error", err.Error(),
			"duration_ms", duration.Milliseconds())
		return nil, err
	}

	metrics.RequestDuration.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Observe(duration.Seconds())
	requestLogger.LogDebug(ctx, "Request completed",
		"operation", operation,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds())

	return resp, nil
}

package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// payloadContextKey carries the marshalled request body to the log transport.
type payloadContextKey struct{}

// Request bodies above this size are logged by length only.
const maxLoggedPayload = 4 << 10

type logTransport struct {
	transport     http.RoundTripper
	secretHeaders []string
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Any("headers", redactHeaders(req.Header, t.secretHeaders)),
	}

	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		if len(payload) > maxLoggedPayload {
			fields = append(fields, zap.Int("payload_size", len(payload)))
		} else {
			fields = append(fields, zap.ByteString("payload", payload))
		}
	}

	ctxzap.Debug(ctx, "Upstream request", fields...)

	start := time.Now()
	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		ctxzap.Debug(ctx, "Upstream request failed",
			zap.String("url", req.URL.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	ctxzap.Debug(ctx, "Upstream response",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// WithRequestLogging logs every outbound call and its outcome at debug level
// with credentials redacted. The logger sits below every other transport so
// it sees the headers they add.
func WithRequestLogging() HttpOpts {
	return func(c *httpConfig) {
		c.logRequests = true
	}
}

var defaultSecretHeaders = []string{authorizationHeader, "X-Api-Key", "Api-Key"}

func redactHeaders(h http.Header, extra []string) http.Header {
	var clone http.Header
	for _, key := range slices.Concat(defaultSecretHeaders, extra) {
		if h.Get(key) == "" {
			continue
		}
		if clone == nil {
			clone = h.Clone()
		}
		clone.Set(key, "[REDACTED]")
	}

	if clone == nil {
		return h
	}
	return clone
}

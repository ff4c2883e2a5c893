package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/qdm12/ipappend/internal/gateway"
)

const (
	apiKeyHeader         = "x-api-key"
	requestIDHeader      = "X-Request-Id"
	ignoredIPCountHeader = "X-Ignored-IP-Count"
)

// authenticate only lets requests through if their x-api-key header
// is exactly the gateway API key. It never lets requests through
// if the gateway API key is not configured.
func (h *handlers) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.gatewayAPIKey == "" {
			h.httpError(w, r, fmt.Errorf("%w: gateway API key is not set", gateway.ErrConfiguration))
			return
		}

		apiKey := r.Header.Get(apiKeyHeader)
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(h.gatewayAPIKey)) != 1 {
			h.httpError(w, r, fmt.Errorf("%w: missing or invalid API key", gateway.ErrUnauthorized))
			return
		}

		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getRequestID(ctx context.Context) (id string) {
	id, _ = ctx.Value(requestIDKey{}).(string)
	return id
}

func (h *handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := h.timeNow()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(wrapped, r)
		duration := h.timeNow().Sub(start).Round(time.Millisecond)
		h.logger.Info(fmt.Sprintf("%s %s %d %s from %s in %s",
			r.Method, r.URL.Path, wrapped.Status(), getRequestID(r.Context()),
			r.RemoteAddr, duration))
	})
}

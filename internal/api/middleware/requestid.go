package middleware

import (
	"context"
	"net/http"

	"github.com/Harshitk-cp/sump-console/internal/apiclient"
	"github.com/google/uuid"
)

// RequestIDHeader is the header name for request ID.
const RequestIDHeader = apiclient.RequestIDHeader

// RequestIDFromContext returns the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	return apiclient.RequestIDFromContext(ctx)
}

// RequestID middleware extracts or generates a request ID for each request.
// The id is echoed in the response and forwarded on every remote API call
// made while serving the request.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := apiclient.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

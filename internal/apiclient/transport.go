package apiclient

import (
	"context"
	"net/http"
)

// RequestIDHeader is forwarded to the remote API so its logs line up with ours.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// ContextWithRequestID tags ctx so outgoing calls carry the inbound request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type transport struct {
	base      http.RoundTripper
	userAgent string
}

func newTransport(base http.RoundTripper, userAgent string) *transport {
	return &transport{base: base, userAgent: userAgent}
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	if id := RequestIDFromContext(req.Context()); id != "" && req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, id)
	}
	return t.base.RoundTrip(req)
}

// Package outbound is the shared HTTP plumbing for third-party SDKs:
// client-side rate limiting and per-endpoint metrics.
package outbound

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"hotel_booking/internal/adapters/observability"
)

// Transport rate limits requests and records status and latency for each one.
// Retries belong to the SDK above it; every attempt passes through here.
type Transport struct {
	Service  string
	Base     http.RoundTripper
	Limiter  *rate.Limiter
	Endpoint func(*http.Request) string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	endpoint := req.Method
	if t.Endpoint != nil {
		endpoint = t.Endpoint(req)
	}
	req.Header.Set("User-Agent", "hotel-booking/1.0 "+req.Header.Get("User-Agent"))

	start := time.Now()
	resp, err := base.RoundTrip(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	observability.ObserveExternal(t.Service, endpoint, status, time.Since(start))
	return resp, err
}

// NewHTTPClient returns a client for service limited to rps requests per second.
func NewHTTPClient(service string, rps int, endpoint func(*http.Request) string) *http.Client {
	if rps <= 0 {
		rps = 5
	}
	return &http.Client{
		Timeout: 20 * time.Second,
		Transport: &Transport{
			Service:  service,
			Base:     http.DefaultTransport,
			Limiter:  rate.NewLimiter(rate.Limit(rps), rps),
			Endpoint: endpoint,
		},
	}
}

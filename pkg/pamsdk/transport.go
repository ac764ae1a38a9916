package pamsdk

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Transport sends a fully built request. It is the Connector's only way onto
// the network; implementations own timeouts, TLS and connection pooling.
//
// A non-nil error means no HTTP response was received.
type Transport interface {
	Send(req *http.Request) (*http.Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(req *http.Request) (*http.Response, error)

// Send calls f(req).
func (f TransportFunc) Send(req *http.Request) (*http.Response, error) {
	return f(req)
}

// DefaultTimeout bounds every request sent by the default transport.
const DefaultTimeout = 10 * time.Second

// HTTPTransport sends requests with an *http.Client.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport returns a transport with DefaultTimeout.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		Client: &http.Client{Timeout: DefaultTimeout},
	}
}

// Send implements Transport.
func (t *HTTPTransport) Send(req *http.Request) (*http.Response, error) {
	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(req)
}

// RateLimitedTransport throttles outgoing requests with a token bucket before
// handing them to Next. Waiting honours the request's context.
type RateLimitedTransport struct {
	Next    Transport
	Limiter *rate.Limiter
}

// NewRateLimitedTransport allows rps requests per second with the given burst.
func NewRateLimitedTransport(next Transport, rps float64, burst int) *RateLimitedTransport {
	return &RateLimitedTransport{
		Next:    next,
		Limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Send implements Transport.
func (t *RateLimitedTransport) Send(req *http.Request) (*http.Response, error) {
	if err := t.Limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.Next.Send(req)
}

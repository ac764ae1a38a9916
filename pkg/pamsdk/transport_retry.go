package pamsdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

var errRetryableStatus = errors.New("retryable status")

// RetryTransport resends idempotent requests that failed in transit or were
// answered with 502, 503 or 504. POST is never retried, so a login is sent
// at most once. Session errors (401/403) are not retried here; they belong to
// the Connector's ReauthPolicy.
type RetryTransport struct {
	Next Transport

	// Backoff returns a fresh policy for each request.
	Backoff func() retry.Backoff
}

// NewRetryTransport retries up to maxRetries times with jittered exponential
// backoff starting at base.
func NewRetryTransport(next Transport, maxRetries uint64, base time.Duration) *RetryTransport {
	return &RetryTransport{
		Next: next,
		Backoff: func() retry.Backoff {
			b := retry.NewExponential(base)
			b = retry.WithJitterPercent(10, b)
			b = retry.WithCappedDuration(5*time.Second, b)
			return retry.WithMaxRetries(maxRetries, b)
		},
	}
}

// Send implements Transport.
func (t *RetryTransport) Send(req *http.Request) (*http.Response, error) {
	if !idempotent(req.Method) || (req.Body != nil && req.GetBody == nil) {
		return t.Next.Send(req)
	}

	ctx := req.Context()
	var (
		resp    *http.Response
		attempt int
	)
	err := retry.Do(ctx, t.Backoff(), func(ctx context.Context) error {
		r, err := rewind(req, attempt)
		if err != nil {
			return err
		}
		attempt++

		if resp != nil {
			drain(resp)
			resp = nil
		}

		resp, err = t.Next.Send(r)
		switch {
		case err != nil && ctx.Err() != nil:
			return err
		case err != nil:
			return retry.RetryableError(err)
		case retryableStatus(resp.StatusCode):
			return retry.RetryableError(errRetryableStatus)
		}
		return nil
	})

	switch {
	case err == nil:
		return resp, nil
	case errors.Is(err, errRetryableStatus) && resp != nil:
		// Out of retries: hand the last response to the caller for classification.
		return resp, nil
	}
	if resp != nil {
		drain(resp)
	}
	return nil, err
}

func rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		r.Body = body
	}
	return r, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/angel-codi/fxnow/internal/apperrors"
)

const userAgent = "fxnow/1.0"

// client is the shared retrying GET helper for the upstream FX APIs.
// Failed requests are retried with a constant backoff; timeouts are mapped
// to apperrors.ErrTimeout so callers can tell a slow upstream from a
// broken one.
type client struct {
	http       *http.Client
	retryNum   uint64
	retryDelay time.Duration
}

func newClient(timeout time.Duration, retryNum uint64, retryDelay time.Duration) *client {
	return &client{
		http:       &http.Client{Timeout: timeout},
		retryNum:   retryNum,
		retryDelay: retryDelay,
	}
}

func (c *client) getJSON(ctx context.Context, url string, out interface{}) error {
	backoff, err := retry.NewConstant(c.retryDelay)
	if err != nil {
		return fmt.Errorf("build backoff: %w", err)
	}
	backoff = retry.WithMaxRetries(c.retryNum, backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.fetch(ctx, url, out)
	})
}

// fetch wraps transient failures (transport errors, timeouts, 5xx,
// throttling) in retry.RetryableError; deterministic failures such as 4xx
// statuses and malformed payloads are returned as-is so another attempt is
// not wasted repeating the same answer.
func (c *client) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return retry.RetryableError(fmt.Errorf("%w: %v", apperrors.ErrTimeout, err))
		}
		return retry.RetryableError(fmt.Errorf("%w: %v", apperrors.ErrUpstream, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("%w: http status %d", apperrors.ErrUpstream, resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return retry.RetryableError(statusErr)
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", apperrors.ErrUpstream, err)
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

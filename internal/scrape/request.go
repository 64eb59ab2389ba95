package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
)

// RetryConfig governs the fixed-delay retry/backoff policy: §4.3 is
// explicit that these are fixed sleeps, not exponential backoff, so this
// type intentionally has no multiplier.
type RetryConfig struct {
	MaxTries          int
	RetrySleep        time.Duration
	TooManyReqsSleep  time.Duration
	RequestTimeout    time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxTries:         3,
		RetrySleep:       10 * time.Second,
		TooManyReqsSleep: 5 * time.Minute,
		RequestTimeout:   30 * time.Second,
	}
}

// Fetcher issues HTTP requests under the fixed-delay retry policy.
type Fetcher struct {
	client *http.Client
	cfg    RetryConfig
	logger arbor.ILogger
}

func NewFetcher(cfg RetryConfig, logger arbor.ILogger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Get issues a GET, retrying up to MaxTries times: a network error or 429
// sleeps a fixed duration and retries from the top; any other non-2xx
// fails immediately with no further retries, matching the original's
// _handle_failure semantics.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	return f.do(ctx, http.MethodGet, url)
}

// Head issues a HEAD with redirects followed, returning the final
// resolved URL (used by the doi strategy).
func (f *Fetcher) Head(ctx context.Context, url string) (string, error) {
	tries := f.cfg.MaxTries
	if tries <= 0 {
		return "", fmt.Errorf("head %s: max_tries is 0, no request sent", url)
	}

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return "", err
		}
		resp, err := f.client.Do(req)
		if err != nil {
			tries--
			if tries <= 0 {
				return "", fmt.Errorf("head %s: %w", url, err)
			}
			if !f.sleep(ctx, f.cfg.RetrySleep) {
				return "", ctx.Err()
			}
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			tries--
			if tries <= 0 {
				return "", fmt.Errorf("head %s: exhausted retries on 429", url)
			}
			if !f.sleep(ctx, f.cfg.TooManyReqsSleep) {
				return "", ctx.Err()
			}
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("head %s: status %d", url, resp.StatusCode)
		}
		return resp.Request.URL.String(), nil
	}
}

func (f *Fetcher) do(ctx context.Context, method, url string) ([]byte, error) {
	tries := f.cfg.MaxTries
	if tries <= 0 {
		return nil, fmt.Errorf("%s %s: max_tries is 0, no request sent", method, url)
	}

	for {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.client.Do(req)
		if err != nil {
			tries--
			if tries <= 0 {
				return nil, fmt.Errorf("%s %s: %w", method, url, err)
			}
			f.logger.Debug().Str("url", url).Err(err).Msg("request failed, sleeping before retry")
			if !f.sleep(ctx, f.cfg.RetrySleep) {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			tries--
			if tries <= 0 {
				return nil, fmt.Errorf("%s %s: exhausted retries on 429", method, url)
			}
			f.logger.Debug().Str("url", url).Msg("429 received, sleeping before retry")
			if !f.sleep(ctx, f.cfg.TooManyReqsSleep) {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%s %s: read body: %w", method, url, err)
		}
		return body, nil
	}
}

func (f *Fetcher) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

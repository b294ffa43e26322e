package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultRetryDelay = 500 * time.Millisecond

func newHTTPOpener(location string, opts Options, log *slog.Logger) func(ctx context.Context) (io.ReadCloser, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	return func(ctx context.Context) (io.ReadCloser, error) {
		log.DebugContext(ctx, "dataset request", slog.String("url", location))

		resp, err := fetchWithRetry(ctx, client, location, delay, log)
		if err != nil {
			log.ErrorContext(ctx, "dataset request failed", slog.String("url", location), slog.String("error", err.Error()))
			return nil, fmt.Errorf("dataset: request failed: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("dataset: unexpected status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}
}

// fetchWithRetry performs the GET with a single retry on 5xx or network errors.
func fetchWithRetry(ctx context.Context, client *http.Client, location string, delay time.Duration, log *slog.Logger) (*http.Response, error) {
	do := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		return client.Do(req)
	}

	resp, err := do()
	shouldRetry := err != nil || resp.StatusCode >= 500
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	log.WarnContext(ctx, "dataset retry", slog.String("url", location), slog.String("reason", reason))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(delay):
	}

	return do()
}

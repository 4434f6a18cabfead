package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"transcripttext/internal/transcript"
)

// Fetcher retrieves transcript documents over HTTP with optional bearer
// authentication. A zero timeout leaves the request unbounded; context
// cancellation still applies.
type Fetcher struct {
	client        *http.Client
	token         string
	logger        *zap.Logger
	failureCount  int
	maxRetries    int
	baseBackoffMs int
}

// NewFetcher creates a new Fetcher instance with the given request timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:        createFetchHTTPClient(timeout),
		logger:        zap.NewNop(), // Default no-op logger
		maxRetries:    1,
		baseBackoffMs: 500,
	}
}

// NewFetcherWithLogger creates a new Fetcher instance with custom logger
func NewFetcherWithLogger(timeout time.Duration, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client:        createFetchHTTPClient(timeout),
		logger:        logger,
		maxRetries:    1,
		baseBackoffMs: 500,
	}
}

// createFetchHTTPClient creates an HTTP client for document fetches with
// bounded connection establishment. The overall request timeout is the
// caller's; zero disables it.
func createFetchHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second, // Timeout for initial connection establishment
			KeepAlive: 30 * time.Second, // Keep connections alive for reuse
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second, // Timeout for TLS handshake
		ExpectContinueTimeout: 1 * time.Second,  // Timeout for Expect: 100-continue
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// SetToken sets the bearer token presented on every fetch. Empty disables
// the Authorization header.
func (f *Fetcher) SetToken(token string) {
	f.token = token
}

// SetRetryPolicy sets the attempt count and base backoff used by FetchWithRetry
func (f *Fetcher) SetRetryPolicy(maxRetries int, baseBackoffMs int) {
	if maxRetries >= 1 {
		f.maxRetries = maxRetries
	}
	if baseBackoffMs >= 0 {
		f.baseBackoffMs = baseBackoffMs
	}
}

// Fetch performs one GET for the document at url and returns the body as text.
// Any response status of 400 or above is a failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.logger.Info("fetching transcript document",
		zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		f.logger.Error("failed to create HTTP request",
			zap.String("url", url),
			zap.Error(err))
		return "", transcript.NewTransportError(err)
	}

	req.Header.Set("Accept", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("failed to fetch document",
			zap.String("url", url),
			zap.Error(err))
		return "", transcript.NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		f.logger.Error("fetch failed with error status",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode))
		return "", transcript.NewTransportError(fmt.Errorf("server returned status %d for %s", resp.StatusCode, url))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Error("failed to read response body",
			zap.String("url", url),
			zap.Error(err))
		return "", transcript.NewTransportError(err)
	}

	f.logger.Info("document fetched",
		zap.String("url", url),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("bytes", len(body)))

	return string(body), nil
}

// FetchWithRetry fetches the document with automatic retry and exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		f.logger.Info("attempting fetch",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("failure_count", f.failureCount))

		body, err := f.Fetch(ctx, url)
		if err == nil {
			// Successful fetch - reset failure counter
			f.failureCount = 0
			return body, nil
		}

		lastErr = err
		f.failureCount++
		f.logger.Warn("fetch attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("failure_count", f.failureCount),
			zap.Error(err))

		// If this was the last attempt, don't wait
		if attempt == f.maxRetries {
			break
		}

		// Calculate exponential backoff delay
		backoffMs := f.baseBackoffMs * (1 << (attempt - 1)) // 2^(attempt-1) * baseBackoff
		backoffDuration := time.Duration(backoffMs) * time.Millisecond

		f.logger.Info("waiting before retry",
			zap.String("url", url),
			zap.Duration("backoff", backoffDuration),
			zap.Int("next_attempt", attempt+1))

		// Wait with context cancellation support
		select {
		case <-ctx.Done():
			return "", transcript.NewTransportError(fmt.Errorf("fetch cancelled: %w", ctx.Err()))
		case <-time.After(backoffDuration):
			// Continue to next attempt
		}
	}

	f.logger.Error("maximum fetch attempts exceeded",
		zap.String("url", url),
		zap.Int("max_retries", f.maxRetries),
		zap.Int("failure_count", f.failureCount))

	return "", lastErr
}

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"

	"litsieve/internal/logging"
	"litsieve/internal/services"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultMaxRetries   = 4
	memoTTL             = 10 * time.Minute
	memoSweepInterval   = 30 * time.Minute
)

// fetcher is the shared HTTP path for all bibliographic clients: one retry
// policy, one user agent, one in-process memo for repeated URLs within a run.
type fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxRetries uint64
	memo       *gocache.Cache
	logger     *slog.Logger
}

func newFetcher(client *http.Client, userAgent string, logger *slog.Logger) *fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	if userAgent == "" {
		userAgent = "litsieve (https://github.com/litsieve/litsieve)"
	}
	return &fetcher{
		httpClient: client,
		userAgent:  userAgent,
		maxRetries: defaultMaxRetries,
		memo:       gocache.New(memoTTL, memoSweepInterval),
		logger:     logging.NewComponentLogger(logger, "sources"),
	}
}

// get fetches a URL with bounded exponential backoff. Rate limits, server
// errors, and transport failures retry; other client errors are permanent.
// Bodies are memoized in-process so sibling clients asking for the same URL
// within one run reuse the first answer.
func (f *fetcher) get(ctx context.Context, component, rawURL string) ([]byte, error) {
	if cached, ok := f.memo.Get(rawURL); ok {
		return cached.([]byte), nil
	}

	operation := func() ([]byte, error) {
		body, err := f.getOnce(ctx, component, rawURL)
		if err != nil && !services.Retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return body, err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), f.maxRetries), ctx)
	body, err := backoff.RetryWithData(operation, policy)
	if err != nil {
		return nil, err
	}
	f.memo.Set(rawURL, body, gocache.DefaultExpiration)
	return body, nil
}

func (f *fetcher) getOnce(ctx context.Context, component, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, component, "build request", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, component, "fetch", rawURL, err)
		}
		return nil, services.Wrap(services.ErrTransient, component, "fetch", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "read body", rawURL, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		f.logger.Debug("rate limited",
			logging.String(logging.FieldSource, component),
			logging.String("url", rawURL))
		return nil, services.Wrap(services.ErrRateLimited, component, "fetch", fmt.Sprintf("http %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, component, "fetch", rawURL, nil)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, services.Wrap(services.ErrTransient, component, "fetch", fmt.Sprintf("http %d", resp.StatusCode), nil)
	default:
		return nil, services.Wrap(services.ErrValidation, component, "fetch", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
}

// getJSON fetches and decodes a JSON payload.
func (f *fetcher) getJSON(ctx context.Context, component, rawURL string, target any) error {
	body, err := f.get(ctx, component, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return services.Wrap(services.ErrValidation, component, "decode payload", rawURL, err)
	}
	return nil
}

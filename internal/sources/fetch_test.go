package sources

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"

	"litsieve/internal/logging"
	"litsieve/internal/services"
)

func newTestFetcher(t *testing.T) *fetcher {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return newFetcher(client, "litsieve-test", logging.NewNop())
}

func TestFetcherRetriesServerErrors(t *testing.T) {
	f := newTestFetcher(t)

	calls := 0
	httpmock.RegisterResponder(http.MethodGet, "https://example.test/works",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(http.StatusInternalServerError, "oops"), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `{"ok":true}`), nil
		})

	body, err := f.get(context.Background(), "test", "https://example.test/works")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("unexpected body %q", body)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestFetcherDoesNotRetryNotFound(t *testing.T) {
	f := newTestFetcher(t)

	calls := 0
	httpmock.RegisterResponder(http.MethodGet, "https://example.test/missing",
		func(req *http.Request) (*http.Response, error) {
			calls++
			return httpmock.NewStringResponse(http.StatusNotFound, ""), nil
		})

	_, err := f.get(context.Background(), "test", "https://example.test/missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single attempt, got %d", calls)
	}
}

func TestFetcherMemoizesWithinRun(t *testing.T) {
	f := newTestFetcher(t)

	calls := 0
	httpmock.RegisterResponder(http.MethodGet, "https://example.test/memo",
		func(req *http.Request) (*http.Response, error) {
			calls++
			return httpmock.NewStringResponse(http.StatusOK, `{"n":1}`), nil
		})

	for range 3 {
		if _, err := f.get(context.Background(), "test", "https://example.test/memo"); err != nil {
			t.Fatalf("get failed: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected memoized single upstream call, got %d", calls)
	}
}

func TestFetcherSetsUserAgent(t *testing.T) {
	f := newTestFetcher(t)

	var seen string
	httpmock.RegisterResponder(http.MethodGet, "https://example.test/ua",
		func(req *http.Request) (*http.Response, error) {
			seen = req.Header.Get("User-Agent")
			return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
		})

	if _, err := f.get(context.Background(), "test", "https://example.test/ua"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if seen != "litsieve-test" {
		t.Fatalf("unexpected user agent %q", seen)
	}
}

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultHTTPTimeout bounds a fetch when HTTP.Timeout is zero.
const DefaultHTTPTimeout = 30 * time.Second

// HTTP fetches a CSV export from a URL, such as a published sheet or a gist.
type HTTP struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client // nil means a client with Timeout
}

func (h *HTTP) Name() string { return h.URL }

func (h *HTTP) Rows(ctx context.Context) ([][]string, error) {
	client := h.Client
	if client == nil {
		timeout := h.Timeout
		if timeout == 0 {
			timeout = DefaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("fetch %s: unexpected status %s: %q", h.URL, resp.Status, snippet)
	}

	rows, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.URL, err)
	}
	return rows, nil
}

// Package export fetches the spreadsheet's CSV export endpoint
// (https://docs.google.com/spreadsheets/d/<id>/export?format=csv). The
// endpoint answers with one or more redirects before the payload, so
// redirects are followed manually with a hop cap.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const maxRedirects = 5

type Client struct {
	httpClient      *http.Client
	transactionsURL string
	mileageURL      string
}

// New builds a client for the given export URLs. mileageURL may be empty
// when the deployment has no mileage sheet.
func New(transactionsURL, mileageURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			// Redirects are followed by hand so the hop cap applies and
			// cross-host Location targets stay visible in logs.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		transactionsURL: transactionsURL,
		mileageURL:      mileageURL,
	}
}

func (c *Client) FetchTransactions(ctx context.Context) (string, error) {
	return c.fetch(ctx, c.transactionsURL)
}

func (c *Client) FetchMileage(ctx context.Context) (string, error) {
	if c.mileageURL == "" {
		return "", nil
	}
	return c.fetch(ctx, c.mileageURL)
}

func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	for hop := 0; hop <= maxRedirects; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("fetch export: %w", err)
		}

		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			location := resp.Header.Get("Location")
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if location == "" {
				return "", fmt.Errorf("redirect without Location (status %d)", resp.StatusCode)
			}
			slog.DebugContext(ctx, "Following export redirect", "status", resp.StatusCode, "hop", hop+1)
			url = location
			continue
		}

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return "", fmt.Errorf("export returned status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("read export body: %w", err)
		}
		return string(body), nil
	}
	return "", fmt.Errorf("too many redirects (more than %d)", maxRedirects)
}

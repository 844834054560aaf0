// Package newsfeed holds one client per external news provider. Each client
// normalizes its provider's response shape into domain.Article; transport
// and payload problems surface as typed source errors that the aggregation
// layer contains.
package newsfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"msme-intel/internal/domain"
)

func doGet(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceMalformedResponse, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceAuthMissing, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceMalformedResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceMalformedResponse, err)
	}
	return body, nil
}

// parseTime tries the given layouts in order and returns nil when none
// match. Articles with a nil publish time are kept but sort last.
func parseTime(value string, layouts ...string) *time.Time {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

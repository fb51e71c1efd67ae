package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// fetchBytes downloads url with the shared document client and returns the
// response body. Non-2xx responses are errors.
func fetchBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %q fetching %s", resp.Status, url)
	}
	return io.ReadAll(resp.Body)
}

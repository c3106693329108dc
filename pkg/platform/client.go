package platform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient is a thin JSON-over-POST helper shared by the generation
// backends. One request per call, no retries: callers degrade to fallback
// text on failure rather than hammering a provider that is already down.
type HTTPClient struct {
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		Client: &http.Client{
			Timeout: timeout,
		},
		Timeout: timeout,
	}
}

// PostJSON sends body to url with the given extra headers and returns the
// raw response body. Non-2xx statuses are returned as errors with a bounded
// excerpt of the response text.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, body []byte, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned status %d: %s", url, resp.StatusCode, excerpt(data, 256))
	}
	return data, nil
}

func excerpt(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient talks JSON to the daybook server:
//
//	GET  {base}/api/journal/{date}/entries
//	POST {base}/api/journal/entries
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the given server base URL. token may be
// empty for servers without auth.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// fetchResponse is the server's envelope for a day's entries.
type fetchResponse struct {
	Entries []EntryRecord `json:"entries"`
}

// FetchEntries implements Transport.FetchEntries.
func (c *HTTPClient) FetchEntries(ctx context.Context, date string) ([]EntryRecord, error) {
	endpoint := fmt.Sprintf("%s/api/journal/%s/entries", c.baseURL, url.PathEscape(date))

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var page fetchResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding entries response: %w", err)
	}
	return page.Entries, nil
}

// CreateEntry implements Transport.CreateEntry.
func (c *HTTPClient) CreateEntry(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding create request: %w", err)
	}

	endpoint := c.baseURL + "/api/journal/entries"
	body, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var res CreateResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decoding create response: %w", err)
	}
	if res.ID == "" {
		return nil, fmt.Errorf("server did not assign an entry id")
	}
	return &res, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sync API error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// Package dashboard renders the read-only HTML view on top of the JSON list
// endpoints. It talks to them over HTTP like any other client would.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/devsstudio/skillsview/helpers"
	"github.com/devsstudio/skillsview/response"
)

const previewBytes = 400

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// Get fetches path and decodes a result envelope. A non-2xx status and a body
// that is not JSON are both errors carrying a short preview of the body.
func (c *Client) Get(ctx context.Context, path string) (response.Envelope, error) {
	var env response.Envelope

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return env, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	res, err := c.http.Do(req)
	if err != nil {
		return env, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return env, fmt.Errorf("read %s: %w", path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return env, fmt.Errorf("HTTP %s\n%s", res.Status, helpers.Preview(string(body), previewBytes))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return response.Envelope{}, fmt.Errorf("JSON parse failed. Response preview:\n%s", helpers.Preview(string(body), previewBytes))
	}
	return env, nil
}

package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// psidParam is the query parameter carrying the user identifier.
	psidParam = "PSID"

	// maxResponseSize bounds the registrar reply kept in memory and in the journal.
	maxResponseSize = 64 << 10
)

// Client registers PSIDs with the daily-notification subscription service.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Register subscribes psid and returns the service's JSON reply.
func (c *Client) Register(ctx context.Context, psid string) (json.RawMessage, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing registrar URL: %w", err)
	}
	q := u.Query()
	q.Set(psidParam, psid)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("register request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading register response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("register status %d: %s", resp.StatusCode, body)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("decoding register response: invalid JSON: %.200s", body)
	}
	return json.RawMessage(body), nil
}

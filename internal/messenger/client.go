package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBodySize bounds how much of a failed response is kept for logging.
const maxErrorBodySize = 4096

type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewClient(baseURL, accessToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		http:        &http.Client{Timeout: timeout},
	}
}

// Send delivers msg to the user identified by psid through the Send API.
func (c *Client) Send(ctx context.Context, psid string, msg OutboundMessage) error {
	payload, err := json.Marshal(SendRequest{
		Recipient: User{ID: psid},
		Message:   msg,
	})
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	endpoint := c.baseURL + "/me/messages?" + url.Values{"access_token": {c.accessToken}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", redactToken(err, c.accessToken))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return newAPIError(resp.StatusCode, respBody)
	}
	return nil
}

// redactToken masks the access token in *url.Error, which embeds the full request URL.
func redactToken(err error, token string) error {
	var urlErr *url.Error
	if token != "" && errors.As(err, &urlErr) {
		urlErr.URL = strings.ReplaceAll(urlErr.URL, token, MaskToken(token))
	}
	return err
}

// MaskToken masks a token for logging (shows first 3 and last 3 chars)
func MaskToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	if len(token) <= 6 {
		return "***"
	}
	return token[:3] + "***" + token[len(token)-3:]
}

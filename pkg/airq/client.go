// Package airq pkg/airq/client.go implements the sensor HTTP client.

package airq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

const fetchTimeout = 10 * time.Second

// Client fetches encrypted envelopes from air-Q sensor endpoints. The
// underlying http.Client is safe for concurrent use, so one Client
// serves all configured endpoints without one endpoint's latency
// delaying another's fetch.
type Client struct {
	host       string
	httpClient *http.Client
}

func NewClient(host string) *Client {
	host = strings.TrimRight(host, "/")
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}

	return &Client{
		host: host,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
	}
}

type dataResponse struct {
	Content string `json:"content"`
}

// Fetch performs one bounded GET against {host}{sensorPath}/data/ and
// returns the base64 envelope from the response.
func (c *Client) Fetch(ctx context.Context, sensorPath string) (string, error) {
	url := c.host + strings.TrimSuffix(sensorPath, "/") + "/data/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err, Timeout: isTimeout(err)}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Err: fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err, Timeout: isTimeout(err)}
	}

	var data dataResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", &DecodeError{Err: fmt.Errorf("%w: %w", ErrInvalidJSON, err)}
	}

	if data.Content == "" {
		return "", &DecodeError{Err: ErrMissingContent}
	}

	return data.Content, nil
}

func isTimeout(err error) bool {
	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

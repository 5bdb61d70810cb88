package solarlog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarlog/pkg/common"
	"github.com/raterudder/solarlog/pkg/log"
)

// snapshotQuery asks the device for the live values under RootKey/PropertiesKey.
var snapshotQuery = []byte(`{"` + RootKey + `":{"` + PropertiesKey + `":null}}`)

// maxSnapshotSize bounds how much of a response body is read.
const maxSnapshotSize = 1 << 20

// Client fetches snapshots from a SolarLog's JSON endpoint (usually
// http://<host>/getjp).
type Client struct {
	client *http.Client
	url    string
}

// NewClient returns a Client for the given endpoint. Every fetch is bounded by
// timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		client: common.HTTPClient(timeout),
		url:    endpoint,
	}
}

// Configured registers the device flags and returns a Client bound to them.
// The url defaults to $SOLARLOG_URL.
func Configured() *Client {
	c := &Client{}
	endpoint := lflag.String("solarlog-url", os.Getenv("SOLARLOG_URL"), "URL of the SolarLog JSON endpoint (e.g. http://solar-log/getjp)")
	timeout := lflag.Duration("solarlog-timeout", 10*time.Second, "Timeout for a single request to the SolarLog")

	lflag.Do(func() {
		c.url = *endpoint
		if err := c.Validate(); err != nil {
			panic(fmt.Sprintf("solarlog validation failed: %v", err))
		}
		c.client = common.HTTPClient(*timeout)
	})

	return c
}

// Validate ensures the configuration is valid.
func (c *Client) Validate() error {
	if c.url == "" {
		return fmt.Errorf("solarlog-url is required")
	}
	u, err := url.Parse(c.url)
	if err != nil {
		return fmt.Errorf("failed to parse solarlog url (%s): %w", c.url, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("solarlog url must be http or https: %s", c.url)
	}
	if u.Host == "" {
		return fmt.Errorf("solarlog url is missing a host: %s", c.url)
	}
	return nil
}

// URL returns the endpoint the client polls.
func (c *Client) URL() string {
	return c.url
}

// Fetch requests one snapshot and returns the raw JSON document.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(snapshotQuery))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Ctx(ctx).DebugContext(ctx, "fetching solarlog snapshot", slog.String("url", c.url))
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solarlog returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	log.Ctx(ctx).DebugContext(
		ctx,
		"fetched solarlog snapshot",
		slog.Int("bytes", len(body)),
		slog.Duration("latency", time.Since(start)),
	)
	return body, nil
}

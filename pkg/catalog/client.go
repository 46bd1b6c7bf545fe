package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the firmware distribution origin queried when no
// base URL is configured.
const DefaultBaseURL = "https://firmware.charachorder.com"

// TransportError covers network failures and non-2xx responses. The
// response body is intentionally not carried to keep diagnostics short.
type TransportError struct {
	Path       string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status code: %d", e.Path, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client fetches catalog listings and dataset files from a single
// firmware distribution origin.
type Client struct {
	BaseURL string
	// Strict enables schema validation of catalog responses before
	// decoding.
	Strict bool

	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Devices fetches the device catalog from the origin root.
func (c *Client) Devices(ctx context.Context) ([]Entry, error) {
	return c.fetchCatalog(ctx, "/")
}

// Firmwares fetches the firmware catalog for a device.
func (c *Client) Firmwares(ctx context.Context, device string) ([]Entry, error) {
	return c.fetchCatalog(ctx, "/"+url.PathEscape(device)+"/")
}

// Dataset fetches a named dataset file for a device+firmware pair. The
// payload is opaque and returned unmodified.
func (c *Client) Dataset(ctx context.Context, device, firmware, name string) ([]byte, error) {
	path := "/" + url.PathEscape(device) + "/" + url.PathEscape(firmware) + "/" + url.PathEscape(name)
	return c.get(ctx, path, "*/*")
}

func (c *Client) fetchCatalog(ctx context.Context, path string) ([]Entry, error) {
	body, err := c.get(ctx, path, "application/json")
	if err != nil {
		return nil, err
	}
	body, err = NormalizeText(body)
	if err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}
	if c.Strict {
		if err := ValidateCatalog(body); err != nil {
			return nil, err
		}
	}
	return ParseCatalog(body)
}

// get performs a single GET. No retries: the caller decides whether a
// failed step is worth repeating.
func (c *Client) get(ctx context.Context, path, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Path: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	return body, nil
}

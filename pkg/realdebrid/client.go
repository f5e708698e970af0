// Package realdebrid is a small client for the Real-Debrid REST API.
package realdebrid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amaumene/rdstream/pkg/httputil"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public REST endpoint.
	DefaultBaseURL = "https://api.real-debrid.com/rest/1.0"

	defaultTimeout = 30 * time.Second

	// Real-Debrid allows 250 requests per minute per token.
	requestsPerMinute = 250
	requestBurst      = 10
)

// ErrTokenMissing is returned by every call when no API token is configured.
var ErrTokenMissing = errors.New("real-debrid API token not configured")

// APIError is returned for any non-2xx answer.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("real-debrid API error: status %d: %s (code %d)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("real-debrid API error: status %d", e.StatusCode)
}

type apiErrorBody struct {
	Error     string `json:"error"`
	ErrorCode int    `json:"error_code"`
}

// Options configures a Client. Token is required for every call.
type Options struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
	// Limiter throttles outgoing requests; nil uses the API's published limit.
	Limiter *rate.Limiter
}

type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a client from opts, filling in defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		token:      strings.TrimSpace(opts.Token),
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		limiter:    opts.Limiter,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = httputil.NewHTTPClient(defaultTimeout)
	}
	if c.limiter == nil {
		c.limiter = NewLimiter()
	}
	return c
}

// NewLimiter returns a limiter matching Real-Debrid's request quota. Share one
// limiter between clients that use the same token.
func NewLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), requestBurst)
}

// Configured reports whether the client has a token.
func (c *Client) Configured() bool {
	return c.token != ""
}

// InstantAvailability looks up which cached variants exist for hash.
func (c *Client) InstantAvailability(ctx context.Context, hash string) (Availability, error) {
	body, err := c.do(ctx, http.MethodGet, "/torrents/instantAvailability/"+url.PathEscape(hash), nil)
	if err != nil {
		return nil, err
	}
	availability, err := decodeAvailability(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode availability: %w", err)
	}
	return availability, nil
}

// AddMagnet registers a magnet link and returns its torrent handle.
func (c *Client) AddMagnet(ctx context.Context, magnet string) (*AddMagnetResponse, error) {
	form := url.Values{}
	form.Set("magnet", magnet)

	var result AddMagnetResponse
	if err := c.doJSON(ctx, http.MethodPost, "/torrents/addMagnet", form, &result); err != nil {
		return nil, err
	}
	if result.ID == "" {
		return nil, fmt.Errorf("add magnet returned no torrent id")
	}
	return &result, nil
}

// SelectFiles chooses which files to download; files is "all" or a comma separated id list.
func (c *Client) SelectFiles(ctx context.Context, torrentID, files string) error {
	form := url.Values{}
	form.Set("files", files)
	_, err := c.do(ctx, http.MethodPost, "/torrents/selectFiles/"+url.PathEscape(torrentID), form)
	return err
}

// TorrentInfo fetches the current status of a torrent.
func (c *Client) TorrentInfo(ctx context.Context, torrentID string) (*TorrentInfo, error) {
	var info TorrentInfo
	if err := c.doJSON(ctx, http.MethodGet, "/torrents/info/"+url.PathEscape(torrentID), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UnrestrictLink converts a hoster link into a direct download link.
func (c *Client) UnrestrictLink(ctx context.Context, link string) (*UnrestrictedLink, error) {
	form := url.Values{}
	form.Set("link", link)

	var result UnrestrictedLink
	if err := c.doJSON(ctx, http.MethodPost, "/unrestrict/link", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Torrents lists the torrents on the account.
func (c *Client) Torrents(ctx context.Context) ([]TorrentInfo, error) {
	var torrents []TorrentInfo
	if err := c.doJSON(ctx, http.MethodGet, "/torrents", nil, &torrents); err != nil {
		return nil, err
	}
	return torrents, nil
}

// DeleteTorrent removes a torrent from the account.
func (c *Client) DeleteTorrent(ctx context.Context, torrentID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/torrents/delete/"+url.PathEscape(torrentID), nil)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	body, err := c.do(ctx, method, path, form)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return fmt.Errorf("empty response from %s", path)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrTokenMissing
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// the limiter refuses early when the next slot lies past the deadline
		return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}

	var reader io.Reader
	if form != nil {
		reader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload apiErrorBody
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Code = payload.ErrorCode
			apiErr.Message = payload.Error
		}
		return nil, apiErr
	}

	return body, nil
}

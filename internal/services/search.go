package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/rdstream/internal/constants"
	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/internal/metrics"
	"github.com/amaumene/rdstream/internal/models"
	"github.com/amaumene/rdstream/pkg/httputil"
	"github.com/amaumene/rdstream/pkg/logger"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// Logging
	searchLogLimit = 3 // number of results to log for debugging
)

// SearchOptions configures the torrent search client.
type SearchOptions struct {
	BaseURL string
	// LegacyFieldLayout reads size, seeds and leech from the rotated fields of
	// the first version of the search endpoint.
	LegacyFieldLayout bool
	CacheSize         int
	CacheTTL          time.Duration
	HTTPClient        *http.Client
}

// Search queries the torrent index.
type Search struct {
	baseURL    string
	legacy     bool
	httpClient *http.Client
	cache      *expirable.LRU[string, []models.SearchResult]
	logger     logger.Logger
	metrics    *metrics.Metrics
}

type searchResponse struct {
	Query      string            `json:"query"`
	Page       flexString        `json:"page"`
	Limit      flexString        `json:"limit"`
	TotalPages flexString        `json:"totalPages"`
	Results    []rawSearchResult `json:"results"`
}

type rawSearchResult struct {
	Name      string     `json:"name"`
	DetailURL string     `json:"detailUrl"`
	Size      flexString `json:"size"`
	Seeds     flexString `json:"seeds"`
	Leech     flexString `json:"leech"`
	Magnet    string     `json:"magnet"`
	Date      flexString `json:"date"`
}

// flexString accepts both JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

func NewSearch(opts SearchOptions, log logger.Logger, m *metrics.Metrics) *Search {
	if opts.BaseURL == "" {
		opts.BaseURL = constants.DefaultSearchURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = httputil.NewHTTPClient(constants.SearchTimeout)
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &Search{
		baseURL:    opts.BaseURL,
		legacy:     opts.LegacyFieldLayout,
		httpClient: opts.HTTPClient,
		logger:     log,
		metrics:    m,
	}
	if opts.CacheSize > 0 {
		s.cache = expirable.NewLRU[string, []models.SearchResult](opts.CacheSize, nil, opts.CacheTTL)
	}
	return s
}

// Search returns one page of results in server order. Pages below 1 are
// treated as page 1.
func (s *Search) Search(ctx context.Context, query string, page int) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewInvalidRequestError("search query must not be empty")
	}
	if page < 1 {
		page = 1
	}

	key := cacheKey(query, page)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debugf("[Search] cache hit for %q page %d", query, page)
			if s.metrics != nil {
				s.metrics.SearchCacheHits.Inc()
			}
			return slices.Clone(cached), nil
		}
	}

	results, err := s.fetch(ctx, query, page)
	s.record(err)
	if err != nil {
		s.logger.Errorf("[Search] search for %q failed: %v", query, err)
		return nil, err
	}

	s.logger.Infof("[Search] found %d results for %q page %d", len(results), query, page)
	for i := 0; i < len(results) && i < searchLogLimit; i++ {
		s.logger.Debugf("[Search] result %d: %s (seeds: %s)", i+1, results[i].Name, results[i].Seeds)
	}

	// callers own the returned slice
	if s.cache != nil {
		s.cache.Add(key, slices.Clone(results))
	}
	return results, nil
}

func (s *Search) fetch(ctx context.Context, query string, page int) ([]models.SearchResult, error) {
	apiURL, err := s.buildURL(query, page)
	if err != nil {
		return nil, s.transportError("invalid search URL", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, s.transportError("failed to build search request", 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctxErr := apperrors.FromContext(apperrors.OpSearch, err); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, s.transportError("search request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.transportError("search request failed", resp.StatusCode,
			fmt.Errorf("search API error: status %d", resp.StatusCode))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, s.transportError("failed to decode search response", resp.StatusCode, err)
	}

	results := make([]models.SearchResult, 0, len(body.Results))
	for _, raw := range body.Results {
		results = append(results, s.mapResult(raw))
	}
	return results, nil
}

// mapResult copies the raw fields, or rotates them under the legacy layout.
func (s *Search) mapResult(raw rawSearchResult) models.SearchResult {
	result := models.SearchResult{
		Name:      raw.Name,
		DetailURL: raw.DetailURL,
		Magnet:    raw.Magnet,
	}
	if s.legacy {
		result.Size = string(raw.Seeds)
		result.Seeds = string(raw.Leech)
		result.Leech = string(raw.Size)
		result.Date = string(raw.Size)
		return result
	}
	result.Size = string(raw.Size)
	result.Seeds = string(raw.Seeds)
	result.Leech = string(raw.Leech)
	result.Date = string(raw.Date)
	return result
}

func (s *Search) buildURL(query string, page int) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *Search) transportError(message string, status int, cause error) error {
	return apperrors.NewTransportError(apperrors.OpSearch, message, status, cause)
}

func (s *Search) record(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.Searches.WithLabelValues(metrics.Outcome(err, kindLabel)).Inc()
}

func cacheKey(query string, page int) string {
	return query + "\x00" + strconv.Itoa(page)
}

// DemoResults builds the demonstration results shown when live search is
// unavailable and demo fallback is enabled. Their magnets are placeholders.
func DemoResults(query string) []models.SearchResult {
	query = strings.TrimSpace(query)
	return []models.SearchResult{
		{
			Name:      query + " 2024 1080p BluRay x264-EXAMPLE",
			DetailURL: "https://example.com/torrent/1",
			Size:      "8.5 GB",
			Seeds:     "150",
			Leech:     "23",
			Magnet:    "magnet:?xt=urn:btih:example123456789",
			Date:      "2024-01-15",
		},
		{
			Name:      query + " 2024 2160p UHD BluRay x265-SAMPLE",
			DetailURL: "https://example.com/torrent/2",
			Size:      "15.2 GB",
			Seeds:     "89",
			Leech:     "12",
			Magnet:    "magnet:?xt=urn:btih:sample987654321",
			Date:      "2024-01-14",
		},
	}
}

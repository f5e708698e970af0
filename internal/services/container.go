// Package services provides the acquisition pipeline, torrent search, library
// and catalog, wired together by a dependency injection container.
package services

import (
	"fmt"
	"net/http"

	"github.com/amaumene/rdstream/internal/config"
	"github.com/amaumene/rdstream/internal/database"
	"github.com/amaumene/rdstream/internal/metrics"
	"github.com/amaumene/rdstream/pkg/httputil"
	"github.com/amaumene/rdstream/pkg/logger"
	"github.com/amaumene/rdstream/pkg/realdebrid"
	"github.com/amaumene/rdstream/pkg/security"
	"golang.org/x/time/rate"
)

// Token sources reported by ResolveToken.
const (
	TokenSourceStore  = "store"
	TokenSourceConfig = "config"
)

// Container holds all application services for dependency injection.
type Container struct {
	Config  *config.Config
	DB      database.Store
	Logger  logger.Logger
	Metrics *metrics.Metrics
	Search  *Search
	Catalog *Catalog

	validator  *security.TokenValidator
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewContainer builds the shared services. db may be nil when no settings
// store is available, in which case only the configured token is used.
func NewContainer(cfg *config.Config, db database.Store, log logger.Logger, m *metrics.Metrics) *Container {
	if log == nil {
		log = logger.NewNop()
	}
	return &Container{
		Config:  cfg,
		DB:      db,
		Logger:  log,
		Metrics: m,
		Search: NewSearch(SearchOptions{
			BaseURL:           cfg.SearchURL,
			LegacyFieldLayout: cfg.SearchLegacyFieldLayout,
			CacheSize:         cfg.SearchCacheSize,
			CacheTTL:          cfg.SearchCacheTTL,
		}, log, m),
		Catalog:    NewCatalog(),
		validator:  security.NewTokenValidator(),
		limiter:    realdebrid.NewLimiter(),
		httpClient: httputil.NewDefaultHTTPClient(),
	}
}

// ResolveToken returns the Real-Debrid token, preferring the stored one over
// the configured one, and where it came from. An empty token is not an error.
func (c *Container) ResolveToken() (token, source string, err error) {
	if c.DB != nil {
		stored, err := c.DB.DebridToken()
		if err != nil {
			return "", "", fmt.Errorf("failed to read stored token: %w", err)
		}
		if stored = c.validator.SanitizeToken(stored); stored != "" {
			return stored, TokenSourceStore, nil
		}
	}
	if token := c.validator.SanitizeToken(c.Config.RealDebridToken); token != "" {
		return token, TokenSourceConfig, nil
	}
	return "", "", nil
}

// Debrid builds a client for the current token. The client is not cached so a
// token change applies to the next call.
func (c *Container) Debrid() (*realdebrid.Client, error) {
	token, source, err := c.ResolveToken()
	if err != nil {
		return nil, err
	}
	if token != "" {
		c.Logger.Debugf("[Container] using %s token %s", source, c.validator.MaskToken(token))
	}
	return realdebrid.NewClient(realdebrid.Options{
		Token:      token,
		BaseURL:    c.Config.RealDebridBaseURL,
		HTTPClient: c.httpClient,
		Limiter:    c.limiter,
	}), nil
}

// Acquisition builds a pipeline bound to a fresh debrid client. onPoll may be nil.
func (c *Container) Acquisition(onPoll PollObserver) (*Acquisition, error) {
	client, err := c.Debrid()
	if err != nil {
		return nil, err
	}
	return NewAcquisition(client, AcquisitionOptions{
		PollInterval:    c.Config.PollInterval,
		MaxPollAttempts: c.Config.MaxPollAttempts,
		OnPoll:          onPoll,
	}, c.Logger, c.Metrics), nil
}

// Library builds a library view bound to a fresh debrid client.
func (c *Container) Library() (*Library, error) {
	client, err := c.Debrid()
	if err != nil {
		return nil, err
	}
	return NewLibrary(client, c.Logger), nil
}
